// Package social — repository.go owns the social.yaml document, same
// single-mutex whole-file discipline as the other ledgers.
package social

import (
	"sync"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/store"
)

type Repository struct {
	mu   sync.Mutex
	doc  Document
	file *store.File[Document]
}

// NewRepository loads social.yaml, or starts with an empty ledger.
func NewRepository(file *store.File[Document]) (*Repository, error) {
	doc, err := file.Load()
	if err != nil {
		return nil, err
	}
	if doc.Groups == nil {
		doc.Groups = make(map[int64]map[int64]*Record)
	}
	return &Repository{doc: doc, file: file}, nil
}

// recordLocked returns the live record, creating it empty. Callers
// hold r.mu.
func (r *Repository) recordLocked(group, user int64) *Record {
	g, ok := r.doc.Groups[group]
	if !ok {
		g = make(map[int64]*Record)
		r.doc.Groups[group] = g
	}
	rec, ok := g[user]
	if !ok {
		rec = &Record{}
		g[user] = rec
	}
	return rec
}

// Get returns a deep copy of the user's record.
func (r *Repository) Get(group, user int64) Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recordLocked(group, user).clone()
}

// Update runs fn against the live record and persists the document.
func (r *Repository) Update(group, user int64, fn func(*Record)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	fn(r.recordLocked(group, user))
	return r.file.Save(r.doc)
}

// UpdateGraph runs fn with lazy access to any record of the group,
// under one lock and one save. Bonds and dates touch both sides of a
// pair.
func (r *Repository) UpdateGraph(group int64, fn func(get func(user int64) *Record)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	fn(func(user int64) *Record {
		return r.recordLocked(group, user)
	})
	return r.file.Save(r.doc)
}

// Persist writes the current document to disk unconditionally.
func (r *Repository) Persist() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Save(r.doc)
}
