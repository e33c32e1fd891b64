// Package economy — repository.go owns the users.yaml document.
// The whole ledger sits in memory behind one mutex; mutations run as
// closures under the lock and the full document is written back after
// each one. Group-chat scale data, so whole-file rewrites are fine.
package economy

import (
	"sync"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/store"
)

type Repository struct {
	mu   sync.Mutex
	doc  Document
	file *store.File[Document]
}

// NewRepository loads users.yaml, or starts with an empty ledger.
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

// recordLocked returns the live record, creating it with defaults.
// Callers hold r.mu.
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
	rec.applyDefaults()
	return rec
}

// Get returns a deep copy of the user's record with defaults applied.
// Copies share nothing with the live record, readers never observe a
// concurrent mutation.
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

// UpdatePair runs fn against two records of the same group atomically.
// Used for transfers so nothing else observes a half-applied move.
func (r *Repository) UpdatePair(group, a, b int64, fn func(ra, rb *Record)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	fn(r.recordLocked(group, a), r.recordLocked(group, b))
	return r.file.Save(r.doc)
}

// GroupSnapshot returns copies of every record in the group.
// Leaderboards and group-wide achievement checks read through here.
func (r *Repository) GroupSnapshot(group int64) map[int64]Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[int64]Record, len(r.doc.Groups[group]))
	for uid, rec := range r.doc.Groups[group] {
		rec.applyDefaults()
		out[uid] = rec.clone()
	}
	return out
}

// Persist writes the current document to disk unconditionally.
// Called once on shutdown.
func (r *Repository) Persist() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Save(r.doc)
}
