// Package members — repository.go owns the members.yaml document.
// The whole ledger lives in memory behind a mutex and is rewritten to
// disk after every mutation.
package members

import (
	"strings"
	"sync"
	"time"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/store"
)

type Repository struct {
	mu   sync.RWMutex
	doc  Document
	file *store.File[Document]
}

// NewRepository loads members.yaml from dir, or starts empty.
func NewRepository(file *store.File[Document]) (*Repository, error) {
	doc, err := file.Load()
	if err != nil {
		return nil, err
	}
	if doc.Members == nil {
		doc.Members = make(map[int64]*Member)
	}
	return &Repository{doc: doc, file: file}, nil
}

// Upsert records the user, refreshing name fields on every call.
// Returns true when the member was not known before.
func (r *Repository) Upsert(userID int64, username, firstName, lastName string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, exists := r.doc.Members[userID]
	if !exists {
		m = &Member{UserID: userID}
		r.doc.Members[userID] = m
	}

	changed := !exists ||
		m.Username != username || m.FirstName != firstName || m.LastName != lastName
	m.Username = username
	m.FirstName = firstName
	m.LastName = lastName
	m.SeenAt = time.Now()

	if !changed {
		return false, nil
	}
	return !exists, r.file.Save(r.doc)
}

// Get returns a copy of the member record.
func (r *Repository) Get(userID int64) (Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.doc.Members[userID]
	if !ok {
		return Member{}, false
	}
	return *m, true
}

// GetByUsername resolves a @username (without the @), case-insensitive.
func (r *Repository) GetByUsername(username string) (Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.doc.Members {
		if m.Username != "" && strings.EqualFold(m.Username, username) {
			return *m, true
		}
	}
	return Member{}, false
}
