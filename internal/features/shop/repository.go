// Package shop — repository.go owns the shop.yaml document: per-user
// inventories plus purchase and use history.
package shop

import (
	"sync"
	"time"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/store"
)

// Inventory caps.
const (
	MaxPerItem   = 10
	MaxTotal     = 100
)

// HistoryEntry records one purchase or use.
type HistoryEntry struct {
	Item     string    `yaml:"item"`
	Quantity int       `yaml:"quantity"`
	Time     time.Time `yaml:"time"`
}

// UserShop is one user's bag and history.
type UserShop struct {
	Inventory map[string]int `yaml:"inventory,omitempty"`
	Purchases []HistoryEntry `yaml:"purchases,omitempty"`
	Uses      []HistoryEntry `yaml:"uses,omitempty"`
}

// Total returns the number of items in the bag.
func (u *UserShop) Total() int {
	n := 0
	for _, c := range u.Inventory {
		n += c
	}
	return n
}

// Document is the persisted shop ledger: group → user → bag.
type Document struct {
	Groups map[int64]map[int64]*UserShop `yaml:"groups"`
}

type Repository struct {
	mu   sync.Mutex
	doc  Document
	file *store.File[Document]
}

// NewRepository loads shop.yaml, or starts empty.
func NewRepository(file *store.File[Document]) (*Repository, error) {
	doc, err := file.Load()
	if err != nil {
		return nil, err
	}
	if doc.Groups == nil {
		doc.Groups = make(map[int64]map[int64]*UserShop)
	}
	return &Repository{doc: doc, file: file}, nil
}

func (r *Repository) userLocked(group, user int64) *UserShop {
	g, ok := r.doc.Groups[group]
	if !ok {
		g = make(map[int64]*UserShop)
		r.doc.Groups[group] = g
	}
	u, ok := g[user]
	if !ok {
		u = &UserShop{}
		g[user] = u
	}
	if u.Inventory == nil {
		u.Inventory = make(map[string]int)
	}
	return u
}

// Get returns a copy of the user's bag.
func (r *Repository) Get(group, user int64) UserShop {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.userLocked(group, user)
	out := UserShop{
		Inventory: make(map[string]int, len(u.Inventory)),
		Purchases: append([]HistoryEntry(nil), u.Purchases...),
		Uses:      append([]HistoryEntry(nil), u.Uses...),
	}
	for k, v := range u.Inventory {
		out.Inventory[k] = v
	}
	return out
}

// Update runs fn against the live bag and persists the document.
func (r *Repository) Update(group, user int64, fn func(*UserShop)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	fn(r.userLocked(group, user))
	return r.file.Save(r.doc)
}

// Persist writes the current document to disk. Called on shutdown.
func (r *Repository) Persist() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Save(r.doc)
}
