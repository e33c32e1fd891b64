// Package sessions holds short-lived conversational state: a pending
// make-up-sign decision, a job pick after sending somebody to work, a
// date invitation waiting for an answer. Sessions live in memory only
// and expire on their own, nothing here is persisted.
package sessions

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one pending interaction.
type Session[T any] struct {
	ID        string
	Value     T
	ExpiresAt time.Time
}

// Store keeps sessions keyed by an arbitrary string, usually
// Key(chatID, userID).
type Store[T any] struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]Session[T]
}

// New creates a session store with the given lifetime per session.
func New[T any](ttl time.Duration) *Store[T] {
	return &Store[T]{
		ttl:   ttl,
		items: make(map[string]Session[T]),
	}
}

// Put stores a session under key, replacing any previous one, and
// returns its ID.
func (s *Store[T]) Put(key string, value T) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()

	sess := Session[T]{
		ID:        uuid.NewString(),
		Value:     value,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	s.items[key] = sess
	return sess.ID
}

// Get returns the live session under key, if any.
func (s *Store[T]) Get(key string) (Session[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.items[key]
	if !ok {
		return Session[T]{}, false
	}
	if time.Now().After(sess.ExpiresAt) {
		delete(s.items, key)
		return Session[T]{}, false
	}
	return sess, true
}

// Take returns the live session under key and removes it.
func (s *Store[T]) Take(key string) (Session[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.items[key]
	if !ok {
		return Session[T]{}, false
	}
	delete(s.items, key)
	if time.Now().After(sess.ExpiresAt) {
		return Session[T]{}, false
	}
	return sess, true
}

// Delete removes the session under key, if any.
func (s *Store[T]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

// pruneLocked drops expired sessions. Called under s.mu.
func (s *Store[T]) pruneLocked() {
	now := time.Now()
	for k, sess := range s.items {
		if now.After(sess.ExpiresAt) {
			delete(s.items, k)
		}
	}
}

// Key builds the canonical session key for a user in a chat.
func Key(chatID, userID int64) string {
	return fmt.Sprintf("%d:%d", chatID, userID)
}
