// Package admin — repository.go keeps sessions and login attempts in
// memory. Auth state is deliberately ephemeral, unlike the game
// ledgers on disk.
package admin

import (
	"sync"
	"time"
)

type Repository struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	attempts map[int64][]LoginAttempt
}

func NewRepository() *Repository {
	return &Repository{
		sessions: make(map[int64]*Session),
		attempts: make(map[int64][]LoginAttempt),
	}
}

// CreateSession replaces any existing session for the user.
func (r *Repository) CreateSession(userID int64, token string, ttl time.Duration) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	s := &Session{
		UserID:          userID,
		Token:           token,
		AuthenticatedAt: now,
		ExpiresAt:       now.Add(ttl),
		LastActivity:    now,
	}
	r.sessions[userID] = s
	return s
}

// ActiveSession returns the user's session if it has not expired, and
// touches its activity timestamp.
func (r *Repository) ActiveSession(userID int64) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[userID]
	if !ok {
		return nil, false
	}
	if time.Now().After(s.ExpiresAt) {
		delete(r.sessions, userID)
		return nil, false
	}
	s.LastActivity = time.Now()
	return s, true
}

// DeleteSession logs the user out.
func (r *Repository) DeleteSession(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}

// LogAttempt records a password attempt. A successful login clears the
// failure history.
func (r *Repository) LogAttempt(userID int64, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if success {
		delete(r.attempts, userID)
		return
	}
	r.attempts[userID] = append(r.attempts[userID], LoginAttempt{At: time.Now(), Success: false})
}

// RecentFailures counts failed attempts inside the window, pruning
// older ones.
func (r *Repository) RecentFailures(userID int64, window time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-window)
	kept := r.attempts[userID][:0]
	for _, a := range r.attempts[userID] {
		if a.At.After(cutoff) {
			kept = append(kept, a)
		}
	}
	if len(kept) == 0 {
		delete(r.attempts, userID)
	} else {
		r.attempts[userID] = kept
	}
	return len(kept)
}
