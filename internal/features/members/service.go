// Package members — service.go is the business logic around the member
// ledger: keeping records fresh and resolving names for replies.
package members

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Service manages the member ledger.
type Service struct {
	repo *Repository
}

// NewService creates the member service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// EnsureMember makes sure the user is in the ledger with current name
// data. Called on every incoming message, it is a no-op when nothing
// changed.
func (s *Service) EnsureMember(ctx context.Context, userID int64, username, firstName, lastName string) error {
	created, err := s.repo.Upsert(userID, username, firstName, lastName)
	if err != nil {
		return fmt.Errorf("record member %d: %w", userID, err)
	}
	if created {
		log.WithFields(log.Fields{
			"user_id":  userID,
			"username": username,
		}).Info("new member recorded")
	}
	return nil
}

// ResolveUsername maps a @username (with or without the @) to a user
// ID, if the bot has ever seen that user.
func (s *Service) ResolveUsername(ctx context.Context, username string) (int64, bool) {
	if len(username) > 0 && username[0] == '@' {
		username = username[1:]
	}
	if username == "" {
		return 0, false
	}
	m, ok := s.repo.GetByUsername(username)
	if !ok {
		return 0, false
	}
	return m.UserID, true
}

// DisplayName returns a readable name for userID, falling back to
// "User<id>" for users the bot has never seen.
func (s *Service) DisplayName(ctx context.Context, userID int64) string {
	if m, ok := s.repo.Get(userID); ok {
		if name := m.DisplayName(); name != "" {
			return name
		}
	}
	return fmt.Sprintf("User%d", userID)
}
