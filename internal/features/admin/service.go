// Package admin — service.go holds authentication and the currency
// operations the panel exposes.
package admin

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/common"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/config"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/economy"
)

const (
	sessionTTL     = 24 * time.Hour
	lockoutWindow  = time.Hour
	lockoutCeiling = 3
)

// Service manages the admin panel.
type Service struct {
	repo *Repository
	econ *economy.Service
	cfg  *config.Config
}

func NewService(repo *Repository, econ *economy.Service, cfg *config.Config) *Service {
	return &Service{repo: repo, econ: econ, cfg: cfg}
}

// Login verifies the admin password. Three failures inside an hour
// lock the user out for the rest of it.
func (s *Service) Login(ctx context.Context, userID int64, password string) error {
	if !s.cfg.IsAdmin(userID) {
		return common.ErrNotAdmin
	}
	if s.repo.RecentFailures(userID, lockoutWindow) >= lockoutCeiling {
		return common.ErrTooManyAttempts
	}

	match := verifyArgon2id(password, s.cfg.AdminPasswordHash)
	s.repo.LogAttempt(userID, match)
	if !match {
		return common.ErrWrongPassword
	}

	s.repo.CreateSession(userID, generateSecureToken(), sessionTTL)
	log.WithField("user_id", userID).Info("admin logged in")
	return nil
}

// Logout drops the user's session.
func (s *Service) Logout(userID int64) {
	s.repo.DeleteSession(userID)
}

// Authorized reports whether the user holds a live session.
func (s *Service) Authorized(userID int64) bool {
	_, ok := s.repo.ActiveSession(userID)
	return ok
}

// require gates the privileged operations.
func (s *Service) require(userID int64) error {
	if !s.cfg.IsAdmin(userID) {
		return common.ErrNotAdmin
	}
	if _, ok := s.repo.ActiveSession(userID); !ok {
		return common.ErrSessionExpired
	}
	return nil
}

// Grant credits coins to a member of a group and returns the new
// balance.
func (s *Service) Grant(ctx context.Context, adminID, group, target int64, amount float64) (float64, error) {
	if err := s.require(adminID); err != nil {
		return 0, err
	}
	if amount <= 0 {
		return 0, common.ErrInvalidAmount
	}
	balance, err := s.econ.AddPoints(ctx, group, target, amount)
	if err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{
		"admin_id": adminID, "group": group, "target": target, "amount": amount,
	}).Info("admin grant")
	return balance, nil
}

// Deduct removes coins from a member, flooring the balance at zero,
// and returns the new balance.
func (s *Service) Deduct(ctx context.Context, adminID, group, target int64, amount float64) (float64, error) {
	if err := s.require(adminID); err != nil {
		return 0, err
	}
	if amount <= 0 {
		return 0, common.ErrInvalidAmount
	}

	var balance float64
	err := s.econ.Update(ctx, group, target, func(rec *economy.Record) {
		rec.Points -= amount
		if rec.Points < 0 {
			rec.Points = 0
		}
		balance = rec.Points
	})
	if err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{
		"admin_id": adminID, "group": group, "target": target, "amount": amount,
	}).Info("admin deduct")
	return balance, nil
}

// verifyArgon2id checks a password against an encoded Argon2id hash of
// the form $argon2id$v=19$m=65536,t=3,p=2$<salt_b64>$<hash_b64>.
func verifyArgon2id(password, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		log.Error("malformed Argon2id hash")
		return false
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		log.WithError(err).Error("bad Argon2id parameters")
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		log.WithError(err).Error("bad Argon2id salt")
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		log.WithError(err).Error("bad Argon2id hash")
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(expected)))
	return subtle.ConstantTimeCompare(computed, expected) == 1
}

func generateSecureToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return base64.URLEncoding.EncodeToString(b)
}
