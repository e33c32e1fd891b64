// Package economy — service.go holds the ledger business logic:
// credits and debits, currency gifts with streak bookkeeping, stamina,
// buffs and leaderboards.
package economy

import (
	"context"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/common"
)

// Service manages the user economy ledger.
type Service struct {
	repo *Repository
}

// NewService creates the economy service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Record returns a copy of the user's current state.
func (s *Service) Record(ctx context.Context, group, user int64) Record {
	return s.repo.Get(group, user)
}

// Update exposes the raw record mutation used by sibling features
// (sign-in dates, lottery counters, adventure totals live on the same
// record).
func (s *Service) Update(ctx context.Context, group, user int64, fn func(*Record)) error {
	return s.repo.Update(group, user, fn)
}

// GroupSnapshot returns copies of all records in the group.
func (s *Service) GroupSnapshot(ctx context.Context, group int64) map[int64]Record {
	return s.repo.GroupSnapshot(group)
}

// AddPoints credits coins. Amount must be positive.
func (s *Service) AddPoints(ctx context.Context, group, user int64, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, common.ErrInvalidAmount
	}
	var balance float64
	err := s.repo.Update(group, user, func(r *Record) {
		r.Points += amount
		balance = r.Points
	})
	return balance, err
}

// DeductPoints debits coins, rejecting overdrafts.
func (s *Service) DeductPoints(ctx context.Context, group, user int64, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, common.ErrInvalidAmount
	}
	var balance float64
	insufficient := false
	err := s.repo.Update(group, user, func(r *Record) {
		if r.Points < amount {
			insufficient = true
			balance = r.Points
			return
		}
		r.Points -= amount
		balance = r.Points
	})
	if err != nil {
		return balance, err
	}
	if insufficient {
		return balance, common.ErrInsufficientPoints
	}
	return balance, nil
}

// SpendStamina deducts stamina, rejecting when the user cannot afford it.
func (s *Service) SpendStamina(ctx context.Context, group, user int64, cost int) error {
	insufficient := false
	err := s.repo.Update(group, user, func(r *Record) {
		if r.Stamina < cost {
			insufficient = true
			return
		}
		r.Stamina -= cost
	})
	if err != nil {
		return err
	}
	if insufficient {
		return common.ErrInsufficientStamina
	}
	return nil
}

// RestoreStamina adds stamina clamped to [0, max]. Returns the amount
// actually gained; feeding a full user is rejected.
func (s *Service) RestoreStamina(ctx context.Context, group, user int64, delta int) (int, error) {
	full := false
	gained := 0
	err := s.repo.Update(group, user, func(r *Record) {
		if delta > 0 && r.Stamina >= r.MaxStamina {
			full = true
			return
		}
		before := r.Stamina
		r.Stamina += delta
		if r.Stamina > r.MaxStamina {
			r.Stamina = r.MaxStamina
		}
		if r.Stamina < 0 {
			r.Stamina = 0
		}
		gained = r.Stamina - before
	})
	if err != nil {
		return 0, err
	}
	if full {
		return 0, common.ErrStaminaFull
	}
	return gained, nil
}

// GiftResult is what a completed currency gift looks like to the caller.
type GiftResult struct {
	SenderBalance float64
	StreakDays    int
	BigGift       bool // single gift of 100+ coins, feeds an event achievement
}

// Gift transfers coins between two users of the same group and keeps
// the sender's gift statistics. Only completed gifts advance the
// consecutive-days streak: a rejected transfer leaves every counter
// untouched.
func (s *Service) Gift(ctx context.Context, group, from, to int64, amount float64) (GiftResult, error) {
	if from == to {
		return GiftResult{}, common.ErrSelfTarget
	}
	if amount <= 0 {
		return GiftResult{}, common.ErrInvalidAmount
	}

	var res GiftResult
	insufficient := false
	today := common.Today()

	err := s.repo.UpdatePair(group, from, to, func(sender, receiver *Record) {
		if sender.Points < amount {
			insufficient = true
			return
		}
		sender.Points -= amount
		receiver.Points += amount

		sender.TotalGifted += amount
		sender.GiftCount++
		switch {
		case sender.LastGiftDate == today:
			// second gift today, streak already counted
		case common.DaysBetween(sender.LastGiftDate, today) == 1:
			sender.ConsecutiveGiftDays++
		default:
			sender.ConsecutiveGiftDays = 1
		}
		sender.LastGiftDate = today

		res = GiftResult{
			SenderBalance: sender.Points,
			StreakDays:    sender.ConsecutiveGiftDays,
			BigGift:       amount >= 100,
		}
	})
	if err != nil {
		return res, err
	}
	if insufficient {
		return res, common.ErrInsufficientPoints
	}

	log.WithFields(log.Fields{
		"group":  group,
		"from":   from,
		"to":     to,
		"amount": amount,
	}).Info("gift completed")
	return res, nil
}

// GrantBuff adds one charge of the buff and returns the new count.
// Charges stack, consuming one leaves the rest pending.
func (s *Service) GrantBuff(ctx context.Context, group, user int64, b Buff) (int, error) {
	count := 0
	err := s.repo.Update(group, user, func(r *Record) {
		count = r.GrantBuff(b)
	})
	return count, err
}

// Persist flushes the ledger to disk. Called on shutdown.
func (s *Service) Persist() error {
	return s.repo.Persist()
}

// BoardKind selects which leaderboard to build.
type BoardKind string

const (
	BoardWealth BoardKind = "wealth"
	BoardStreak BoardKind = "streak"
	BoardLuck   BoardKind = "luck"
)

// BoardEntry is one leaderboard row.
type BoardEntry struct {
	UserID int64
	Score  float64
}

// Board is a built leaderboard: the top rows plus the requester's own
// standing (rank is 1-based, 0 when the requester has no score).
type Board struct {
	Kind           BoardKind
	Entries        []BoardEntry
	RequesterRank  int
	RequesterScore float64
}

// Leaderboard builds the top-10 board of the given kind for a group.
func (s *Service) Leaderboard(ctx context.Context, group int64, kind BoardKind, requester int64) Board {
	snapshot := s.repo.GroupSnapshot(group)

	score := func(r Record) float64 {
		switch kind {
		case BoardStreak:
			return float64(r.StreakDays)
		case BoardLuck:
			return float64(r.HighTierWins)
		default:
			return r.Points
		}
	}

	entries := make([]BoardEntry, 0, len(snapshot))
	for uid, rec := range snapshot {
		entries = append(entries, BoardEntry{UserID: uid, Score: score(rec)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].UserID < entries[j].UserID
	})

	board := Board{Kind: kind}
	for rank, e := range entries {
		if e.UserID == requester {
			board.RequesterRank = rank + 1
			board.RequesterScore = e.Score
		}
		if rank < 10 {
			board.Entries = append(board.Entries, e)
		}
	}
	return board
}
