// Package achievements — service.go is the evaluator: it re-checks
// general rules after actions, fires event unlocks, and manages titles.
package achievements

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/common"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/economy"
)

// MarketStatsFunc supplies the market slice of a snapshot. Wired from
// the market repository in app assembly; the indirection keeps this
// package from importing the market feature.
type MarketStatsFunc func(ctx context.Context, group, user int64) MarketStats

// Service evaluates achievement rules.
type Service struct {
	econ        *economy.Service
	marketStats MarketStatsFunc
}

// NewService creates the evaluator.
func NewService(econ *economy.Service, marketStats MarketStatsFunc) *Service {
	return &Service{econ: econ, marketStats: marketStats}
}

func (s *Service) snapshot(ctx context.Context, group, user int64) Snapshot {
	return Snapshot{
		Economy: s.econ.Record(ctx, group, user),
		Market:  s.marketStats(ctx, group, user),
	}
}

// CheckAndUnlock re-checks every general rule and unlocks the ones the
// user now satisfies. Unlocking is idempotent: already-unlocked rules
// are skipped, so a second call right after returns nothing.
func (s *Service) CheckAndUnlock(ctx context.Context, group, user int64) []string {
	snap := s.snapshot(ctx, group, user)

	var announcements []string
	for _, rule := range rules {
		if rule.Kind != General || rule.Check == nil {
			continue
		}
		if snap.Economy.HasAchievement(rule.ID) {
			continue
		}
		if !rule.Check(snap) {
			continue
		}
		line, err := s.unlock(ctx, group, user, rule)
		if err != nil {
			log.WithError(err).WithField("rule", rule.ID).Error("achievement unlock failed")
			continue
		}
		announcements = append(announcements, line)
	}
	return announcements
}

// UnlockEvent fires an event-kind rule. Returns the announcement and
// whether anything new was unlocked.
func (s *Service) UnlockEvent(ctx context.Context, group, user int64, id string) (string, bool) {
	rule, ok := Find(id)
	if !ok {
		log.WithField("rule", id).Error("unknown achievement id")
		return "", false
	}
	rec := s.econ.Record(ctx, group, user)
	if rec.HasAchievement(id) {
		return "", false
	}
	line, err := s.unlock(ctx, group, user, rule)
	if err != nil {
		log.WithError(err).WithField("rule", id).Error("achievement unlock failed")
		return "", false
	}
	return line, true
}

// unlock appends the rule to the user's record and pays the reward.
func (s *Service) unlock(ctx context.Context, group, user int64, rule Rule) (string, error) {
	err := s.econ.Update(ctx, group, user, func(r *economy.Record) {
		if r.HasAchievement(rule.ID) {
			return
		}
		r.Achievements = append(r.Achievements, rule.ID)
		r.Points += rule.RewardPoints
	})
	if err != nil {
		return "", err
	}

	log.WithFields(log.Fields{
		"group": group,
		"user":  user,
		"rule":  rule.ID,
	}).Info("achievement unlocked")

	line := fmt.Sprintf("🏆 Achievement unlocked: %s — %s (+%s)",
		rule.Name, rule.Description, common.FormatPoints(rule.RewardPoints))
	if rule.RewardTitle != "" {
		line += fmt.Sprintf("\n🎖 New title: 「%s」", rule.RewardTitle)
	}
	return line, nil
}

// Unlocked lists the user's unlocked rules in unlock order.
func (s *Service) Unlocked(ctx context.Context, group, user int64) []Rule {
	rec := s.econ.Record(ctx, group, user)
	out := make([]Rule, 0, len(rec.Achievements))
	for _, id := range rec.Achievements {
		if rule, ok := Find(id); ok {
			out = append(out, rule)
		}
	}
	return out
}

// Titles lists the titles the user has earned through achievements.
func (s *Service) Titles(ctx context.Context, group, user int64) []string {
	var titles []string
	for _, rule := range s.Unlocked(ctx, group, user) {
		if rule.RewardTitle != "" {
			titles = append(titles, rule.RewardTitle)
		}
	}
	return titles
}

// EquipTitle puts on an earned title.
func (s *Service) EquipTitle(ctx context.Context, group, user int64, title string) error {
	owned := false
	for _, t := range s.Titles(ctx, group, user) {
		if t == title {
			owned = true
			break
		}
	}
	if !owned {
		return common.ErrTitleNotOwned
	}
	return s.econ.Update(ctx, group, user, func(r *economy.Record) {
		r.CurrentTitle = title
	})
}

// UnequipTitle takes off the current title.
func (s *Service) UnequipTitle(ctx context.Context, group, user int64) error {
	if s.econ.Record(ctx, group, user).CurrentTitle == "" {
		return common.ErrNoTitleEquipped
	}
	return s.econ.Update(ctx, group, user, func(r *economy.Record) {
		r.CurrentTitle = ""
	})
}
