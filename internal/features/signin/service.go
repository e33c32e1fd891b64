// Package signin implements daily sign-in: streak tracking, daily and
// streak rewards, and the paid make-up sign for a single missed day.
package signin

import (
	"context"
	"fmt"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/common"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/config"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/economy"
)

// Service handles sign-in state transitions on top of the economy ledger.
type Service struct {
	econ *economy.Service
	rng  *common.Rand
	cfg  *config.Config
}

// NewService creates a new sign-in service.
func NewService(econ *economy.Service, rng *common.Rand, cfg *config.Config) *Service {
	return &Service{econ: econ, rng: rng, cfg: cfg}
}

// Result describes a completed daily sign-in.
type Result struct {
	TotalDays   int
	StreakDays  int
	DailyReward int64
	StreakBonus int64
	Balance     float64
	SignedAt    string
}

// MakeUpResult describes a completed make-up sign.
type MakeUpResult struct {
	Date       string
	Cost       int64
	StreakDays int
	Balance    float64
}

// NeedsMakeUp reports whether the user signed exactly two days ago, the
// only gap the make-up sign can repair. A user who never signed, or who
// missed more than one day, signs normally with a reset streak.
func (s *Service) NeedsMakeUp(ctx context.Context, group, user int64) bool {
	rec := s.econ.Record(ctx, group, user)
	if rec.LastSign == "" {
		return false
	}
	return common.DaysBetween(rec.LastSign, common.Today()) == 2
}

// Sign performs the daily sign-in. The streak advances when the last
// sign-in was yesterday and resets to 1 otherwise. Returns
// common.ErrAlreadySigned when the user has already signed today.
func (s *Service) Sign(ctx context.Context, group, user int64) (Result, error) {
	today := common.Today()
	yesterday := common.Yesterday()
	reward := s.cfg.SignRewardMin + int64(s.rng.Intn(int(s.cfg.SignRewardMax-s.cfg.SignRewardMin)+1))

	var res Result
	err := s.econ.Update(ctx, group, user, func(r *economy.Record) {
		if r.LastSign == today {
			res = Result{}
			return
		}
		if r.LastSign == yesterday {
			r.StreakDays++
		} else {
			r.StreakDays = 1
		}
		r.TotalDays++
		r.LastSign = today

		var bonus int64
		switch {
		case r.StreakDays >= 7:
			bonus = 50
		case r.StreakDays >= 3:
			bonus = 20
		}
		r.Points += float64(reward + bonus)

		res = Result{
			TotalDays:   r.TotalDays,
			StreakDays:  r.StreakDays,
			DailyReward: reward,
			StreakBonus: bonus,
			Balance:     r.Points,
			SignedAt:    common.FormatDateTime(common.BotTime()),
		}
	})
	if err != nil {
		return Result{}, fmt.Errorf("sign in: %w", err)
	}
	if res.TotalDays == 0 {
		return Result{}, common.ErrAlreadySigned
	}
	return res, nil
}

// MakeUp repairs a single missed day for a fee. It is valid only when
// the last sign-in was exactly two days ago: the missed day becomes
// signed, the streak extends by one, and no daily reward is paid. The
// caller normally follows up with Sign to complete today's sign-in.
func (s *Service) MakeUp(ctx context.Context, group, user int64) (MakeUpResult, error) {
	today := common.Today()
	yesterday := common.Yesterday()
	cost := s.cfg.SignMakeUpCost

	var res MakeUpResult
	var opErr error
	err := s.econ.Update(ctx, group, user, func(r *economy.Record) {
		switch {
		case r.LastSign == today:
			opErr = common.ErrAlreadySigned
			return
		case r.LastSign == "" || r.LastSign == yesterday:
			opErr = common.ErrMakeUpNotNeeded
			return
		case common.DaysBetween(r.LastSign, today) != 2:
			opErr = common.ErrMakeUpNotNeeded
			return
		case r.Points < float64(cost):
			opErr = common.ErrInsufficientPoints
			return
		}

		r.Points -= float64(cost)
		r.StreakDays++
		r.LastSign = yesterday

		res = MakeUpResult{
			Date:       yesterday,
			Cost:       cost,
			StreakDays: r.StreakDays,
			Balance:    r.Points,
		}
	})
	if err != nil {
		return MakeUpResult{}, fmt.Errorf("make-up sign: %w", err)
	}
	if opErr != nil {
		return MakeUpResult{}, opErr
	}
	return res, nil
}
