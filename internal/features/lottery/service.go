package lottery

import (
	"context"
	"fmt"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/common"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/config"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/economy"
)

// Service runs lottery draws against the economy ledger.
type Service struct {
	econ *economy.Service
	rng  *common.Rand
	cfg  *config.Config
}

// NewService creates a new lottery service.
func NewService(econ *economy.Service, rng *common.Rand, cfg *config.Config) *Service {
	return &Service{econ: econ, rng: rng, cfg: cfg}
}

// Result describes one resolved draw.
type Result struct {
	Roll        int
	Tier        Tier
	TierName    string
	Description string
	BaseReward  int64
	Reward      int64
	Attempt     int
	Balance     float64

	// consumed buffs, reported so the handler can announce them
	MinThreeStar bool
	Doubled      bool
	BestOfTwo    bool
}

// Jackpot reports whether the draw hit the hidden number.
func (r Result) Jackpot() bool { return r.Tier == TierJackpot }

// Draw runs one lottery attempt. The fee is charged per attempt, the
// daily counter resets with the date, and any held lottery buffs are
// consumed before the roll regardless of outcome. Rejections:
// common.ErrLotteryDailyLimit past the daily cap and
// common.ErrInsufficientPoints when the fee cannot be paid.
func (s *Service) Draw(ctx context.Context, group, user int64) (Result, error) {
	today := common.Today()
	cost := float64(s.cfg.LotteryCost)
	dailyCap := int(s.cfg.LotteryDailyCap)

	var res Result
	var opErr error
	err := s.econ.Update(ctx, group, user, func(r *economy.Record) {
		count := r.LotteryCount
		if r.LotteryDate != today {
			count = 0
		}
		if count >= dailyCap {
			opErr = common.ErrLotteryDailyLimit
			return
		}
		if r.Points < cost {
			opErr = common.ErrInsufficientPoints
			return
		}

		r.Points -= cost
		r.LotteryDate = today
		r.LotteryCount = count + 1

		minThree := r.ConsumeBuff(economy.BuffLotteryMinThreeStar)
		double := r.ConsumeBuff(economy.BuffLotteryDouble)
		bestOfTwo := r.ConsumeBuff(economy.BuffLotteryBestOfTwo)

		roll, def := s.roll(minThree)
		if bestOfTwo {
			roll2, def2 := s.roll(minThree)
			if def2.Tier > def.Tier {
				roll, def = roll2, def2
			}
		}

		switch {
		case def.Tier == TierSixStar || def.Tier == TierJackpot:
			r.HighTierWins++
			r.Consecutive1Star = 0
		case def.Tier == TierOneStar:
			r.Consecutive1Star++
		default:
			r.Consecutive1Star = 0
		}

		reward := def.RewardMin
		if def.RewardMax > def.RewardMin {
			reward += int64(s.rng.Intn(int(def.RewardMax-def.RewardMin) + 1))
		}
		base := reward
		if double && reward > 0 {
			reward *= 2
		}
		r.Points += float64(reward)

		res = Result{
			Roll:         roll,
			Tier:         def.Tier,
			TierName:     def.Name,
			Description:  def.Text,
			BaseReward:   base,
			Reward:       reward,
			Attempt:      r.LotteryCount,
			Balance:      r.Points,
			MinThreeStar: minThree,
			Doubled:      double && reward > 0,
			BestOfTwo:    bestOfTwo,
		}
	})
	if err != nil {
		return Result{}, fmt.Errorf("lottery draw: %w", err)
	}
	if opErr != nil {
		return Result{}, opErr
	}
	return res, nil
}

// roll draws one 1-111 number and resolves its tier. With the minimum
// guarantee active, a 1★ or 2★ outcome is replaced by a uniformly
// chosen tier from 3★ to 6★ along with a matching roll.
func (s *Service) roll(minThree bool) (int, tierDef) {
	roll := s.rng.Between(1, 111)
	def := tierForRoll(roll)
	if minThree && (def.Tier == TierOneStar || def.Tier == TierTwoStar) {
		def = tierDefFor(TierThreeStar + Tier(s.rng.Intn(4)))
		roll = s.rng.Between(def.RollMin, def.RollMax)
	}
	return roll, def
}
