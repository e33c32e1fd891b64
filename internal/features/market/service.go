package market

import (
	"context"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/common"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/config"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/economy"
)

// Service runs market operations across the market and economy ledgers.
type Service struct {
	repo *Repository
	econ *economy.Service
	rng  *common.Rand
	cfg  *config.Config
}

// NewService creates a new market service.
func NewService(repo *Repository, econ *economy.Service, rng *common.Rand, cfg *config.Config) *Service {
	return &Service{repo: repo, econ: econ, rng: rng, cfg: cfg}
}

// BuyResult describes a completed purchase.
type BuyResult struct {
	Price         float64
	Forced        bool
	PreviousOwner int64
	Balance       float64
}

// Buy purchases target for buyer. An owned target costs the forced
// price and requires confirm; the buy detaches the target from the
// previous owner and clears the target's work history. The daily
// purchase counter advances only on success.
//
// Rejections: common.ErrSelfTarget, common.ErrPurchaseDailyLimit,
// common.ErrOwnedLimit, common.ErrOwnedByOther (confirm missing; the
// result carries the current owner), common.ErrInsufficientPoints.
func (s *Service) Buy(ctx context.Context, group, buyer, target int64, confirm bool) (BuyResult, error) {
	if buyer == target {
		return BuyResult{}, common.ErrSelfTarget
	}
	today := common.Today()

	// Validation, the coin debit and the graph mutation all run under
	// one graph lock: two concurrent buys cannot both pass the caps.
	var res BuyResult
	var opErr error
	err := s.repo.UpdateGraph(group, func(get func(int64) *Record) {
		b := get(buyer)
		t := get(target)
		if b.LastPurchaseDate != today {
			b.DailyPurchases = 0
			b.LastPurchaseDate = today
		}
		if b.DailyPurchases >= s.cfg.MarketDailyPurchases {
			opErr = common.ErrPurchaseDailyLimit
			return
		}
		if len(b.OwnedMembers) >= s.cfg.MarketMaxOwned {
			opErr = common.ErrOwnedLimit
			return
		}
		if t.Owner != 0 {
			res.Forced = true
			res.PreviousOwner = t.Owner
			res.Price = float64(s.cfg.MarketHireCostOwned)
			if !confirm {
				opErr = common.ErrOwnedByOther
				return
			}
		} else {
			res.Price = float64(s.cfg.MarketHireCost)
		}

		balance, err := s.econ.DeductPoints(ctx, group, buyer, res.Price)
		if err != nil {
			opErr = err
			return
		}
		res.Balance = balance

		if t.Owner != 0 {
			get(t.Owner).removeOwned(target)
		}
		b.OwnedMembers = append(b.OwnedMembers, target)
		b.DailyPurchases++
		t.Owner = buyer
		t.WorkedFor = nil
	})
	if opErr != nil {
		return res, opErr
	}
	if err != nil {
		return BuyResult{}, fmt.Errorf("buy member: %w", err)
	}
	return res, nil
}

// SellResult describes a completed sale.
type SellResult struct {
	Price   float64
	Balance float64
}

// Sell releases an owned member back to the market for a flat payout.
// Returns common.ErrNotOwned when seller does not own target. The
// target's work history survives the sale.
func (s *Service) Sell(ctx context.Context, group, seller, target int64) (SellResult, error) {
	var opErr error
	err := s.repo.UpdateGraph(group, func(get func(int64) *Record) {
		sl := get(seller)
		t := get(target)
		if !sl.Owns(target) || t.Owner != seller {
			opErr = common.ErrNotOwned
			return
		}
		sl.removeOwned(target)
		t.Owner = 0
	})
	if err != nil {
		return SellResult{}, fmt.Errorf("sell member: %w", err)
	}
	if opErr != nil {
		return SellResult{}, opErr
	}

	price := float64(s.cfg.MarketSellPrice)
	balance, err := s.econ.AddPoints(ctx, group, seller, price)
	if err != nil {
		return SellResult{}, fmt.Errorf("sell payout: %w", err)
	}
	return SellResult{Price: price, Balance: balance}, nil
}

// RedeemResult describes a completed self-redemption.
type RedeemResult struct {
	Cost    float64
	Owner   int64
	Forced  bool
	Balance float64
}

// Redeem buys the user's own freedom. The base cost applies after the
// user has worked for the current owner; redeeming without having
// worked costs the forced price and requires confirm.
//
// Rejections: common.ErrFree when nobody owns the user,
// common.ErrNeverWorked when confirm is missing for a forced
// redemption (the result carries the owner), common.ErrInsufficientPoints.
func (s *Service) Redeem(ctx context.Context, group, user int64, confirm bool) (RedeemResult, error) {
	// Same single-lock shape as Buy: validate, debit, then release.
	var res RedeemResult
	var opErr error
	err := s.repo.UpdateGraph(group, func(get func(int64) *Record) {
		rec := get(user)
		if rec.Owner == 0 {
			opErr = common.ErrFree
			return
		}
		res.Owner = rec.Owner
		if rec.WorkedForOwner(rec.Owner) {
			res.Cost = float64(s.cfg.MarketRedeemCost)
		} else {
			res.Forced = true
			res.Cost = float64(s.cfg.MarketForcedRedeemCost)
			if !confirm {
				opErr = common.ErrNeverWorked
				return
			}
		}

		balance, err := s.econ.DeductPoints(ctx, group, user, res.Cost)
		if err != nil {
			opErr = err
			return
		}
		res.Balance = balance

		get(rec.Owner).removeOwned(user)
		rec.Owner = 0
	})
	if opErr != nil {
		return res, opErr
	}
	if err != nil {
		return RedeemResult{}, fmt.Errorf("redeem: %w", err)
	}
	return res, nil
}

// CanWork validates a work order before a job is picked. Returns
// common.ErrNotOwned when worker is not owned by owner and
// common.ErrAlreadyWorked when the worker already worked off this
// ownership.
func (s *Service) CanWork(ctx context.Context, group, owner, worker int64) error {
	var opErr error
	err := s.repo.UpdateGraph(group, func(get func(int64) *Record) {
		o := get(owner)
		w := get(worker)
		if !o.Owns(worker) || w.Owner != owner {
			opErr = common.ErrNotOwned
			return
		}
		if w.WorkedForOwner(owner) {
			opErr = common.ErrAlreadyWorked
		}
	})
	if err != nil {
		log.WithError(err).Error("work validation save failed")
	}
	return opErr
}

// WorkResult describes one resolved work attempt.
type WorkResult struct {
	Job        Job
	Success    bool
	Amount     float64
	Guaranteed bool
	Boosted    bool
	BoostPct   int
	Waived     bool
	Balance    float64
}

// ExecuteWork resolves a work attempt for owner's member worker at the
// named job. Work buffs held by the owner apply unless the job is
// high-risk: guaranteed success, a 1%-50% reward boost, or a waived
// failure penalty. Success pays the owner, failure fines the owner with
// no floor on the balance. Either way the worker's labor for this
// ownership is spent.
//
// Rejections: common.ErrUnknownJob plus the CanWork rejections.
func (s *Service) ExecuteWork(ctx context.Context, group, owner, worker int64, jobName string) (WorkResult, error) {
	job, ok := FindJob(jobName)
	if !ok {
		return WorkResult{}, common.ErrUnknownJob
	}
	if err := s.CanWork(ctx, group, owner, worker); err != nil {
		return WorkResult{}, err
	}

	res := WorkResult{Job: job}
	err := s.econ.Update(ctx, group, owner, func(r *economy.Record) {
		if !job.HighRisk && r.ConsumeBuff(economy.BuffWorkGuarantee) {
			res.Guaranteed = true
			res.Success = true
		} else {
			res.Success = s.rng.Float64() < job.SuccessRate
		}

		if res.Success {
			reward := job.RewardMin
			if job.RewardMax > job.RewardMin {
				reward += s.rng.Float64() * (job.RewardMax - job.RewardMin)
			}
			if !job.HighRisk && r.ConsumeBuff(economy.BuffWorkRewardBoost) {
				pct := 0.01 + s.rng.Float64()*0.49
				res.Boosted = true
				res.BoostPct = int(pct * 100)
				reward *= 1 + pct
			}
			reward = math.Round(reward*100) / 100
			r.Points += reward
			res.Amount = reward
		} else if !job.HighRisk && r.ConsumeBuff(economy.BuffWorkNoPenalty) {
			res.Waived = true
		} else {
			penalty := job.RiskMin
			if job.RiskMax > job.RiskMin {
				penalty += s.rng.Float64() * (job.RiskMax - job.RiskMin)
			}
			penalty = math.Round(penalty*100) / 100
			r.Points -= penalty
			res.Amount = -penalty
		}
		res.Balance = r.Points
	})
	if err != nil {
		return WorkResult{}, fmt.Errorf("execute work: %w", err)
	}

	err = s.repo.UpdateGraph(group, func(get func(int64) *Record) {
		o := get(owner)
		w := get(worker)
		w.WorkedFor = append(w.WorkedFor, owner)
		if res.Success {
			o.TotalWorkRevenue += res.Amount
		} else if !res.Waived {
			o.TotalWorkFailures++
		}
	})
	if err != nil {
		return res, fmt.Errorf("record work: %w", err)
	}
	return res, nil
}

// OwnedMember is one entry of a status card's owned list.
type OwnedMember struct {
	UserID    int64
	HasWorked bool
}

// Status is the user's market standing, assembled for display.
type Status struct {
	Owner          int64
	WorkedForOwner bool
	Owned          []OwnedMember
	DailyPurchases int
	MaxPurchases   int
}

// Record returns a copy of the user's market record.
func (s *Service) Record(ctx context.Context, group, user int64) Record {
	return s.repo.Get(group, user)
}

// Status assembles the user's market standing.
func (s *Service) Status(ctx context.Context, group, user int64) Status {
	rec := s.repo.Get(group, user)
	st := Status{
		Owner:          rec.Owner,
		DailyPurchases: rec.DailyPurchases,
		MaxPurchases:   s.cfg.MarketDailyPurchases,
	}
	if rec.LastPurchaseDate != common.Today() {
		st.DailyPurchases = 0
	}
	if rec.Owner != 0 {
		st.WorkedForOwner = rec.WorkedForOwner(rec.Owner)
	}
	for _, id := range rec.OwnedMembers {
		member := s.repo.Get(group, id)
		st.Owned = append(st.Owned, OwnedMember{
			UserID:    id,
			HasWorked: member.WorkedForOwner(user),
		})
	}
	return st
}

// Stats returns the counters the achievement evaluator reads.
func (s *Service) Stats(ctx context.Context, group, user int64) (owned int, revenue float64, failures int) {
	rec := s.repo.Get(group, user)
	return len(rec.OwnedMembers), rec.TotalWorkRevenue, rec.TotalWorkFailures
}

// Persist writes the market ledger to disk unconditionally.
func (s *Service) Persist() error {
	return s.repo.Persist()
}
