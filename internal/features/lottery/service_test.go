package lottery

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/common"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/config"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/economy"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/store"
)

const group = int64(1001)

func newTestService(t *testing.T, seed int64) (*Service, *economy.Service) {
	t.Helper()
	file := store.NewFile[economy.Document](filepath.Join(t.TempDir(), "users.yaml"))
	repo, err := economy.NewRepository(file)
	if err != nil {
		t.Fatal(err)
	}
	econ := economy.NewService(repo)
	cfg := &config.Config{LotteryCost: 15, LotteryDailyCap: 3}
	return NewService(econ, common.NewRand(rand.NewSource(seed)), cfg), econ
}

func TestTierForRoll(t *testing.T) {
	tests := []struct {
		roll int
		want Tier
	}{
		{1, TierSixStar},
		{10, TierSixStar},
		{11, TierFiveStar},
		{30, TierFiveStar},
		{31, TierFourStar},
		{50, TierFourStar},
		{51, TierThreeStar},
		{70, TierThreeStar},
		{71, TierTwoStar},
		{90, TierTwoStar},
		{91, TierOneStar},
		{110, TierOneStar},
		{111, TierJackpot},
	}
	for _, tt := range tests {
		if got := tierForRoll(tt.roll).Tier; got != tt.want {
			t.Errorf("tierForRoll(%d) = %v, want %v", tt.roll, got, tt.want)
		}
	}
}

func TestDrawChargesAndCounts(t *testing.T) {
	ctx := context.Background()
	svc, econ := newTestService(t, 1)
	econ.Update(ctx, group, 1, func(r *economy.Record) { r.Points = 100 })

	res, err := svc.Draw(ctx, group, 1)
	if err != nil {
		t.Fatalf("Draw error = %v", err)
	}
	if res.Attempt != 1 {
		t.Errorf("Attempt = %d, want 1", res.Attempt)
	}

	rec := econ.Record(ctx, group, 1)
	if rec.LotteryDate != common.Today() || rec.LotteryCount != 1 {
		t.Errorf("LotteryDate = %q, LotteryCount = %d", rec.LotteryDate, rec.LotteryCount)
	}
	// 100 - 15 + reward
	if want := 85 + float64(res.Reward); rec.Points != want {
		t.Errorf("Points = %v, want %v", rec.Points, want)
	}
}

func TestDrawDailyLimit(t *testing.T) {
	ctx := context.Background()
	svc, econ := newTestService(t, 2)
	econ.Update(ctx, group, 1, func(r *economy.Record) { r.Points = 1000 })

	for i := 0; i < 3; i++ {
		if _, err := svc.Draw(ctx, group, 1); err != nil {
			t.Fatalf("draw %d error = %v", i+1, err)
		}
	}
	if _, err := svc.Draw(ctx, group, 1); err != common.ErrLotteryDailyLimit {
		t.Fatalf("fourth draw error = %v, want ErrLotteryDailyLimit", err)
	}

	// a stale date resets the counter
	econ.Update(ctx, group, 1, func(r *economy.Record) { r.LotteryDate = "2024-01-01" })
	if _, err := svc.Draw(ctx, group, 1); err != nil {
		t.Fatalf("draw after date rollover error = %v", err)
	}
}

func TestDrawInsufficientPoints(t *testing.T) {
	ctx := context.Background()
	svc, econ := newTestService(t, 3)
	econ.Update(ctx, group, 1, func(r *economy.Record) { r.Points = 10 })

	if _, err := svc.Draw(ctx, group, 1); err != common.ErrInsufficientPoints {
		t.Fatalf("Draw error = %v, want ErrInsufficientPoints", err)
	}
	rec := econ.Record(ctx, group, 1)
	if rec.Points != 10 || rec.LotteryCount != 0 {
		t.Errorf("rejected draw moved state: points %v, count %d", rec.Points, rec.LotteryCount)
	}
}

func TestMinThreeStarBuff(t *testing.T) {
	ctx := context.Background()

	// with the guarantee active, no draw may land below 3★ and the
	// 1★ streak counter never advances
	for seed := int64(0); seed < 30; seed++ {
		svc, econ := newTestService(t, seed)
		econ.Update(ctx, group, 1, func(r *economy.Record) {
			r.Points = 100
			r.GrantBuff(economy.BuffLotteryMinThreeStar)
		})

		res, err := svc.Draw(ctx, group, 1)
		if err != nil {
			t.Fatalf("seed %d: Draw error = %v", seed, err)
		}
		if res.Tier < TierThreeStar {
			t.Errorf("seed %d: tier %v below 3★ with guarantee active", seed, res.Tier)
		}
		if !res.MinThreeStar {
			t.Errorf("seed %d: MinThreeStar not reported", seed)
		}

		rec := econ.Record(ctx, group, 1)
		if rec.Consecutive1Star != 0 {
			t.Errorf("seed %d: Consecutive1Star = %d", seed, rec.Consecutive1Star)
		}
		if rec.HasBuff(economy.BuffLotteryMinThreeStar) {
			t.Errorf("seed %d: buff not consumed", seed)
		}
	}
}

func TestDoubleBuff(t *testing.T) {
	ctx := context.Background()
	svc, econ := newTestService(t, 4)
	econ.Update(ctx, group, 1, func(r *economy.Record) {
		r.Points = 100
		r.GrantBuff(economy.BuffLotteryDouble)
	})

	res, err := svc.Draw(ctx, group, 1)
	if err != nil {
		t.Fatalf("Draw error = %v", err)
	}
	if res.BaseReward > 0 {
		if !res.Doubled || res.Reward != res.BaseReward*2 {
			t.Errorf("Reward = %d, BaseReward = %d, Doubled = %v", res.Reward, res.BaseReward, res.Doubled)
		}
	} else if res.Doubled {
		t.Error("zero reward reported as doubled")
	}
	rec := econ.Record(ctx, group, 1)
	if rec.HasBuff(economy.BuffLotteryDouble) {
		t.Error("buff not consumed")
	}
}

func TestBestOfTwoBuff(t *testing.T) {
	ctx := context.Background()
	svc, econ := newTestService(t, 5)
	econ.Update(ctx, group, 1, func(r *economy.Record) {
		r.Points = 100
		r.GrantBuff(economy.BuffLotteryBestOfTwo)
	})

	res, err := svc.Draw(ctx, group, 1)
	if err != nil {
		t.Fatalf("Draw error = %v", err)
	}
	if !res.BestOfTwo {
		t.Error("BestOfTwo not reported")
	}
	rec := econ.Record(ctx, group, 1)
	if rec.HasBuff(economy.BuffLotteryBestOfTwo) {
		t.Error("buff not consumed")
	}
}

func TestStreakCounters(t *testing.T) {
	ctx := context.Background()

	// force specific tiers by seeding until we know the outcomes; instead
	// verify the bookkeeping rules directly on records after draws
	svc, econ := newTestService(t, 6)
	econ.Update(ctx, group, 1, func(r *economy.Record) {
		r.Points = 1000
		r.Consecutive1Star = 4
	})

	res, err := svc.Draw(ctx, group, 1)
	if err != nil {
		t.Fatalf("Draw error = %v", err)
	}
	rec := econ.Record(ctx, group, 1)
	switch {
	case res.Tier == TierOneStar:
		if rec.Consecutive1Star != 5 {
			t.Errorf("Consecutive1Star = %d, want 5", rec.Consecutive1Star)
		}
	default:
		if rec.Consecutive1Star != 0 {
			t.Errorf("Consecutive1Star = %d, want 0 after %v", rec.Consecutive1Star, res.Tier)
		}
	}
	if res.Tier == TierSixStar || res.Tier == TierJackpot {
		if rec.HighTierWins != 1 {
			t.Errorf("HighTierWins = %d, want 1", rec.HighTierWins)
		}
	} else if rec.HighTierWins != 0 {
		t.Errorf("HighTierWins = %d, want 0", rec.HighTierWins)
	}
}
