package achievements

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/common"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/economy"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/store"
)

const group = int64(1001)

func newTestService(t *testing.T) (*Service, *economy.Service) {
	t.Helper()
	file := store.NewFile[economy.Document](filepath.Join(t.TempDir(), "users.yaml"))
	repo, err := economy.NewRepository(file)
	if err != nil {
		t.Fatal(err)
	}
	econ := economy.NewService(repo)

	stats := map[int64]MarketStats{}
	svc := NewService(econ, func(ctx context.Context, g, u int64) MarketStats {
		return stats[u]
	})
	return svc, econ
}

func TestCheckAndUnlockIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, econ := newTestService(t)

	econ.Update(ctx, group, 1, func(r *economy.Record) {
		r.TotalDays = 1
		r.StreakDays = 7
		r.Points = 100
	})

	first := svc.CheckAndUnlock(ctx, group, 1)
	if len(first) != 2 {
		t.Fatalf("first pass unlocked %d rules, want 2 (signin_1, signin_2): %v", len(first), first)
	}

	second := svc.CheckAndUnlock(ctx, group, 1)
	if len(second) != 0 {
		t.Errorf("second pass unlocked %d rules, want 0: %v", len(second), second)
	}

	rec := econ.Record(ctx, group, 1)
	if !rec.HasAchievement("signin_1") || !rec.HasAchievement("signin_2") {
		t.Errorf("achievements missing from record: %v", rec.Achievements)
	}
	// 100 + 10 (signin_1) + 50 (signin_2)
	if rec.Points != 160 {
		t.Errorf("Points = %v, want 160", rec.Points)
	}
}

func TestEventRulesNeverUnlockFromGeneralCheck(t *testing.T) {
	ctx := context.Background()
	svc, econ := newTestService(t)

	econ.Update(ctx, group, 1, func(r *economy.Record) {
		r.TotalDays = 1
	})
	svc.CheckAndUnlock(ctx, group, 1)

	rec := econ.Record(ctx, group, 1)
	for _, rule := range Rules() {
		if rule.Kind == Event && rec.HasAchievement(rule.ID) {
			t.Errorf("event rule %s unlocked by general check", rule.ID)
		}
	}
}

func TestUnlockEvent(t *testing.T) {
	ctx := context.Background()
	svc, econ := newTestService(t)

	line, ok := svc.UnlockEvent(ctx, group, 1, "luck_2")
	if !ok {
		t.Fatal("UnlockEvent returned nothing for a fresh user")
	}
	if !strings.Contains(line, "The Chosen One") {
		t.Errorf("announcement = %q", line)
	}

	// second fire: silent
	if _, ok := svc.UnlockEvent(ctx, group, 1, "luck_2"); ok {
		t.Error("event rule unlocked twice")
	}

	rec := econ.Record(ctx, group, 1)
	if rec.Points != 111 {
		t.Errorf("Points = %v, want 111", rec.Points)
	}

	if _, ok := svc.UnlockEvent(ctx, group, 1, "no_such_rule"); ok {
		t.Error("unknown rule unlocked")
	}
}

func TestMarketRules(t *testing.T) {
	ctx := context.Background()

	file := store.NewFile[economy.Document](filepath.Join(t.TempDir(), "users.yaml"))
	repo, err := economy.NewRepository(file)
	if err != nil {
		t.Fatal(err)
	}
	econ := economy.NewService(repo)
	svc := NewService(econ, func(ctx context.Context, g, u int64) MarketStats {
		return MarketStats{OwnedMembers: 2, TotalWorkRevenue: 6000, TotalWorkFailures: 3}
	})

	svc.CheckAndUnlock(ctx, group, 1)
	rec := econ.Record(ctx, group, 1)
	if !rec.HasAchievement("market_1") || !rec.HasAchievement("market_3") {
		t.Errorf("market achievements missing: %v", rec.Achievements)
	}
	if rec.HasAchievement("market_4") {
		t.Error("market_4 unlocked below threshold")
	}
}

func TestTitles(t *testing.T) {
	ctx := context.Background()
	svc, econ := newTestService(t)

	// not earned yet
	if err := svc.EquipTitle(ctx, group, 1, "Chosen One"); err != common.ErrTitleNotOwned {
		t.Errorf("EquipTitle error = %v, want ErrTitleNotOwned", err)
	}
	if err := svc.UnequipTitle(ctx, group, 1); err != common.ErrNoTitleEquipped {
		t.Errorf("UnequipTitle error = %v, want ErrNoTitleEquipped", err)
	}

	svc.UnlockEvent(ctx, group, 1, "luck_2")
	titles := svc.Titles(ctx, group, 1)
	if len(titles) != 1 || titles[0] != "Chosen One" {
		t.Fatalf("Titles = %v, want [Chosen One]", titles)
	}

	if err := svc.EquipTitle(ctx, group, 1, "Chosen One"); err != nil {
		t.Fatalf("EquipTitle error = %v", err)
	}
	if rec := econ.Record(ctx, group, 1); rec.CurrentTitle != "Chosen One" {
		t.Errorf("CurrentTitle = %q", rec.CurrentTitle)
	}

	if err := svc.UnequipTitle(ctx, group, 1); err != nil {
		t.Fatalf("UnequipTitle error = %v", err)
	}
	if rec := econ.Record(ctx, group, 1); rec.CurrentTitle != "" {
		t.Errorf("CurrentTitle after unequip = %q", rec.CurrentTitle)
	}
}
