package economy

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/common"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	file := store.NewFile[Document](filepath.Join(t.TempDir(), "users.yaml"))
	repo, err := NewRepository(file)
	if err != nil {
		t.Fatal(err)
	}
	return NewService(repo)
}

const group = int64(1001)

func TestNewRecordDefaults(t *testing.T) {
	s := newTestService(t)
	rec := s.Record(context.Background(), group, 1)

	if rec.Points != 0 {
		t.Errorf("Points = %v, want 0", rec.Points)
	}
	if rec.Stamina != DefaultStamina {
		t.Errorf("Stamina = %d, want %d", rec.Stamina, DefaultStamina)
	}
	if rec.MaxStamina != DefaultMaxStamina {
		t.Errorf("MaxStamina = %d, want %d", rec.MaxStamina, DefaultMaxStamina)
	}
}

func TestDeductPointsInsufficient(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	s.AddPoints(ctx, group, 1, 50)
	if _, err := s.DeductPoints(ctx, group, 1, 51); err != common.ErrInsufficientPoints {
		t.Errorf("DeductPoints error = %v, want ErrInsufficientPoints", err)
	}
	// the failed debit must not move the balance
	if rec := s.Record(ctx, group, 1); rec.Points != 50 {
		t.Errorf("Points after failed debit = %v, want 50", rec.Points)
	}

	if _, err := s.DeductPoints(ctx, group, 1, 50); err != nil {
		t.Errorf("exact debit failed: %v", err)
	}
	if rec := s.Record(ctx, group, 1); rec.Points != 0 {
		t.Errorf("Points = %v, want 0", rec.Points)
	}
}

func TestGiftMovesCoinsAndTracksStreak(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	s.AddPoints(ctx, group, 1, 200)

	res, err := s.Gift(ctx, group, 1, 2, 60)
	if err != nil {
		t.Fatalf("Gift() error = %v", err)
	}
	if res.SenderBalance != 140 {
		t.Errorf("SenderBalance = %v, want 140", res.SenderBalance)
	}
	if res.StreakDays != 1 {
		t.Errorf("StreakDays = %d, want 1", res.StreakDays)
	}
	if res.BigGift {
		t.Error("60-coin gift flagged as big gift")
	}
	if rec := s.Record(ctx, group, 2); rec.Points != 60 {
		t.Errorf("receiver Points = %v, want 60", rec.Points)
	}

	// second gift the same day: totals grow, streak does not
	res, err = s.Gift(ctx, group, 1, 2, 100)
	if err != nil {
		t.Fatalf("Gift() error = %v", err)
	}
	if res.StreakDays != 1 {
		t.Errorf("same-day StreakDays = %d, want 1", res.StreakDays)
	}
	if !res.BigGift {
		t.Error("100-coin gift not flagged as big gift")
	}
	sender := s.Record(ctx, group, 1)
	if sender.TotalGifted != 160 || sender.GiftCount != 2 {
		t.Errorf("TotalGifted = %v, GiftCount = %d, want 160, 2", sender.TotalGifted, sender.GiftCount)
	}
}

func TestGiftYesterdayAdvancesStreak(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	s.AddPoints(ctx, group, 1, 100)
	s.Update(ctx, group, 1, func(r *Record) {
		r.LastGiftDate = common.Yesterday()
		r.ConsecutiveGiftDays = 3
	})

	res, err := s.Gift(ctx, group, 1, 2, 10)
	if err != nil {
		t.Fatal(err)
	}
	if res.StreakDays != 4 {
		t.Errorf("StreakDays = %d, want 4", res.StreakDays)
	}
}

func TestGiftGapResetsStreak(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	s.AddPoints(ctx, group, 1, 100)
	s.Update(ctx, group, 1, func(r *Record) {
		r.LastGiftDate = "2020-01-01"
		r.ConsecutiveGiftDays = 9
	})

	res, err := s.Gift(ctx, group, 1, 2, 10)
	if err != nil {
		t.Fatal(err)
	}
	if res.StreakDays != 1 {
		t.Errorf("StreakDays = %d, want 1 after a gap", res.StreakDays)
	}
}

func TestFailedGiftLeavesCountersUntouched(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	s.AddPoints(ctx, group, 1, 5)

	if _, err := s.Gift(ctx, group, 1, 2, 10); err != common.ErrInsufficientPoints {
		t.Fatalf("Gift() error = %v, want ErrInsufficientPoints", err)
	}
	rec := s.Record(ctx, group, 1)
	if rec.GiftCount != 0 || rec.TotalGifted != 0 || rec.ConsecutiveGiftDays != 0 || rec.LastGiftDate != "" {
		t.Errorf("failed gift mutated counters: %+v", rec)
	}

	if _, err := s.Gift(ctx, group, 1, 1, 1); err != common.ErrSelfTarget {
		t.Errorf("self gift error = %v, want ErrSelfTarget", err)
	}
}

func TestBuffLedger(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	count, err := s.GrantBuff(ctx, group, 1, BuffLotteryDouble)
	if err != nil {
		t.Fatalf("GrantBuff() error = %v", err)
	}
	if count != 1 {
		t.Errorf("first grant count = %d, want 1", count)
	}
	// charges stack
	count, err = s.GrantBuff(ctx, group, 1, BuffLotteryDouble)
	if err != nil {
		t.Fatalf("second GrantBuff() error = %v", err)
	}
	if count != 2 {
		t.Errorf("second grant count = %d, want 2", count)
	}

	rec := s.Record(ctx, group, 1)
	if !rec.HasBuff(BuffLotteryDouble) {
		t.Fatal("buff not held after grant")
	}
	if rec.Buffs[BuffLotteryDouble] != 2 {
		t.Errorf("stacked count = %d, want 2", rec.Buffs[BuffLotteryDouble])
	}

	// consuming one charge leaves the other pending
	s.Update(ctx, group, 1, func(r *Record) {
		if !r.ConsumeBuff(BuffLotteryDouble) {
			t.Error("ConsumeBuff returned false for held buff")
		}
	})
	rec = s.Record(ctx, group, 1)
	if rec.Buffs[BuffLotteryDouble] != 1 {
		t.Errorf("count after one consume = %d, want 1", rec.Buffs[BuffLotteryDouble])
	}

	s.Update(ctx, group, 1, func(r *Record) {
		r.ConsumeBuff(BuffLotteryDouble)
	})
	rec = s.Record(ctx, group, 1)
	if rec.HasBuff(BuffLotteryDouble) {
		t.Error("buff survived consumption")
	}
	if _, ok := rec.Buffs[BuffLotteryDouble]; ok {
		t.Error("consumed buff not pruned from ledger")
	}
}

func TestRecordCopiesShareNothing(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	s.GrantBuff(ctx, group, 1, BuffLotteryDouble)
	s.Update(ctx, group, 1, func(r *Record) {
		r.Achievements = append(r.Achievements, "signin_1")
	})

	before := s.Record(ctx, group, 1)
	snapshot := s.GroupSnapshot(ctx, group)

	// later mutations must not show through earlier copies
	s.GrantBuff(ctx, group, 1, BuffLotteryDouble)
	s.Update(ctx, group, 1, func(r *Record) {
		r.Achievements = append(r.Achievements, "wealth_1")
	})

	if before.Buffs[BuffLotteryDouble] != 1 {
		t.Errorf("copy saw later grant: count = %d, want 1", before.Buffs[BuffLotteryDouble])
	}
	if got := snapshot[1].Buffs[BuffLotteryDouble]; got != 1 {
		t.Errorf("snapshot saw later grant: count = %d, want 1", got)
	}
	if len(before.Achievements) != 1 {
		t.Errorf("copy saw later unlock: %v", before.Achievements)
	}

	// writing into a copy must not reach the ledger
	before.Buffs[BuffLotteryDouble] = 99
	before.Achievements[0] = "tampered"
	rec := s.Record(ctx, group, 1)
	if rec.Buffs[BuffLotteryDouble] != 2 {
		t.Errorf("copy write reached the ledger: count = %d, want 2", rec.Buffs[BuffLotteryDouble])
	}
	if rec.Achievements[0] != "signin_1" {
		t.Errorf("copy write reached the ledger: %v", rec.Achievements)
	}
}

func TestRestoreStamina(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	// default 100, max 160
	gained, err := s.RestoreStamina(ctx, group, 1, 100)
	if err != nil {
		t.Fatal(err)
	}
	if gained != 60 {
		t.Errorf("gained = %d, want 60 (clamped to max)", gained)
	}
	if _, err := s.RestoreStamina(ctx, group, 1, 20); err != common.ErrStaminaFull {
		t.Errorf("feeding a full user error = %v, want ErrStaminaFull", err)
	}

	// negative food outcomes clamp at zero
	s.Update(ctx, group, 2, func(r *Record) { r.Stamina = 10 })
	if _, err := s.RestoreStamina(ctx, group, 2, -50); err != nil {
		t.Fatal(err)
	}
	if rec := s.Record(ctx, group, 2); rec.Stamina != 0 {
		t.Errorf("Stamina = %d, want 0", rec.Stamina)
	}
}

func TestLeaderboard(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	for i := int64(1); i <= 12; i++ {
		s.AddPoints(ctx, group, i, float64(i*10))
	}

	board := s.Leaderboard(ctx, group, BoardWealth, 3)
	if len(board.Entries) != 10 {
		t.Fatalf("len(Entries) = %d, want 10", len(board.Entries))
	}
	if board.Entries[0].UserID != 12 || board.Entries[0].Score != 120 {
		t.Errorf("top entry = %+v, want user 12 with 120", board.Entries[0])
	}
	// user 3 holds 30 coins, beaten by users 4..12
	if board.RequesterRank != 10 {
		t.Errorf("RequesterRank = %d, want 10", board.RequesterRank)
	}
	if board.RequesterScore != 30 {
		t.Errorf("RequesterScore = %v, want 30", board.RequesterScore)
	}
}

func TestGroupsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	s.AddPoints(ctx, group, 1, 100)
	if rec := s.Record(ctx, 2002, 1); rec.Points != 0 {
		t.Errorf("points leaked across groups: %v", rec.Points)
	}
}
