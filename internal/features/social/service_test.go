package social

import (
	"context"
	"math/rand"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/common"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/config"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/economy"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/shop"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/store"
)

const group = int64(1001)

func testConfig() *config.Config {
	return &config.Config{
		SocialDateDailyCap: 3,
		ReplyTimeout:       60 * time.Second,
	}
}

func newTestService(t *testing.T, seed int64) (*Service, *economy.Service, *shop.Service) {
	t.Helper()
	dir := t.TempDir()
	rng := common.NewRand(rand.NewSource(seed))

	econFile := store.NewFile[economy.Document](filepath.Join(dir, "users.yaml"))
	econRepo, err := economy.NewRepository(econFile)
	if err != nil {
		t.Fatal(err)
	}
	econ := economy.NewService(econRepo)

	shopFile := store.NewFile[shop.Document](filepath.Join(dir, "shop.yaml"))
	shopRepo, err := shop.NewRepository(shopFile)
	if err != nil {
		t.Fatal(err)
	}
	shopSvc := shop.NewService(shopRepo, econ, rng)

	socialFile := store.NewFile[Document](filepath.Join(dir, "social.yaml"))
	socialRepo, err := NewRepository(socialFile)
	if err != nil {
		t.Fatal(err)
	}

	return NewService(socialRepo, econ, shopSvc, rng, testConfig()), econ, shopSvc
}

func setFavor(t *testing.T, svc *Service, user, target int64, favor int) {
	t.Helper()
	err := svc.repo.Update(group, user, func(rec *Record) {
		if rec.Favor == nil {
			rec.Favor = make(map[int64]int)
		}
		rec.Favor[target] = favor
	})
	if err != nil {
		t.Fatal(err)
	}
}

func grant(t *testing.T, shopSvc *shop.Service, user int64, itemID string, qty int) {
	t.Helper()
	if _, err := shopSvc.Grant(context.Background(), group, user, itemID, qty); err != nil {
		t.Fatal(err)
	}
}

func TestGiftItemRaisesFavor(t *testing.T) {
	ctx := context.Background()
	svc, _, shopSvc := newTestService(t, 1)
	grant(t, shopSvc, 1, "chocolate", 2)

	res, err := svc.GiftItem(ctx, group, 1, 2, "Chocolate")
	if err != nil {
		t.Fatalf("GiftItem: %v", err)
	}
	if res.Gain != 10 || res.Before != 0 || res.After != 10 {
		t.Fatalf("gift result = %+v, want gain 10, 0 -> 10", res)
	}
	if res.LevelAfter != "Stranger" {
		t.Fatalf("LevelAfter = %q, want Stranger", res.LevelAfter)
	}
	if got := svc.Favor(ctx, group, 2, 1); got != 10 {
		t.Fatalf("target favor = %d, want 10", got)
	}
	// Giving raises the receiver's feelings, not the sender's.
	if got := svc.Favor(ctx, group, 1, 2); got != 0 {
		t.Fatalf("sender favor = %d, want 0", got)
	}

	res, err = svc.GiftItem(ctx, group, 1, 2, "chocolate")
	if err != nil {
		t.Fatalf("second GiftItem: %v", err)
	}
	if res.After != 20 || res.LevelAfter != "Acquaintance" || res.LevelBefore != "Stranger" {
		t.Fatalf("second gift = %+v, want 20 and a band change", res)
	}
	if got := shopSvc.Count(ctx, group, 1, "chocolate"); got != 0 {
		t.Fatalf("remaining chocolates = %d, want 0", got)
	}
}

func TestGiftItemRejections(t *testing.T) {
	ctx := context.Background()
	svc, _, shopSvc := newTestService(t, 1)

	if _, err := svc.GiftItem(ctx, group, 1, 1, "flower"); err != common.ErrSelfTarget {
		t.Fatalf("self gift error = %v, want ErrSelfTarget", err)
	}
	if _, err := svc.GiftItem(ctx, group, 1, 2, "no-such-thing"); err != common.ErrUnknownItem {
		t.Fatalf("unknown item error = %v, want ErrUnknownItem", err)
	}
	// Foods are not gifts.
	if _, err := svc.GiftItem(ctx, group, 1, 2, "Pudding"); err != common.ErrUnknownItem {
		t.Fatalf("food gift error = %v, want ErrUnknownItem", err)
	}
	if _, err := svc.GiftItem(ctx, group, 1, 2, "ring"); err != common.ErrRelationGift {
		t.Fatalf("relation gift error = %v, want ErrRelationGift", err)
	}
	if _, err := svc.GiftItem(ctx, group, 1, 2, "flower"); err != common.ErrItemNotOwned {
		t.Fatalf("empty bag error = %v, want ErrItemNotOwned", err)
	}

	setFavor(t, svc, 2, 1, 100)
	grant(t, shopSvc, 1, "flower", 1)
	if _, err := svc.GiftItem(ctx, group, 1, 2, "flower"); err != common.ErrFavorCapped {
		t.Fatalf("capped gift error = %v, want ErrFavorCapped", err)
	}
	if got := shopSvc.Count(ctx, group, 1, "flower"); got != 1 {
		t.Fatalf("rejected gift was consumed, count = %d, want 1", got)
	}
}

func TestBondLover(t *testing.T) {
	ctx := context.Background()
	svc, _, shopSvc := newTestService(t, 1)
	setFavor(t, svc, 1, 2, 100)
	setFavor(t, svc, 2, 1, 100)
	grant(t, shopSvc, 1, "ring", 1)

	res, err := svc.Bond(ctx, group, 1, 2, RelationLover)
	if err != nil {
		t.Fatalf("Bond: %v", err)
	}
	if res.Kind != RelationLover || res.Item.ID != "ring" {
		t.Fatalf("bond result = %+v", res)
	}
	if got := shopSvc.Count(ctx, group, 1, "ring"); got != 0 {
		t.Fatalf("ring count = %d, want 0", got)
	}

	if kind, ok := svc.RelationBetween(ctx, group, 1, 2); !ok || kind != RelationLover {
		t.Fatalf("relation 1->2 = %v %v", kind, ok)
	}
	if kind, ok := svc.RelationBetween(ctx, group, 2, 1); !ok || kind != RelationLover {
		t.Fatalf("relation 2->1 = %v %v", kind, ok)
	}
	// Sealing lifts the cap by one on both parked sides.
	if got := svc.Favor(ctx, group, 1, 2); got != 101 {
		t.Fatalf("favor 1->2 = %d, want 101", got)
	}
	if got := svc.Favor(ctx, group, 2, 1); got != 101 {
		t.Fatalf("favor 2->1 = %d, want 101", got)
	}

	// A second bond of any kind between the same pair is refused.
	grant(t, shopSvc, 1, "liquor", 1)
	if _, err := svc.Bond(ctx, group, 1, 2, RelationBrother); err != common.ErrAlreadyRelated {
		t.Fatalf("second bond error = %v, want ErrAlreadyRelated", err)
	}
}

func TestConcurrentBondsSingleSlot(t *testing.T) {
	ctx := context.Background()
	svc, _, shopSvc := newTestService(t, 1)
	for _, suitor := range []int64{1, 2} {
		setFavor(t, svc, suitor, 3, 100)
		setFavor(t, svc, 3, suitor, 100)
		grant(t, shopSvc, suitor, "ring", 1)
	}

	// two racing proposals for the same lover slot; exactly one may
	// claim it and only the winner's ring burns
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, suitor := range []int64{1, 2} {
		wg.Add(1)
		go func(i int, suitor int64) {
			defer wg.Done()
			_, errs[i] = svc.Bond(ctx, group, suitor, 3, RelationLover)
		}(i, suitor)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else if err != common.ErrTargetSlotTaken {
			t.Errorf("loser error = %v, want ErrTargetSlotTaken", err)
		}
	}
	if won != 1 {
		t.Fatalf("bonds succeeded = %d, want exactly 1", won)
	}

	rings := shopSvc.Count(ctx, group, 1, "ring") + shopSvc.Count(ctx, group, 2, "ring")
	if rings != 1 {
		t.Errorf("rings left = %d, want 1 (only the winner's burned)", rings)
	}
}

func TestBondValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, shopSvc := newTestService(t, 1)

	if _, err := svc.Bond(ctx, group, 1, 1, RelationLover); err != common.ErrSelfTarget {
		t.Fatalf("self bond error = %v, want ErrSelfTarget", err)
	}
	// The item gate comes before the favorability gates.
	if _, err := svc.Bond(ctx, group, 1, 2, RelationLover); err != common.ErrItemNotOwned {
		t.Fatalf("no item error = %v, want ErrItemNotOwned", err)
	}

	grant(t, shopSvc, 1, "ring", 1)
	setFavor(t, svc, 2, 1, 100)
	if _, err := svc.Bond(ctx, group, 1, 2, RelationLover); err != common.ErrFavorTooLow {
		t.Fatalf("one-sided lover error = %v, want ErrFavorTooLow", err)
	}

	// Patron only needs the target's side.
	grant(t, shopSvc, 1, "blackcard", 1)
	if _, err := svc.Bond(ctx, group, 1, 2, RelationPatron); err != nil {
		t.Fatalf("patron bond: %v", err)
	}

	// Slot taken: 1 holds the patron slot now.
	setFavor(t, svc, 3, 1, 100)
	grant(t, shopSvc, 1, "blackcard", 1)
	if _, err := svc.Bond(ctx, group, 1, 3, RelationPatron); err != common.ErrRelationSlotTaken {
		t.Fatalf("slot taken error = %v, want ErrRelationSlotTaken", err)
	}

	// Target slot taken: 3 tries to patronize 2, who is already bound.
	setFavor(t, svc, 2, 3, 100)
	grant(t, shopSvc, 3, "blackcard", 1)
	if _, err := svc.Bond(ctx, group, 3, 2, RelationPatron); err != common.ErrTargetSlotTaken {
		t.Fatalf("target slot error = %v, want ErrTargetSlotTaken", err)
	}
}

func TestUnbond(t *testing.T) {
	ctx := context.Background()
	svc, _, shopSvc := newTestService(t, 1)
	setFavor(t, svc, 1, 2, 100)
	setFavor(t, svc, 2, 1, 100)
	grant(t, shopSvc, 1, "ring", 1)
	if _, err := svc.Bond(ctx, group, 1, 2, RelationLover); err != nil {
		t.Fatalf("Bond: %v", err)
	}

	res, err := svc.Unbond(ctx, group, 2, 1)
	if err != nil {
		t.Fatalf("Unbond: %v", err)
	}
	if res.Kind != RelationLover {
		t.Fatalf("broken kind = %v, want lover", res.Kind)
	}
	if _, ok := svc.RelationBetween(ctx, group, 1, 2); ok {
		t.Fatal("relation 1->2 survived the break")
	}
	if _, ok := svc.RelationBetween(ctx, group, 2, 1); ok {
		t.Fatal("relation 2->1 survived the break")
	}
	if got := svc.Favor(ctx, group, 1, 2); got != 50 {
		t.Fatalf("favor 1->2 = %d, want 50", got)
	}
	if got := svc.Favor(ctx, group, 2, 1); got != 50 {
		t.Fatalf("favor 2->1 = %d, want 50", got)
	}

	if _, err := svc.Unbond(ctx, group, 1, 2); err != common.ErrNotRelated {
		t.Fatalf("second unbond error = %v, want ErrNotRelated", err)
	}
}

func TestBeginDateDailyCap(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, 1)

	if err := svc.BeginDate(ctx, group, 1, 1); err != common.ErrSelfTarget {
		t.Fatalf("self date error = %v, want ErrSelfTarget", err)
	}
	for i := 0; i < 3; i++ {
		if err := svc.BeginDate(ctx, group, 1, 2); err != nil {
			t.Fatalf("date %d: %v", i+1, err)
		}
	}
	if err := svc.BeginDate(ctx, group, 1, 2); err != common.ErrDateDailyLimit {
		t.Fatalf("fourth date error = %v, want ErrDateDailyLimit", err)
	}

	// A new day resets the allowance.
	err := svc.repo.Update(group, 1, func(rec *Record) {
		rec.LastDateDate = common.Yesterday()
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.BeginDate(ctx, group, 1, 2); err != nil {
		t.Fatalf("date after rollover: %v", err)
	}
}

func TestRunDate(t *testing.T) {
	ctx := context.Background()
	svc, econ, _ := newTestService(t, 7)
	setFavor(t, svc, 1, 2, 40)
	setFavor(t, svc, 2, 1, 40)

	res, err := svc.RunDate(ctx, group, 1, 2)
	if err != nil {
		t.Fatalf("RunDate: %v", err)
	}
	if len(res.Scenes) < 3 || len(res.Scenes) > 5 {
		t.Fatalf("scene count = %d, want 3..5", len(res.Scenes))
	}
	seen := make(map[string]bool)
	sumTo2, sumTo1 := 0, 0
	for _, sc := range res.Scenes {
		if seen[sc.Event.ID] {
			t.Fatalf("scene %s repeated", sc.Event.ID)
		}
		seen[sc.Event.ID] = true
		if sc.ToTarget < sc.Event.Min || sc.ToTarget > sc.Event.Max {
			t.Fatalf("scene %s delta %d outside [%d,%d]", sc.Event.ID, sc.ToTarget, sc.Event.Min, sc.Event.Max)
		}
		sumTo2 += sc.ToTarget
		sumTo1 += sc.ToInitiator
	}

	if res.Initiator.Before != 40 || res.Initiator.Change != res.Initiator.After-40 {
		t.Fatalf("initiator side = %+v", res.Initiator)
	}
	want := 40 + sumTo2
	if want < 0 {
		want = 0
	}
	if got := svc.Favor(ctx, group, 1, 2); got != want {
		t.Fatalf("favor 1->2 = %d, want %d", got, want)
	}
	want = 40 + sumTo1
	if want < 0 {
		want = 0
	}
	if got := svc.Favor(ctx, group, 2, 1); got != want {
		t.Fatalf("favor 2->1 = %d, want %d", got, want)
	}

	if !res.FirstForInitiator || !res.FirstForTarget {
		t.Fatalf("first-date flags = %v %v, want true true", res.FirstForInitiator, res.FirstForTarget)
	}
	if got := econ.Record(ctx, group, 1).DateCount; got != 1 {
		t.Fatalf("initiator DateCount = %d, want 1", got)
	}

	res, err = svc.RunDate(ctx, group, 1, 2)
	if err != nil {
		t.Fatalf("second RunDate: %v", err)
	}
	if res.FirstForInitiator || res.FirstForTarget {
		t.Fatal("first-date flags set on the second date")
	}
	if got := econ.Record(ctx, group, 2).DateCount; got != 2 {
		t.Fatalf("target DateCount = %d, want 2", got)
	}
}

func TestNetwork(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, 1)
	setFavor(t, svc, 1, 2, 30)
	setFavor(t, svc, 1, 3, 80)
	setFavor(t, svc, 1, 4, 0)
	setFavor(t, svc, 1, 5, 100)

	entries := svc.Network(ctx, group, 1, 5)
	if len(entries) != 3 {
		t.Fatalf("network size = %d, want 3", len(entries))
	}
	wantOrder := []int64{5, 3, 2}
	for i, want := range wantOrder {
		if entries[i].UserID != want {
			t.Fatalf("entry %d = user %d, want %d", i, entries[i].UserID, want)
		}
	}
	if entries[0].Level != "One and Only" || entries[2].Level != "Acquaintance" {
		t.Fatalf("levels = %q / %q", entries[0].Level, entries[2].Level)
	}

	if got := svc.Network(ctx, group, 1, 2); len(got) != 2 {
		t.Fatalf("limited network size = %d, want 2", len(got))
	}
}

func TestThank(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, 1)

	if _, err := svc.Thank(ctx, group, 1, 1); err != common.ErrSelfTarget {
		t.Fatalf("self thank error = %v, want ErrSelfTarget", err)
	}

	after, err := svc.Thank(ctx, group, 1, 2)
	if err != nil {
		t.Fatalf("Thank: %v", err)
	}
	if after != 1 {
		t.Fatalf("favor after thank = %d, want 1", after)
	}
	if got := svc.Favor(ctx, group, 2, 1); got != 1 {
		t.Fatalf("stored favor = %d, want 1", got)
	}

	if _, err := svc.Thank(ctx, group, 1, 2); err != common.ErrAlreadyThanked {
		t.Fatalf("second thank error = %v, want ErrAlreadyThanked", err)
	}
	// A different pair is fine the same day.
	if _, err := svc.Thank(ctx, group, 1, 3); err != nil {
		t.Fatalf("thank toward another member: %v", err)
	}

	setFavor(t, svc, 3, 4, 100)
	if _, err := svc.Thank(ctx, group, 4, 3); err != common.ErrFavorCapped {
		t.Fatalf("capped thank error = %v, want ErrFavorCapped", err)
	}
}

func TestIsThankYou(t *testing.T) {
	yes := []string{"thanks", "Thanks!", "THANK YOU", "thx~", "ty."}
	no := []string{"thanks a lot", "no thanks?", "", "thankful"}
	for _, s := range yes {
		if !IsThankYou(s) {
			t.Errorf("IsThankYou(%q) = false, want true", s)
		}
	}
	for _, s := range no {
		if IsThankYou(s) {
			t.Errorf("IsThankYou(%q) = true, want false", s)
		}
	}
}

func TestSocialMaster(t *testing.T) {
	ctx := context.Background()
	svc, _, shopSvc := newTestService(t, 1)

	for i := int64(2); i <= 5; i++ {
		setFavor(t, svc, 1, i, 50)
	}
	if svc.SocialMasterMet(ctx, group, 1) {
		t.Fatal("four friends should not satisfy the condition")
	}

	// The fifth friendship crosses the line through a gift.
	setFavor(t, svc, 1, 6, 45)
	grant(t, shopSvc, 6, "chocolate", 1)
	res, err := svc.GiftItem(ctx, group, 6, 1, "chocolate")
	if err != nil {
		t.Fatalf("GiftItem: %v", err)
	}
	if !res.SocialMaster {
		t.Fatal("gift crossing the fifth 50 should flag social master")
	}
	if !svc.SocialMasterMet(ctx, group, 1) {
		t.Fatal("five friends should satisfy the condition")
	}
}
