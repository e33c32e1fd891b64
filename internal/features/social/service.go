package social

import (
	"context"
	"sort"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/common"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/config"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/economy"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/shop"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/weighted"
)

// Service implements favorability, gifts, special relationships and
// dates over the social ledger.
type Service struct {
	repo *Repository
	econ *economy.Service
	shop *shop.Service
	rng  *common.Rand
	cfg  *config.Config
}

func NewService(repo *Repository, econ *economy.Service, shopService *shop.Service, rng *common.Rand, cfg *config.Config) *Service {
	return &Service{repo: repo, econ: econ, shop: shopService, rng: rng, cfg: cfg}
}

// Favor returns user's favorability toward target.
func (s *Service) Favor(ctx context.Context, group, user, target int64) int {
	rec := s.repo.Get(group, user)
	return rec.Favor[target]
}

// RelationBetween returns the special relationship binding the pair.
func (s *Service) RelationBetween(ctx context.Context, group, user, target int64) (RelationKind, bool) {
	rec := s.repo.Get(group, user)
	return rec.relationWith(target)
}

// socialMasterLocked reports whether the record holds favorability 50
// or higher toward at least five different members.
func socialMasterLocked(rec *Record) bool {
	n := 0
	for _, f := range rec.Favor {
		if f >= 50 {
			n++
		}
	}
	return n >= 5
}

// GiftResult reports one item gift and the receiver's favorability
// movement toward the sender.
type GiftResult struct {
	Item         shop.Item
	Gain         int
	Before       int
	After        int
	LevelBefore  string
	LevelAfter   string
	SocialMaster bool
}

// GiftItem consumes one gift item from the sender's bag and raises the
// target's favorability toward the sender. At 100 the gift is refused
// until a special relationship unlocks the cap.
func (s *Service) GiftItem(ctx context.Context, group, sender, target int64, name string) (GiftResult, error) {
	if sender == target {
		return GiftResult{}, common.ErrSelfTarget
	}
	item, ok := shop.Lookup(name)
	if !ok || item.Category != shop.CategoryGift {
		return GiftResult{}, common.ErrUnknownItem
	}
	if item.Relation != "" {
		return GiftResult{Item: item}, common.ErrRelationGift
	}

	targetRec := s.repo.Get(group, target)
	before := targetRec.Favor[sender]
	if _, related := targetRec.relationWith(sender); before >= 100 && !related {
		return GiftResult{Item: item, Before: before}, common.ErrFavorCapped
	}

	if err := s.shop.Consume(ctx, group, sender, item.ID, 1); err != nil {
		return GiftResult{Item: item}, err
	}

	res := GiftResult{Item: item, Gain: item.FavorGain, Before: before}
	err := s.repo.Update(group, target, func(rec *Record) {
		if rec.Favor == nil {
			rec.Favor = make(map[int64]int)
		}
		after := rec.Favor[sender] + item.FavorGain
		if after < 0 {
			after = 0
		}
		rec.Favor[sender] = after
		res.After = after
		res.SocialMaster = socialMasterLocked(rec)
	})
	if err != nil {
		return GiftResult{}, err
	}
	res.LevelBefore = FavorLevel(res.Before)
	res.LevelAfter = FavorLevel(res.After)
	return res, nil
}

// itemForRelation finds the catalog gift that seals the given kind.
func itemForRelation(kind RelationKind) (shop.Item, bool) {
	for _, it := range shop.Catalog() {
		if it.Relation == string(kind) {
			return it, true
		}
	}
	return shop.Item{}, false
}

// BondResult reports a sealed relationship.
type BondResult struct {
	Kind  RelationKind
	Item  shop.Item
	Favor int // target's favorability toward the initiator after sealing
}

// Bond seals a special relationship, consuming the matching gift item.
// Patron needs only the target's favorability at 100; lover and
// brother need both directions.
func (s *Service) Bond(ctx context.Context, group, user, target int64, kind RelationKind) (BondResult, error) {
	if user == target {
		return BondResult{}, common.ErrSelfTarget
	}
	item, ok := itemForRelation(kind)
	if !ok {
		return BondResult{}, common.ErrUnknownItem
	}
	if s.shop.Count(ctx, group, user, item.ID) < 1 {
		return BondResult{Item: item}, common.ErrItemNotOwned
	}

	// Validation, the token burn and the edge writes run under one
	// graph lock so two concurrent bonds cannot both claim a slot.
	res := BondResult{Kind: kind, Item: item}
	var opErr error
	err := s.repo.UpdateGraph(group, func(get func(int64) *Record) {
		u, t := get(user), get(target)
		if kind != RelationPatron && u.Favor[target] < 100 {
			opErr = common.ErrFavorTooLow
			return
		}
		if t.Favor[user] < 100 {
			opErr = common.ErrFavorTooLow
			return
		}
		if u.Relations[kind] != 0 {
			opErr = common.ErrRelationSlotTaken
			return
		}
		if t.Relations[kind] != 0 {
			opErr = common.ErrTargetSlotTaken
			return
		}
		if _, related := u.relationWith(target); related {
			opErr = common.ErrAlreadyRelated
			return
		}

		if err := s.shop.Consume(ctx, group, user, item.ID, 1); err != nil {
			opErr = err
			return
		}

		if u.Relations == nil {
			u.Relations = make(map[RelationKind]int64)
		}
		if t.Relations == nil {
			t.Relations = make(map[RelationKind]int64)
		}
		u.Relations[kind] = target
		t.Relations[kind] = user

		// Sealing lifts the 100 cap by one point on each side that
		// is parked exactly at it.
		if u.Favor[target] == 100 {
			u.Favor[target] = 101
		}
		if t.Favor[user] == 100 {
			t.Favor[user] = 101
		}
		res.Favor = t.Favor[user]
	})
	if opErr != nil {
		return BondResult{Item: item}, opErr
	}
	if err != nil {
		return BondResult{}, err
	}
	return res, nil
}

// UnbondResult reports a broken relationship.
type UnbondResult struct {
	Kind RelationKind
}

// Unbond breaks the relationship between the pair and resets both
// favorability directions to 50.
func (s *Service) Unbond(ctx context.Context, group, user, target int64) (UnbondResult, error) {
	if user == target {
		return UnbondResult{}, common.ErrSelfTarget
	}

	var res UnbondResult
	var opErr error
	err := s.repo.UpdateGraph(group, func(get func(int64) *Record) {
		u, t := get(user), get(target)
		kind, related := u.relationWith(target)
		if !related {
			opErr = common.ErrNotRelated
			return
		}
		res.Kind = kind
		delete(u.Relations, kind)
		if back, ok := t.relationWith(user); ok {
			delete(t.Relations, back)
		}

		if u.Favor == nil {
			u.Favor = make(map[int64]int)
		}
		if t.Favor == nil {
			t.Favor = make(map[int64]int)
		}
		u.Favor[target] = 50
		t.Favor[user] = 50
	})
	if err != nil {
		return UnbondResult{}, err
	}
	if opErr != nil {
		return UnbondResult{}, opErr
	}
	return res, nil
}

// BeginDate charges the initiator's daily date allowance. The count is
// spent when the invitation goes out, not when it is answered.
func (s *Service) BeginDate(ctx context.Context, group, initiator, target int64) error {
	if initiator == target {
		return common.ErrSelfTarget
	}

	var opErr error
	err := s.repo.Update(group, initiator, func(rec *Record) {
		today := common.Today()
		if rec.LastDateDate != today {
			rec.DailyDates = 0
			rec.LastDateDate = today
		}
		if rec.DailyDates >= s.cfg.SocialDateDailyCap {
			opErr = common.ErrDateDailyLimit
			return
		}
		rec.DailyDates++
	})
	if err != nil {
		return err
	}
	return opErr
}

// DateScene is one played scene with its per-direction deltas.
type DateScene struct {
	Event       DateEvent
	ToTarget    int // initiator's favorability toward the target
	ToInitiator int // target's favorability toward the initiator
}

// DateSide is one direction's favorability movement over a date.
type DateSide struct {
	Before      int
	After       int
	Change      int
	LevelBefore string
	LevelAfter  string
	LevelUp     bool
}

// DateResult is the full report of a completed date.
type DateResult struct {
	Scenes    []DateScene
	Initiator DateSide // initiator's favorability toward the target
	Target    DateSide // target's favorability toward the initiator
	// First* flag each side's first completed date ever.
	FirstForInitiator bool
	FirstForTarget    bool
}

// RunDate plays an accepted date: three to five distinct scenes, each
// moving both favorability directions independently. Dates are not
// subject to the 100 cap.
func (s *Service) RunDate(ctx context.Context, group, initiator, target int64) (DateResult, error) {
	count := s.rng.Between(3, 5)
	scenes := weighted.Sample(s.rng, dateChoices(), count)

	res := DateResult{Scenes: make([]DateScene, 0, len(scenes))}
	toTarget, toInitiator := 0, 0
	for _, ev := range scenes {
		sc := DateScene{
			Event:       ev,
			ToTarget:    s.rng.Between(ev.Min, ev.Max),
			ToInitiator: s.rng.Between(ev.Min, ev.Max),
		}
		toTarget += sc.ToTarget
		toInitiator += sc.ToInitiator
		res.Scenes = append(res.Scenes, sc)
	}

	apply := func(rec *Record, other int64, delta int) (int, int) {
		if rec.Favor == nil {
			rec.Favor = make(map[int64]int)
		}
		before := rec.Favor[other]
		after := before + delta
		if after < 0 {
			after = 0
		}
		rec.Favor[other] = after
		return before, after
	}

	err := s.repo.UpdateGraph(group, func(get func(int64) *Record) {
		ib, ia := apply(get(initiator), target, toTarget)
		tb, ta := apply(get(target), initiator, toInitiator)
		res.Initiator = dateSide(ib, ia)
		res.Target = dateSide(tb, ta)
	})
	if err != nil {
		return DateResult{}, err
	}

	for _, side := range []struct {
		user  int64
		first *bool
	}{{initiator, &res.FirstForInitiator}, {target, &res.FirstForTarget}} {
		err := s.econ.Update(ctx, group, side.user, func(rec *economy.Record) {
			*side.first = rec.DateCount == 0
			rec.DateCount++
		})
		if err != nil {
			return DateResult{}, err
		}
	}
	return res, nil
}

func dateSide(before, after int) DateSide {
	lb, la := FavorLevel(before), FavorLevel(after)
	return DateSide{
		Before:      before,
		After:       after,
		Change:      after - before,
		LevelBefore: lb,
		LevelAfter:  la,
		LevelUp:     lb != la,
	}
}

// RelationCard is the data behind the pairwise relationship view.
type RelationCard struct {
	ToTarget      int
	ToInitiator   int
	ToTargetLevel string
	ToInitLevel   string
	Relation      RelationKind
	HasRelation   bool
}

// Relationship assembles the pairwise card data.
func (s *Service) Relationship(ctx context.Context, group, user, target int64) RelationCard {
	toTarget := s.Favor(ctx, group, user, target)
	toUser := s.Favor(ctx, group, target, user)
	card := RelationCard{
		ToTarget:      toTarget,
		ToInitiator:   toUser,
		ToTargetLevel: FavorLevel(toTarget),
		ToInitLevel:   FavorLevel(toUser),
	}
	card.Relation, card.HasRelation = s.RelationBetween(ctx, group, user, target)
	return card
}

// NetworkEntry is one row of a member's relationship network.
type NetworkEntry struct {
	UserID      int64
	Favor       int
	Level       string
	Relation    RelationKind
	HasRelation bool
}

// Network returns the user's strongest favorability ties, descending,
// zero entries dropped.
func (s *Service) Network(ctx context.Context, group, user int64, limit int) []NetworkEntry {
	rec := s.repo.Get(group, user)

	out := make([]NetworkEntry, 0, len(rec.Favor))
	for target, favor := range rec.Favor {
		if favor <= 0 {
			continue
		}
		e := NetworkEntry{UserID: target, Favor: favor, Level: FavorLevel(favor)}
		e.Relation, e.HasRelation = rec.relationWith(target)
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Favor != out[j].Favor {
			return out[i].Favor > out[j].Favor
		}
		return out[i].UserID < out[j].UserID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// SocialMasterMet reports whether the user currently satisfies the
// five-friends condition.
func (s *Service) SocialMasterMet(ctx context.Context, group, user int64) bool {
	rec := s.repo.Get(group, user)
	return socialMasterLocked(&rec)
}

// Persist flushes the social ledger to disk.
func (s *Service) Persist() error {
	return s.repo.Persist()
}
