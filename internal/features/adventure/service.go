package adventure

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/common"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/config"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/economy"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/shop"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/weighted"
)

// Service runs adventures against the economy and shop ledgers.
type Service struct {
	econ *economy.Service
	shop *shop.Service
	rng  *common.Rand
	cfg  *config.Config
}

// NewService creates a new adventure service.
func NewService(econ *economy.Service, shopService *shop.Service, rng *common.Rand, cfg *config.Config) *Service {
	return &Service{econ: econ, shop: shopService, rng: rng, cfg: cfg}
}

// Turn is one resolved adventure turn.
type Turn struct {
	Category    Category
	Name        string
	Description string
	Outcome     string // dilemma result line, empty otherwise

	PointsDelta   int
	StaminaDelta  int
	ItemsGained   []string
	AutoUsed      []string
	ItemsDropped  int
	CrisisNegated bool
	RareBoosted   bool
	Interrupted   bool
	Achievement   string
}

// Report sums up one adventure run.
type Report struct {
	Requested     int
	Turns         int
	Interrupted   bool
	StaminaCost   int
	PointsBefore  float64
	PointsAfter   float64
	StaminaBefore int
	StaminaAfter  int
	Events        []Turn
}

// MaxTurns returns how many turns the user's stamina can fund, capped
// by the configured run length. Used by the all-in adventure command.
func (s *Service) MaxTurns(ctx context.Context, group, user int64) int {
	rec := s.econ.Record(ctx, group, user)
	n := rec.Stamina / int(s.cfg.AdventureStaminaCost)
	if n > s.cfg.AdventureMaxTurns {
		n = s.cfg.AdventureMaxTurns
	}
	return n
}

// Run plays up to turns adventure turns. Stamina funds the run up
// front (common.ErrNoStamina otherwise) but is charged at the end for
// the turns actually played, so a recall mid-run refunds the rest.
// Effects accumulate unclamped during the run; only the final stamina
// is floored at zero.
func (s *Service) Run(ctx context.Context, group, user int64, turns int) (Report, error) {
	if turns < 1 {
		turns = 1
	}
	if turns > s.cfg.AdventureMaxTurns {
		turns = s.cfg.AdventureMaxTurns
	}
	costPerTurn := int(s.cfg.AdventureStaminaCost)

	start := s.econ.Record(ctx, group, user)
	if start.Stamina < turns*costPerTurn {
		return Report{}, common.ErrNoStamina
	}

	rep := Report{
		Requested:     turns,
		PointsBefore:  start.Points,
		StaminaBefore: start.Stamina,
	}

	for i := 0; i < turns; i++ {
		turn, err := s.playTurn(ctx, group, user)
		if err != nil {
			return rep, err
		}
		rep.Events = append(rep.Events, turn)
		rep.Turns++
		if turn.Interrupted {
			rep.Interrupted = true
			break
		}
	}

	rep.StaminaCost = rep.Turns * costPerTurn
	err := s.econ.Update(ctx, group, user, func(r *economy.Record) {
		r.AdventureCount += rep.Turns
		r.LastAdventureDate = common.Today()
		r.Stamina -= rep.StaminaCost
		if r.Stamina < 0 {
			r.Stamina = 0
		}
		rep.PointsAfter = r.Points
		rep.StaminaAfter = r.Stamina
	})
	if err != nil {
		return rep, fmt.Errorf("settle adventure: %w", err)
	}
	return rep, nil
}

// playTurn draws and resolves a single event.
func (s *Service) playTurn(ctx context.Context, group, user int64) (Turn, error) {
	var boosted, negated bool

	category, err := s.drawCategory(ctx, group, user, &boosted)
	if err != nil {
		return Turn{}, err
	}

	var ev Event
	var outcome string
	if category == CategoryDilemma {
		narrative := dilemmaNarratives[s.rng.Intn(len(dilemmaNarratives))]
		choices := make([]weighted.Choice[int], len(dilemmaOutcomes))
		for i, o := range dilemmaOutcomes {
			choices[i] = weighted.Choice[int]{Value: i, Weight: o.Weight}
		}
		idx, err := weighted.Pick(s.rng, choices)
		if err != nil {
			return Turn{}, fmt.Errorf("draw dilemma outcome: %w", err)
		}
		picked := dilemmaOutcomes[idx]
		ev = picked.Event
		ev.ID = narrative.ID
		ev.Name = narrative.Name
		ev.Description = narrative.Description
		outcome = picked.Message
	} else {
		pool := eventsFor(category)
		ev = pool[s.rng.Intn(len(pool))]
	}

	turn := Turn{
		Category:    category,
		Name:        ev.Name,
		Description: ev.Description,
		Outcome:     outcome,
		RareBoosted: boosted,
	}

	// a held charm cancels a crisis wholesale
	if category == CategoryCrisis {
		err := s.econ.Update(ctx, group, user, func(r *economy.Record) {
			negated = r.ConsumeBuff(economy.BuffAdventureNegateCrisis)
		})
		if err != nil {
			log.WithError(err).Error("consume crisis charm failed")
		}
		if negated {
			turn.CrisisNegated = true
			return turn, nil
		}
	}

	if ev.Interrupt {
		turn.Interrupted = true
		return turn, nil
	}

	if ev.Points != nil {
		turn.PointsDelta = s.rng.Between(ev.Points.Min, ev.Points.Max)
	}
	if ev.Stamina != nil {
		turn.StaminaDelta = s.rng.Between(ev.Stamina.Min, ev.Stamina.Max)
	}
	if turn.PointsDelta != 0 || turn.StaminaDelta != 0 {
		err := s.econ.Update(ctx, group, user, func(r *economy.Record) {
			r.Points += float64(turn.PointsDelta)
			r.Stamina += turn.StaminaDelta
		})
		if err != nil {
			return turn, fmt.Errorf("apply event: %w", err)
		}
	}

	if len(ev.RandomItem) > 0 {
		itemID, err := weighted.Pick(s.rng, ev.RandomItem)
		if err != nil {
			return turn, fmt.Errorf("draw event item: %w", err)
		}
		s.grantItem(ctx, group, user, itemID, &turn)
	}
	if ev.Item != "" {
		s.grantItem(ctx, group, user, ev.Item, &turn)
	}

	if len(ev.RandomReward) > 0 {
		s.applyPick(ctx, group, user, ev.RandomReward, &turn)
	}
	if len(ev.RandomPenalty) > 0 {
		s.applyPick(ctx, group, user, ev.RandomPenalty, &turn)
	}

	turn.Achievement = ev.Achievement
	return turn, nil
}

// drawCategory draws the turn's category. A held beacon moves the
// quiet-stretch mass onto the rare band for this draw only.
func (s *Service) drawCategory(ctx context.Context, group, user int64, boosted *bool) (Category, error) {
	err := s.econ.Update(ctx, group, user, func(r *economy.Record) {
		*boosted = r.ConsumeBuff(economy.BuffAdventureRareBoost)
	})
	if err != nil {
		log.WithError(err).Error("consume beacon failed")
	}

	order := []Category{
		CategoryFortune, CategoryCrisis, CategoryDilemma,
		CategoryRare, CategoryNothing, CategoryRecall, CategoryDestiny,
	}
	choices := make([]weighted.Choice[Category], 0, len(order))
	for _, c := range order {
		w := categoryWeights[c]
		if *boosted {
			switch c {
			case CategoryNothing:
				w = 0
			case CategoryRare:
				w += categoryWeights[CategoryNothing]
			}
		}
		choices = append(choices, weighted.Choice[Category]{Value: c, Weight: w})
	}
	c, err := weighted.Pick(s.rng, choices)
	if err != nil {
		return 0, fmt.Errorf("draw event category: %w", err)
	}
	return c, nil
}

// applyPick resolves a pick-one reward or penalty: one arm chosen
// uniformly, then its ranged delta or item applied.
func (s *Service) applyPick(ctx context.Context, group, user int64, arms []Reward, turn *Turn) {
	arm := arms[s.rng.Intn(len(arms))]
	switch arm.Kind {
	case RewardPoints:
		delta := s.rng.Between(arm.Min, arm.Max)
		turn.PointsDelta += delta
		err := s.econ.Update(ctx, group, user, func(r *economy.Record) {
			r.Points += float64(delta)
		})
		if err != nil {
			log.WithError(err).Error("apply points pick failed")
		}
	case RewardStamina:
		delta := s.rng.Between(arm.Min, arm.Max)
		turn.StaminaDelta += delta
		err := s.econ.Update(ctx, group, user, func(r *economy.Record) {
			r.Stamina += delta
		})
		if err != nil {
			log.WithError(err).Error("apply stamina pick failed")
		}
	case RewardItem:
		if len(arm.Items) == 0 {
			return
		}
		s.grantItem(ctx, group, user, arm.Items[s.rng.Intn(len(arm.Items))], turn)
	}
}

// grantItem hands a found item to the bag and folds the outcome into
// the turn report.
func (s *Service) grantItem(ctx context.Context, group, user int64, itemID string, turn *Turn) {
	res, err := s.shop.Grant(ctx, group, user, itemID, 1)
	if err != nil {
		log.WithError(err).WithField("item", itemID).Warn("event item grant failed")
		return
	}
	if res.Added > 0 {
		if item, ok := shop.Lookup(itemID); ok {
			turn.ItemsGained = append(turn.ItemsGained, item.Name)
		}
	}
	turn.AutoUsed = append(turn.AutoUsed, res.AutoUsed...)
	turn.ItemsDropped += res.Dropped
}
