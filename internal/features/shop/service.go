// Package shop — service.go implements buying, using and consuming
// items. Coins move through the economy service; stamina and buffs land
// on the economy record.
package shop

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/common"
	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/economy"
)

// Service implements the shop.
type Service struct {
	repo *Repository
	econ *economy.Service
	rng  *common.Rand
}

// NewService creates the shop service.
func NewService(repo *Repository, econ *economy.Service, rng *common.Rand) *Service {
	return &Service{repo: repo, econ: econ, rng: rng}
}

// Bag returns a copy of the user's inventory and history.
func (s *Service) Bag(ctx context.Context, group, user int64) UserShop {
	return s.repo.Get(group, user)
}

// Count returns how many of one item the user holds.
func (s *Service) Count(ctx context.Context, group, user int64, itemID string) int {
	return s.repo.Get(group, user).Inventory[itemID]
}

// Buy purchases qty of an item. The caps are checked before the coins
// move, so a rejected purchase costs nothing.
func (s *Service) Buy(ctx context.Context, group, user int64, name string, qty int) (Item, float64, error) {
	item, ok := Lookup(name)
	if !ok {
		return Item{}, 0, common.ErrUnknownItem
	}
	if qty <= 0 {
		return item, 0, common.ErrInvalidAmount
	}

	bag := s.repo.Get(group, user)
	if bag.Inventory[item.ID]+qty > MaxPerItem {
		return item, 0, fmt.Errorf("%w: at most %d of %s", common.ErrInventoryFull, MaxPerItem, item.Name)
	}
	if bag.Total()+qty > MaxTotal {
		return item, 0, common.ErrInventoryFull
	}

	total := item.Price * float64(qty)
	if _, err := s.econ.DeductPoints(ctx, group, user, total); err != nil {
		return item, total, err
	}

	err := s.repo.Update(group, user, func(u *UserShop) {
		u.Inventory[item.ID] += qty
		u.Purchases = append(u.Purchases, HistoryEntry{
			Item: item.ID, Quantity: qty, Time: time.Now(),
		})
	})
	return item, total, err
}

// UseResult describes what using an item did.
type UseResult struct {
	Item          Item
	Buff          economy.Buff // set when a tool granted a buff
	BuffCount     int          // pending charges after the grant
	StaminaChange int
	NewStamina    int
	MaxStamina    int
}

// Use applies one item from the bag. Gift items are rejected: they are
// given to others, never used on yourself. Tool effects stack, using
// the same tool twice leaves two charges pending.
func (s *Service) Use(ctx context.Context, group, user int64, name string) (UseResult, error) {
	item, ok := Lookup(name)
	if !ok {
		return UseResult{}, common.ErrUnknownItem
	}
	if item.Category == CategoryGift {
		return UseResult{Item: item}, common.ErrGiftItemUse
	}
	if s.repo.Get(group, user).Inventory[item.ID] <= 0 {
		return UseResult{Item: item}, common.ErrItemNotOwned
	}

	res := UseResult{Item: item}

	switch item.Category {
	case CategoryTool:
		count, err := s.econ.GrantBuff(ctx, group, user, item.Buff)
		if err != nil {
			return res, err
		}
		res.Buff = item.Buff
		res.BuffCount = count

	case CategoryFood:
		rec := s.econ.Record(ctx, group, user)
		// eating at full stamina wastes the food; the gamble burger is
		// the one food that can still do something there
		if !item.Gamble && rec.Stamina >= rec.MaxStamina {
			return res, common.ErrStaminaFull
		}
		var change, newStamina, maxStamina int
		err := s.econ.Update(ctx, group, user, func(r *economy.Record) {
			before := r.Stamina
			r.Stamina = s.foodOutcome(item, r.Stamina)
			if r.Stamina > r.MaxStamina {
				r.Stamina = r.MaxStamina
			}
			if r.Stamina < 0 {
				r.Stamina = 0
			}
			change = r.Stamina - before
			newStamina = r.Stamina
			maxStamina = r.MaxStamina
		})
		if err != nil {
			return res, err
		}
		res.StaminaChange = change
		res.NewStamina = newStamina
		res.MaxStamina = maxStamina
	}

	err := s.repo.Update(group, user, func(u *UserShop) {
		u.Inventory[item.ID]--
		if u.Inventory[item.ID] <= 0 {
			delete(u.Inventory, item.ID)
		}
		u.Uses = append(u.Uses, HistoryEntry{Item: item.ID, Quantity: 1, Time: time.Now()})
	})
	return res, err
}

// foodOutcome computes the raw stamina value after eating, before
// clamping.
func (s *Service) foodOutcome(item Item, current int) int {
	switch {
	case item.Gamble:
		if s.rng.Float64() < 0.5 {
			return 0
		}
		return current + 50
	case item.StaminaMax > 0:
		return current + s.rng.Between(item.StaminaMin, item.StaminaMax)
	default:
		return current + item.StaminaFixed
	}
}

// Consume removes qty of an item without applying effects. The social
// feature burns gift items through here.
func (s *Service) Consume(ctx context.Context, group, user int64, itemID string, qty int) error {
	short := false
	err := s.repo.Update(group, user, func(u *UserShop) {
		if u.Inventory[itemID] < qty {
			short = true
			return
		}
		u.Inventory[itemID] -= qty
		if u.Inventory[itemID] <= 0 {
			delete(u.Inventory, itemID)
		}
		u.Uses = append(u.Uses, HistoryEntry{Item: itemID, Quantity: qty, Time: time.Now()})
	})
	if err != nil {
		return err
	}
	if short {
		return common.ErrItemNotOwned
	}
	return nil
}

// GrantResult describes what happened to items handed out by events.
type GrantResult struct {
	Added    int
	AutoUsed []string // notes about items consumed on the spot
	Dropped  int      // lost to a full bag
}

// Grant adds found items to the bag. Overflow past the per-item cap is
// consumed on the spot; overflow past the total cap is dropped.
func (s *Service) Grant(ctx context.Context, group, user int64, itemID string, qty int) (GrantResult, error) {
	item, ok := Lookup(itemID)
	if !ok {
		return GrantResult{}, common.ErrUnknownItem
	}

	var res GrantResult
	for i := 0; i < qty; i++ {
		bag := s.repo.Get(group, user)
		if bag.Total() >= MaxTotal {
			res.Dropped = qty - i
			break
		}
		if bag.Inventory[item.ID] >= MaxPerItem {
			res.AutoUsed = append(res.AutoUsed, s.autoUse(ctx, group, user, item))
			continue
		}
		err := s.repo.Update(group, user, func(u *UserShop) {
			u.Inventory[item.ID]++
		})
		if err != nil {
			return res, err
		}
		res.Added++
	}
	return res, nil
}

// autoUse applies an overflowing item immediately and describes what
// happened.
func (s *Service) autoUse(ctx context.Context, group, user int64, item Item) string {
	switch item.Category {
	case CategoryTool:
		if _, err := s.econ.GrantBuff(ctx, group, user, item.Buff); err != nil {
			log.WithError(err).Warn("auto-use tool failed")
			return fmt.Sprintf("%s overflowed and was lost", item.Name)
		}
		return fmt.Sprintf("%s overflowed and took effect immediately", item.Name)
	case CategoryFood:
		var change int
		err := s.econ.Update(ctx, group, user, func(r *economy.Record) {
			before := r.Stamina
			r.Stamina = s.foodOutcome(item, r.Stamina)
			if r.Stamina > r.MaxStamina {
				r.Stamina = r.MaxStamina
			}
			if r.Stamina < 0 {
				r.Stamina = 0
			}
			change = r.Stamina - before
		})
		if err != nil {
			log.WithError(err).Warn("auto-use food failed")
		}
		return fmt.Sprintf("%s overflowed and was eaten on the spot (%+d stamina)", item.Name, change)
	default:
		return fmt.Sprintf("%s overflowed and was lost", item.Name)
	}
}

// Persist flushes the shop ledger to disk. Called on shutdown.
func (s *Service) Persist() error {
	return s.repo.Persist()
}
