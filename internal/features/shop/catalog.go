// Package shop sells items for Astral Coins: one-shot tools that grant
// buffs, foods that restore stamina, and gifts that raise favorability
// or unlock special relationships. catalog.go is the static item table.
package shop

import (
	"strings"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/features/economy"
)

// Category groups the catalog.
type Category string

const (
	CategoryTool Category = "tool"
	CategoryFood Category = "food"
	CategoryGift Category = "gift"
)

// Categories lists all catalog categories in display order.
var Categories = []Category{CategoryTool, CategoryFood, CategoryGift}

// Item is one catalog entry. Exactly one effect group is set, chosen by
// Category: tools carry a Buff, foods a stamina effect, gifts a
// favorability gain or a relationship kind.
type Item struct {
	ID          string
	Name        string
	Price       float64
	Description string
	Category    Category

	// tools
	Buff economy.Buff

	// foods: either a fixed restore, a random range, or the gamble
	// burger (stamina zeroed or +50, coin flip)
	StaminaFixed int
	StaminaMin   int
	StaminaMax   int
	Gamble       bool

	// gifts
	FavorGain int
	// Relation is the relationship kind this gift can seal at
	// favorability 100: "lover", "brother" or "patron".
	Relation string
}

// catalog is the full item table. Prices and effects follow the
// original game balance.
var catalog = []Item{
	// tools
	{ID: "bento", Name: "Bento", Price: 30, Category: CategoryTool,
		Description: "Your next work attempt is guaranteed to succeed (high-risk jobs excluded).",
		Buff:        economy.BuffWorkGuarantee},
	{ID: "charm", Name: "Guardian Charm", Price: 10, Category: CategoryTool,
		Description: "Your next failed work attempt costs you nothing.",
		Buff:        economy.BuffWorkNoPenalty},
	{ID: "drink", Name: "Energy Drink", Price: 30, Category: CategoryTool,
		Description: "Your next successful work reward grows by a random 1%-50%.",
		Buff:        economy.BuffWorkRewardBoost},
	{ID: "potion", Name: "Luck Potion", Price: 15, Category: CategoryTool,
		Description: "Your next lottery draw lands on 3★ or better.",
		Buff:        economy.BuffLotteryMinThreeStar},
	{ID: "clover", Name: "Four-Leaf Clover", Price: 15, Category: CategoryTool,
		Description: "Your next lottery coin reward is doubled.",
		Buff:        economy.BuffLotteryDouble},
	{ID: "voucher", Name: "Selection Voucher", Price: 30, Category: CategoryTool,
		Description: "Your next lottery runs twice and keeps the higher tier.",
		Buff:        economy.BuffLotteryBestOfTwo},
	{ID: "amulet", Name: "Explorer's Amulet", Price: 25, Category: CategoryTool,
		Description: "Your next crisis encounter is negated.",
		Buff:        economy.BuffAdventureNegateCrisis},
	{ID: "beacon", Name: "Encounter Beacon", Price: 35, Category: CategoryTool,
		Description: "Your next adventure draw is far more likely to hit a rare encounter.",
		Buff:        economy.BuffAdventureRareBoost},

	// foods
	{ID: "cookie", Name: "Astral Cookie", Price: 10, Category: CategoryFood,
		Description: "Restores 20 stamina.", StaminaFixed: 20},
	{ID: "takoyaki", Name: "Takoyaki", Price: 15, Category: CategoryFood,
		Description: "Restores 30 stamina.", StaminaFixed: 30},
	{ID: "bun", Name: "Steamed Bun", Price: 20, Category: CategoryFood,
		Description: "Restores 40 stamina.", StaminaFixed: 40},
	{ID: "pudding", Name: "Pudding", Price: 80, Category: CategoryFood,
		Description: "Restores 160 stamina.", StaminaFixed: 160},
	{ID: "chicken", Name: "Fried Chicken Bucket", Price: 50, Category: CategoryFood,
		Description: "Restores 100 stamina.", StaminaFixed: 100},
	{ID: "mealdeal", Name: "Bargain Meal", Price: 15, Category: CategoryFood,
		Description: "Restores 1 to 60 stamina, pot luck.", StaminaMin: 1, StaminaMax: 60},
	{ID: "burger", Name: "Gamble Burger", Price: 12, Category: CategoryFood,
		Description: "Either wipes your stamina or restores 50. Feeling lucky?", Gamble: true},
	{ID: "noodles", Name: "Instant Noodles", Price: 5, Category: CategoryFood,
		Description: "Restores 1 to 20 stamina.", StaminaMin: 1, StaminaMax: 20},

	// gifts
	{ID: "flower", Name: "Flower", Price: 10, Category: CategoryGift,
		Description: "Favorability +1.", FavorGain: 1},
	{ID: "lollipop", Name: "Lollipop", Price: 20, Category: CategoryGift,
		Description: "Favorability +2.", FavorGain: 2},
	{ID: "boba", Name: "Bubble Tea", Price: 30, Category: CategoryGift,
		Description: "Favorability +3.", FavorGain: 3},
	{ID: "chocolate", Name: "Chocolate", Price: 100, Category: CategoryGift,
		Description: "Favorability +10.", FavorGain: 10},
	{ID: "redpacket", Name: "Red Packet", Price: 50, Category: CategoryGift,
		Description: "Favorability +5.", FavorGain: 5},
	{ID: "ring", Name: "Diamond Ring", Price: 1000, Category: CategoryGift,
		Description: "At full favorability, seals a lover relationship.", Relation: "lover"},
	{ID: "liquor", Name: "Flask of Spirits", Price: 1000, Category: CategoryGift,
		Description: "At full favorability, seals a sworn-sibling bond.", Relation: "brother"},
	{ID: "blackcard", Name: "Black Gold Card", Price: 1000, Category: CategoryGift,
		Description: "At full favorability, seals a patron arrangement.", Relation: "patron"},
}

// Catalog returns the whole item table.
func Catalog() []Item {
	return catalog
}

// ByCategory returns the items of one category in catalog order.
func ByCategory(cat Category) []Item {
	var out []Item
	for _, it := range catalog {
		if it.Category == cat {
			out = append(out, it)
		}
	}
	return out
}

// Lookup finds an item by ID or display name, case-insensitive.
func Lookup(name string) (Item, bool) {
	for _, it := range catalog {
		if strings.EqualFold(it.ID, name) || strings.EqualFold(it.Name, name) {
			return it, true
		}
	}
	return Item{}, false
}
