// Package adventure implements the multi-turn adventure: each turn
// draws an event category by weight, resolves one event and applies its
// effects, with stamina charged per turn at the end of the run.
package adventure

import "github.com/0d00-Ciallo-0721/astrmarket/internal/weighted"

// Category is one band of the event table.
type Category int

const (
	CategoryFortune Category = iota
	CategoryCrisis
	CategoryDilemma
	CategoryRare
	CategoryNothing
	CategoryRecall
	CategoryDestiny
)

// CategoryName returns the display name of a category.
func CategoryName(c Category) string {
	switch c {
	case CategoryFortune:
		return "Fortune"
	case CategoryCrisis:
		return "Crisis"
	case CategoryDilemma:
		return "Moment of Choice"
	case CategoryRare:
		return "Rare Encounter"
	case CategoryNothing:
		return "Quiet Stretch"
	case CategoryRecall:
		return "Recall"
	case CategoryDestiny:
		return "Destiny"
	default:
		return "Unknown"
	}
}

// categoryWeights is the static draw table. A held rare-boost buff
// moves the quiet-stretch mass onto the rare band for a single draw
// without touching this table.
var categoryWeights = map[Category]int{
	CategoryFortune: 25,
	CategoryCrisis:  25,
	CategoryDilemma: 20,
	CategoryRare:    10,
	CategoryNothing: 15,
	CategoryRecall:  4,
	CategoryDestiny: 1,
}

// RewardKind discriminates the arms of a pick-one reward or penalty.
type RewardKind int

const (
	RewardPoints RewardKind = iota
	RewardStamina
	RewardItem
)

// Reward is one arm of a pick-one effect: a ranged coin or stamina
// delta, or an item drawn uniformly from Items.
type Reward struct {
	Kind  RewardKind
	Min   int
	Max   int
	Items []string
}

// Range is an inclusive integer range; Min == Max encodes a fixed value.
type Range struct {
	Min int
	Max int
}

// Event is one resolvable entry of the table. Effects apply in order:
// interrupt, points, stamina, random item, fixed item, pick-one reward,
// pick-one penalty, achievement signal.
type Event struct {
	ID          string
	Name        string
	Description string

	Interrupt     bool
	Points        *Range
	Stamina       *Range
	RandomItem    []weighted.Choice[string]
	Item          string
	RandomReward  []Reward
	RandomPenalty []Reward
	Achievement   string
}

var fortuneEvents = []Event{
	{ID: "ancient_coins", Name: "Watchtower Coins",
		Description: "You found a pouch of Astral Coins in an abandoned watchtower.",
		Points:      &Range{10, 20}},
	{ID: "goblin_map", Name: "Goblin Map",
		Description: "You dug up Astral Coins from a goblin's treasure hoard.",
		Points:      &Range{10, 20}},
	{ID: "moonlight_spring", Name: "Moonlight Spring",
		Description: "You drank from a moonlit spring and felt your strength return.",
		Stamina:     &Range{10, 20}},
	{ID: "elf_forest", Name: "Elven Woods",
		Description: "Passing through the elven woods restored your spirit.",
		Stamina:     &Range{10, 20}},
	{ID: "dwarf_blacksmith", Name: "Blacksmith's Thanks",
		Description: "A dwarven blacksmith you helped pressed a gift into your hands.",
		RandomItem: []weighted.Choice[string]{
			{Value: "charm", Weight: 40},
			{Value: "potion", Weight: 40},
			{Value: "noodles", Weight: 20},
		}},
}

var crisisEvents = []Event{
	{ID: "scammed_alchemist", Name: "Crooked Alchemist",
		Description: "A crooked alchemist sold you fake potions.",
		Points:      &Range{-15, -5}},
	{ID: "highway_robbery", Name: "Robbed",
		Description: "Bandits made off with part of your coin pouch.",
		Points:      &Range{-15, -5}},
	{ID: "miasma_swamp", Name: "Miasma Swamp",
		Description: "Crossing the miasma swamp drained your strength.",
		Stamina:     &Range{-15, -5}},
	{ID: "cave_noises", Name: "Noises in the Cave",
		Description: "Strange noises kept you up all night and wore you down.",
		Stamina:     &Range{-15, -5}},
	{ID: "canyon_storm", Name: "Canyon Storm",
		Description: "A storm caught you in the canyon, costing coins and strength.",
		Points:      &Range{-15, -5},
		Stamina:     &Range{-10, -5}},
}

// dilemmaNarratives are the framings of a Moment of Choice; the outcome
// drawn afterward decides what actually happens.
var dilemmaNarratives = []Event{
	{ID: "three_gates", Name: "Three Gates of Light", Description: "You stepped through one of three glowing gates."},
	{ID: "three_chests", Name: "Three Stone Chests", Description: "You pried open one of three stone chests."},
	{ID: "fate_weaver", Name: "Three Mystery Boxes", Description: "You unwrapped one of three mystery boxes."},
	{ID: "three_paths", Name: "Three Roads", Description: "You walked down one of three diverging roads."},
}

// dilemmaOutcome is one bucket of a Moment of Choice.
type dilemmaOutcome struct {
	Weight  int
	Message string
	Event   Event
}

var dilemmaOutcomes = []dilemmaOutcome{
	{Weight: 45, Message: "A gift of fate! You came away richer.",
		Event: Event{RandomReward: []Reward{
			{Kind: RewardPoints, Min: 10, Max: 15},
			{Kind: RewardStamina, Min: 10, Max: 15},
			{Kind: RewardItem, Items: []string{"charm", "potion", "cookie"}},
		}}},
	{Weight: 40, Message: "You sprang a trap!",
		Event: Event{RandomPenalty: []Reward{
			{Kind: RewardPoints, Min: -15, Max: -10},
			{Kind: RewardStamina, Min: -15, Max: -10},
		}}},
	{Weight: 15, Message: "Your choice changed nothing."},
}

var rareEvents = []Event{
	{ID: "sky_garden", Name: "Lost Sky Garden",
		Description: "You stumbled into the lost sky garden and left with a rich reward.",
		RandomReward: []Reward{
			{Kind: RewardPoints, Min: 10, Max: 40},
			{Kind: RewardStamina, Min: 10, Max: 40},
			{Kind: RewardItem, Items: []string{"drink", "clover"}},
		}},
	{ID: "unicorn_rescue", Name: "Unicorn's Gratitude",
		Description: "You freed a trapped unicorn and it repaid you in kind.",
		RandomReward: []Reward{
			{Kind: RewardPoints, Min: 10, Max: 40},
			{Kind: RewardStamina, Min: 10, Max: 40},
			{Kind: RewardItem, Items: []string{"bento", "voucher"}},
		}},
	{ID: "dragon_dream", Name: "Dragon's Dream",
		Description: "You strayed into a dragon's territory and barely escaped with your life.",
		RandomPenalty: []Reward{
			{Kind: RewardPoints, Min: -20, Max: -10},
			{Kind: RewardStamina, Min: -20, Max: -10},
		}},
	{ID: "swordmaster_duel", Name: "Duel with the Blade Demon",
		Description: "You won a duel against the blade demon, but it left you spent.",
		Item:        "chicken",
		RandomPenalty: []Reward{
			{Kind: RewardPoints, Min: 10, Max: 25},
			{Kind: RewardStamina, Min: -20, Max: -10},
		}},
}

var nothingEvents = []Event{
	{ID: "two_moons", Name: "Night of Two Moons",
		Description: "You walked in peace beneath the twin moons."},
	{ID: "giant_mushroom", Name: "Giant Mushroom",
		Description: "You rested for a while in the shade of a giant mushroom."},
	{ID: "magic_breeze", Name: "Magic Breeze",
		Description: "A flower-scented magic breeze drifted past."},
}

var recallEvents = []Event{
	{ID: "goddess_call", Name: "The Call of Astr",
		Description: "Astr called you home; your adventure was cut short.",
		Interrupt:   true},
	{ID: "kingdom_draft", Name: "Kingdom Draft",
		Description: "The kingdom drafted you on the spot; your adventure was cut short.",
		Interrupt:   true},
}

var destinyEvents = []Event{
	{ID: "creator_recognition", Name: "The Creator's Recognition",
		Description: "The creator recognized your deeds and crowned you King of Adventure.",
		Points:      &Range{200, 200},
		Stamina:     &Range{100, 100},
		Achievement: "adventure_king"},
}

// eventsFor returns the event pool of a category.
func eventsFor(c Category) []Event {
	switch c {
	case CategoryFortune:
		return fortuneEvents
	case CategoryCrisis:
		return crisisEvents
	case CategoryRare:
		return rareEvents
	case CategoryNothing:
		return nothingEvents
	case CategoryRecall:
		return recallEvents
	case CategoryDestiny:
		return destinyEvents
	default:
		return nil
	}
}
