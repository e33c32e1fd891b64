// Package achievements defines the rule table and the evaluator that
// unlocks rules, awards their coin rewards and manages titles.
// rules.go is the static table; thresholds and rewards follow the
// original game balance.
package achievements

import "github.com/0d00-Ciallo-0721/astrmarket/internal/features/economy"

// Kind splits the table into rules the evaluator can check from state
// and rules only a specific event may fire.
type Kind int

const (
	// General rules are re-checked against a state snapshot after any
	// relevant action.
	General Kind = iota
	// Event rules are unlocked explicitly by the feature that observed
	// the moment (a jackpot, a heist, a first date).
	Event
)

// MarketStats is the slice of market state the evaluator needs.
type MarketStats struct {
	OwnedMembers      int
	TotalWorkRevenue  float64
	TotalWorkFailures int
}

// Snapshot is the read-only state a General rule checks against.
type Snapshot struct {
	Economy economy.Record
	Market  MarketStats
}

// Rule is one achievement.
type Rule struct {
	ID           string
	Name         string
	Description  string
	RewardPoints float64
	RewardTitle  string
	Kind         Kind
	Check        func(Snapshot) bool // nil for Event rules
}

// rules is the complete table, in evaluation and display order.
var rules = []Rule{
	// sign-in and growth
	{ID: "signin_1", Name: "First Steps", Description: "Complete your first sign-in.",
		RewardPoints: 10,
		Check:        func(s Snapshot) bool { return s.Economy.TotalDays >= 1 }},
	{ID: "signin_2", Name: "Persistence", Description: "Sign in 7 days in a row.",
		RewardPoints: 50, RewardTitle: "Tenacity",
		Check: func(s Snapshot) bool { return s.Economy.StreakDays >= 7 }},
	{ID: "signin_3", Name: "Rain or Shine", Description: "Sign in 30 days in a row.",
		RewardPoints: 200, RewardTitle: "Sign-in Master",
		Check: func(s Snapshot) bool { return s.Economy.StreakDays >= 30 }},
	{ID: "signin_4", Name: "Second Chance", Description: "Use the make-up sign for the first time.",
		RewardPoints: 5, Kind: Event},

	// wealth
	{ID: "wealth_1", Name: "First Pot of Gold", Description: "Hold more than 1000 Astral Coins.",
		RewardPoints: 50, RewardTitle: "Comfortable",
		Check: func(s Snapshot) bool { return s.Economy.Points >= 1000 }},
	{ID: "wealth_2", Name: "Ten Thousand Club", Description: "Hold more than 10000 Astral Coins.",
		RewardPoints: 200, RewardTitle: "Tycoon",
		Check: func(s Snapshot) bool { return s.Economy.Points >= 10000 }},
	{ID: "wealth_3", Name: "Rags Overnight", Description: "Drop to zero Astral Coins.",
		RewardPoints: 10, RewardTitle: "Bankrupt",
		Check: func(s Snapshot) bool { return s.Economy.Points <= 0 && s.Economy.TotalDays >= 1 }},

	// market
	{ID: "market_1", Name: "First Acquisition", Description: "Buy a group member for the first time.",
		RewardPoints: 20, RewardTitle: "Owner",
		Check: func(s Snapshot) bool { return s.Market.OwnedMembers >= 1 }},
	{ID: "market_2", Name: "Price of Freedom", Description: "Redeem yourself for the first time.",
		RewardPoints: 10, RewardTitle: "Free Spirit", Kind: Event},
	{ID: "market_3", Name: "Ruthless Capitalist", Description: "Earn 5000 Astral Coins from others' labor.",
		RewardPoints: 100, RewardTitle: "Capitalist",
		Check: func(s Snapshot) bool { return s.Market.TotalWorkRevenue >= 5000 }},
	{ID: "market_4", Name: "Heartless Boss", Description: "Watch your workers fail 10 times.",
		RewardPoints: 30, RewardTitle: "Heartless Boss",
		Check: func(s Snapshot) bool { return s.Market.TotalWorkFailures >= 10 }},

	// luck
	{ID: "luck_1", Name: "Lucky Star", Description: "Draw a 6★ reward for the first time.",
		RewardPoints: 30, RewardTitle: "Lucky Star",
		Check: func(s Snapshot) bool { return s.Economy.HighTierWins >= 1 }},
	{ID: "luck_2", Name: "The Chosen One", Description: "Hit the hidden jackpot.",
		RewardPoints: 111, RewardTitle: "Chosen One", Kind: Event},
	{ID: "luck_3", Name: "Unlucky Soul", Description: "Draw 1★ five times in a row.",
		RewardPoints: 50, RewardTitle: "Chief of Misfortune",
		Check: func(s Snapshot) bool { return s.Economy.Consecutive1Star >= 5 }},

	// fun
	{ID: "fun_2", Name: "Self Amusement", Description: "Try to buy yourself.",
		RewardPoints: 1, Kind: Event},
	{ID: "work_1", Name: "God of Gamblers", Description: "Pull off the vault heist. That takes divine luck.",
		RewardPoints: 88, RewardTitle: "God of Gamblers", Kind: Event},

	// gifts
	{ID: "generous", Name: "Generous Soul", Description: "Gift 500 Astral Coins in total.",
		RewardPoints: 20, RewardTitle: "Good Person",
		Check: func(s Snapshot) bool { return s.Economy.TotalGifted >= 500 }},
	{ID: "big_donor", Name: "Philanthropist", Description: "Gift 10000 Astral Coins in total.",
		RewardPoints: 100, RewardTitle: "Philanthropist",
		Check: func(s Snapshot) bool { return s.Economy.TotalGifted >= 10000 }},
	{ID: "big_gift", Name: "High Roller", Description: "Gift 100 Astral Coins in one go.",
		RewardPoints: 30, Kind: Event},
	{ID: "gift_master", Name: "Gifting Expert", Description: "Send 50 gifts in total.",
		RewardPoints: 50, RewardTitle: "Generous Envoy",
		Check: func(s Snapshot) bool { return s.Economy.GiftCount >= 50 }},
	{ID: "daily_giver", Name: "Daily Good Deed", Description: "Gift coins 7 days in a row.",
		RewardPoints: 77, RewardTitle: "Envoy of Kindness",
		Check: func(s Snapshot) bool { return s.Economy.ConsecutiveGiftDays >= 7 }},

	// adventure
	{ID: "adventure_beginner", Name: "First Adventure", Description: "Finish your first adventure.",
		RewardPoints: 20, RewardTitle: "Novice Adventurer",
		Check: func(s Snapshot) bool { return s.Economy.AdventureCount >= 1 }},
	{ID: "adventure_master", Name: "Ever Onward", Description: "Run 100 adventure turns in total.",
		RewardPoints: 100, RewardTitle: "Veteran Adventurer",
		Check: func(s Snapshot) bool { return s.Economy.AdventureCount >= 100 }},
	{ID: "adventure_king", Name: "Adventure King", Description: "Earn the recognition of the Creator.",
		RewardPoints: 200, RewardTitle: "Adventure King", Kind: Event},

	// social
	{ID: "social_date_beginner", Name: "First Date", Description: "Go on your first date.",
		RewardPoints: 30, RewardTitle: "Dating Expert", Kind: Event},
	{ID: "social_master", Name: "Social Butterfly", Description: "Reach favorability 50 with 5 different users.",
		RewardPoints: 50, RewardTitle: "Charming", Kind: Event},
	{ID: "social_patron", Name: "Sugar Daddy", Description: "Seal a patron arrangement for the first time.",
		RewardPoints: 100, RewardTitle: "Patron", Kind: Event},
}

// Rules returns the full table.
func Rules() []Rule {
	return rules
}

// Find returns the rule with the given ID.
func Find(id string) (Rule, bool) {
	for _, r := range rules {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}
