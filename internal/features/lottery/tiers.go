// Package lottery implements the daily luck draw: a 1-111 roll mapped
// onto seven tiers, tier-dependent coin rewards and the one-shot buffs
// that reshape a single draw.
package lottery

// Tier is a draw outcome rank. Higher is better; the hidden jackpot
// outranks every star tier.
type Tier int

const (
	TierOneStar Tier = iota + 1
	TierTwoStar
	TierThreeStar
	TierFourStar
	TierFiveStar
	TierSixStar
	TierJackpot
)

// tierDef maps a tier onto its roll range and reward range. The reward
// is drawn uniformly from [RewardMin, RewardMax]; the jackpot pays a
// fixed amount.
type tierDef struct {
	Tier      Tier
	Name      string
	RollMin   int
	RollMax   int
	RewardMin int64
	RewardMax int64
	Text      string
}

// The roll space is 1-111: 110 numbers across the six star tiers plus
// the single hidden jackpot number.
var tiers = []tierDef{
	{TierSixStar, "6★", 1, 10, 20, 25,
		"Six-star fortune, exceedingly rare. Today favors bold moves."},
	{TierFiveStar, "5★", 11, 30, 15, 20,
		"Five-star fortune. The tide is with you, seize the moment."},
	{TierFourStar, "4★", 31, 50, 10, 15,
		"Four-star fortune. A smooth day for steady progress."},
	{TierThreeStar, "3★", 51, 70, 5, 10,
		"Three-star fortune. An ordinary day, keep your routine."},
	{TierTwoStar, "2★", 71, 90, 1, 5,
		"Two-star fortune. Minor setbacks ahead, stay calm."},
	{TierOneStar, "1★", 91, 110, 0, 0,
		"One-star fortune. A rough day, keep your head down."},
	{TierJackpot, "Hidden", 111, 111, 50, 50,
		"You hit the hidden fortune, a near-impossible event! Expect a pleasant surprise today."},
}

// tierForRoll resolves a 1-111 roll to its tier definition.
func tierForRoll(roll int) tierDef {
	for _, d := range tiers {
		if roll >= d.RollMin && roll <= d.RollMax {
			return d
		}
	}
	// unreachable for rolls in range; keep the lowest tier as a floor
	return tiers[5]
}

// tierDefFor returns the definition for a tier.
func tierDefFor(t Tier) tierDef {
	for _, d := range tiers {
		if d.Tier == t {
			return d
		}
	}
	return tiers[5]
}

// TierName returns the display name of a tier.
func TierName(t Tier) string {
	return tierDefFor(t).Name
}
