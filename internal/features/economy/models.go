// Package economy owns the per-user ledger: Astral Coins, stamina,
// sign-in streaks, lottery counters, gift bookkeeping, buffs, unlocked
// achievements. Every other feature reads and mutates its state through
// this package.
package economy

// Buff is a one-shot consumable effect granted by shop items or
// adventure events. The set is closed: unknown buff strings never enter
// the ledger.
type Buff string

const (
	// BuffWorkGuarantee makes the next work attempt succeed
	// (high-risk jobs excluded).
	BuffWorkGuarantee Buff = "work_guarantee_success"
	// BuffWorkNoPenalty waives the failure penalty on the next work attempt.
	BuffWorkNoPenalty Buff = "work_no_penalty"
	// BuffWorkRewardBoost boosts the next successful work reward by 1%-50%.
	BuffWorkRewardBoost Buff = "work_reward_boost"
	// BuffLotteryMinThreeStar guarantees the next draw lands on 3★ or better.
	BuffLotteryMinThreeStar Buff = "lottery_min_3star"
	// BuffLotteryDouble doubles the next lottery coin reward.
	BuffLotteryDouble Buff = "lottery_double_reward"
	// BuffLotteryBestOfTwo runs the next draw twice and keeps the higher tier.
	BuffLotteryBestOfTwo Buff = "lottery_best_of_two"
	// BuffAdventureNegateCrisis cancels the next crisis event wholesale.
	BuffAdventureNegateCrisis Buff = "adventure_negate_crisis"
	// BuffAdventureRareBoost shifts the next draw's no-event mass onto
	// rare encounters.
	BuffAdventureRareBoost Buff = "adventure_rare_boost"
)

// BuffName returns the display name for a buff.
func BuffName(b Buff) string {
	switch b {
	case BuffWorkGuarantee:
		return "Bento (next work guaranteed)"
	case BuffWorkNoPenalty:
		return "Guardian Charm (no work penalty)"
	case BuffWorkRewardBoost:
		return "Energy Drink (work reward boost)"
	case BuffLotteryMinThreeStar:
		return "Luck Potion (3★ or better)"
	case BuffLotteryDouble:
		return "Four-Leaf Clover (double lottery reward)"
	case BuffLotteryBestOfTwo:
		return "Selection Voucher (best of two draws)"
	case BuffAdventureNegateCrisis:
		return "Explorer's Amulet (crisis negated)"
	case BuffAdventureRareBoost:
		return "Encounter Beacon (rare encounter boost)"
	}
	return string(b)
}

// Default stamina values for a fresh record.
const (
	DefaultStamina    = 100
	DefaultMaxStamina = 160
)

// Record is the full per-user economy state inside one group.
type Record struct {
	Points     float64 `yaml:"points"`
	Stamina    int     `yaml:"stamina"`
	MaxStamina int     `yaml:"max_stamina"`

	// sign-in
	LastSign   string `yaml:"last_sign,omitempty"`
	StreakDays int    `yaml:"streak_days,omitempty"`
	TotalDays  int    `yaml:"total_days,omitempty"`

	// lottery
	LotteryDate      string `yaml:"lottery_date,omitempty"`
	LotteryCount     int    `yaml:"lottery_count,omitempty"`
	HighTierWins     int    `yaml:"high_tier_wins,omitempty"`
	Consecutive1Star int    `yaml:"consecutive_1star,omitempty"`

	// gifts of currency
	TotalGifted         float64 `yaml:"total_gifted,omitempty"`
	GiftCount           int     `yaml:"gift_count,omitempty"`
	LastGiftDate        string  `yaml:"last_gift_date,omitempty"`
	ConsecutiveGiftDays int     `yaml:"consecutive_gift_days,omitempty"`

	// adventure
	AdventureCount    int    `yaml:"adventure_count,omitempty"`
	LastAdventureDate string `yaml:"last_adventure_date,omitempty"`

	// social
	DateCount int `yaml:"date_count,omitempty"`

	Buffs map[Buff]int `yaml:"buffs,omitempty"`

	Achievements []string `yaml:"achievements,omitempty"`
	CurrentTitle string   `yaml:"current_title,omitempty"`
}

// applyDefaults fills the fields a zero-value record must not keep at
// zero. Called on every read so records written by older versions stay
// usable.
func (r *Record) applyDefaults() {
	if r.MaxStamina == 0 {
		r.MaxStamina = DefaultMaxStamina
		r.Stamina = DefaultStamina
	}
}

// GrantBuff adds one charge of the buff. Charges stack; each use of the
// matching item adds another. Returns the new count.
func (r *Record) GrantBuff(b Buff) int {
	if r.Buffs == nil {
		r.Buffs = make(map[Buff]int)
	}
	r.Buffs[b]++
	return r.Buffs[b]
}

// HasBuff reports whether the buff is pending.
func (r *Record) HasBuff(b Buff) bool {
	return r.Buffs[b] > 0
}

// ConsumeBuff decrements the buff and prunes it from the ledger.
// Returns whether the buff was actually held.
func (r *Record) ConsumeBuff(b Buff) bool {
	if r.Buffs[b] <= 0 {
		return false
	}
	r.Buffs[b]--
	if r.Buffs[b] <= 0 {
		delete(r.Buffs, b)
	}
	return true
}

// clone returns a deep copy safe to hand out of the repository lock.
func (r *Record) clone() Record {
	out := *r
	if r.Buffs != nil {
		out.Buffs = make(map[Buff]int, len(r.Buffs))
		for b, n := range r.Buffs {
			out.Buffs[b] = n
		}
	}
	if r.Achievements != nil {
		out.Achievements = append([]string(nil), r.Achievements...)
	}
	return out
}

// HasAchievement reports whether the achievement ID is unlocked.
func (r *Record) HasAchievement(id string) bool {
	for _, a := range r.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// Document is the persisted users ledger: group ID → user ID → record.
// Group 0 is reserved for private-chat interactions.
type Document struct {
	Groups map[int64]map[int64]*Record `yaml:"groups"`
}
