// Package common contains shared utilities used across the project:
// bot-local time, date arithmetic for streaks, number formatting.
package common

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the canonical layout for persisted day stamps.
// All daily counters (sign-in, lottery, purchases, dates) compare
// against this format, never against raw time.Time values.
const DateLayout = "2006-01-02"

// location is the timezone all daily resets are computed in.
// Defaults to the host timezone, overridden from config at startup.
var location = time.Local

// SetLocation sets the bot timezone. Called once from app wiring.
func SetLocation(loc *time.Location) {
	if loc != nil {
		location = loc
	}
}

// BotTime returns the current time in the bot timezone.
func BotTime() time.Time {
	return time.Now().In(location)
}

// Today returns the current date stamp, e.g. "2026-08-28".
func Today() string {
	return BotTime().Format(DateLayout)
}

// Yesterday returns yesterday's date stamp.
func Yesterday() string {
	return BotTime().AddDate(0, 0, -1).Format(DateLayout)
}

// DaysBetween returns the whole number of days from one date stamp to
// another. Unparseable or empty stamps count as "very long ago" so a
// missing last_sign never blocks a fresh streak.
//
// Examples:
//
//	DaysBetween("2026-08-27", "2026-08-28") → 1
//	DaysBetween("2026-08-28", "2026-08-28") → 0
//	DaysBetween("", "2026-08-28")           → a large positive number
func DaysBetween(from, to string) int {
	a, err := time.Parse(DateLayout, from)
	if err != nil {
		return 1 << 20
	}
	b, err := time.Parse(DateLayout, to)
	if err != nil {
		return 1 << 20
	}
	return int(b.Sub(a).Hours() / 24)
}

// FormatPoints formats a coin amount for chat output. Balances are
// float64 internally because work-reward boosts multiply by fractions,
// but whole amounts print without a decimal part.
// Example: FormatPoints(150) → "150 Astral Coins"
func FormatPoints(n float64) string {
	if n == math.Trunc(n) {
		return fmt.Sprintf("%.0f Astral Coins", n)
	}
	return fmt.Sprintf("%.1f Astral Coins", n)
}

// Plural picks the singular or plural form for n.
func Plural[T int | int64](n T, one, many string) string {
	if n == 1 || n == -1 {
		return one
	}
	return many
}

// FormatDateTime formats a timestamp for chat output in the bot timezone.
func FormatDateTime(t time.Time) string {
	return t.In(location).Format("2006-01-02 15:04")
}
