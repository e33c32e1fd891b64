// Package social — thanks.go detects thank-you replies and turns them
// into small favorability bumps.
package social

import (
	"context"
	"strings"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/common"
)

// IsThankYou reports whether the text is a plain thank-you. Case does
// not matter; trailing punctuation is tolerated.
func IsThankYou(text string) bool {
	cleaned := strings.ToLower(strings.TrimSpace(text))
	cleaned = strings.TrimRight(cleaned, "!.,;:)~")
	switch cleaned {
	case "thanks", "thank you", "thx", "ty":
		return true
	}
	return false
}

// Thank bumps the thanked member's favorability toward the thanker by
// one point. One bump per pair per day, and the 100 barrier applies.
// Returns the new favorability.
func (s *Service) Thank(ctx context.Context, group, from, to int64) (int, error) {
	if from == to {
		return 0, common.ErrSelfTarget
	}

	var after int
	var opErr error
	err := s.repo.UpdateGraph(group, func(get func(int64) *Record) {
		f, t := get(from), get(to)
		today := common.Today()
		if f.ThanksGiven[to] == today {
			opErr = common.ErrAlreadyThanked
			return
		}
		if _, related := t.relationWith(from); t.Favor[from] >= 100 && !related {
			opErr = common.ErrFavorCapped
			return
		}

		if f.ThanksGiven == nil {
			f.ThanksGiven = make(map[int64]string)
		}
		f.ThanksGiven[to] = today
		if t.Favor == nil {
			t.Favor = make(map[int64]int)
		}
		t.Favor[from]++
		after = t.Favor[from]
	})
	if err != nil {
		return 0, err
	}
	if opErr != nil {
		return 0, opErr
	}
	return after, nil
}
