// Package weighted implements weighted random selection over small
// in-memory tables. Adventure categories, lottery tiers and date events
// all draw through here with an injected rand source, which keeps the
// outcome tables testable.
package weighted

import "errors"

// ErrNoWeight is returned when every choice has zero weight.
var ErrNoWeight = errors.New("weighted: total weight is zero")

// Source is the randomness a pick needs. Both *rand.Rand and
// common.Rand satisfy it.
type Source interface {
	Intn(n int) int
}

// Choice pairs a value with its selection weight.
type Choice[T any] struct {
	Value  T
	Weight int
}

// Pick selects one value proportionally to its weight.
// Choices with non-positive weight are never selected.
func Pick[T any](r Source, choices []Choice[T]) (T, error) {
	var zero T
	total := 0
	for _, c := range choices {
		if c.Weight > 0 {
			total += c.Weight
		}
	}
	if total <= 0 {
		return zero, ErrNoWeight
	}

	n := r.Intn(total)
	for _, c := range choices {
		if c.Weight <= 0 {
			continue
		}
		if n < c.Weight {
			return c.Value, nil
		}
		n -= c.Weight
	}
	return zero, ErrNoWeight
}

// Sample picks k distinct values by repeated weighted draws without
// replacement. If fewer than k choices have positive weight, all of
// them are returned.
func Sample[T any](r Source, choices []Choice[T], k int) []T {
	pool := make([]Choice[T], 0, len(choices))
	for _, c := range choices {
		if c.Weight > 0 {
			pool = append(pool, c)
		}
	}

	out := make([]T, 0, k)
	for len(out) < k && len(pool) > 0 {
		total := 0
		for _, c := range pool {
			total += c.Weight
		}
		n := r.Intn(total)
		for i, c := range pool {
			if n < c.Weight {
				out = append(out, c.Value)
				pool = append(pool[:i], pool[i+1:]...)
				break
			}
			n -= c.Weight
		}
	}
	return out
}
