package weighted

import (
	"math/rand"
	"testing"
)

func TestPickEmpty(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	if _, err := Pick(r, []Choice[string]{}); err != ErrNoWeight {
		t.Errorf("Pick(empty) error = %v, want ErrNoWeight", err)
	}
}

func TestPickAllZeroWeights(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	choices := []Choice[string]{{"a", 0}, {"b", 0}}
	if _, err := Pick(r, choices); err != ErrNoWeight {
		t.Errorf("Pick(zero weights) error = %v, want ErrNoWeight", err)
	}
}

func TestPickSingle(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	choices := []Choice[string]{{"only", 5}}
	for i := 0; i < 10; i++ {
		v, err := Pick(r, choices)
		if err != nil {
			t.Fatalf("Pick() error = %v", err)
		}
		if v != "only" {
			t.Fatalf("Pick() = %q, want %q", v, "only")
		}
	}
}

func TestPickSkipsZeroWeight(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	choices := []Choice[string]{{"never", 0}, {"always", 1}}
	for i := 0; i < 100; i++ {
		v, err := Pick(r, choices)
		if err != nil {
			t.Fatalf("Pick() error = %v", err)
		}
		if v == "never" {
			t.Fatal("picked a zero-weight choice")
		}
	}
}

func TestPickDistribution(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	choices := []Choice[string]{{"heavy", 90}, {"light", 10}}

	counts := map[string]int{}
	const n = 10000
	for i := 0; i < n; i++ {
		v, err := Pick(r, choices)
		if err != nil {
			t.Fatalf("Pick() error = %v", err)
		}
		counts[v]++
	}

	// heavy should land near 90%, allow generous slack
	if counts["heavy"] < n*80/100 || counts["heavy"] > n*97/100 {
		t.Errorf("heavy picked %d of %d, expected around 90%%", counts["heavy"], n)
	}
}

func TestSampleDistinct(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	choices := []Choice[int]{{1, 10}, {2, 10}, {3, 10}, {4, 10}, {5, 10}}

	got := Sample(r, choices, 3)
	if len(got) != 3 {
		t.Fatalf("Sample() returned %d values, want 3", len(got))
	}
	seen := map[int]bool{}
	for _, v := range got {
		if seen[v] {
			t.Fatalf("Sample() returned duplicate %d", v)
		}
		seen[v] = true
	}
}

func TestSampleMoreThanAvailable(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	choices := []Choice[int]{{1, 10}, {2, 0}, {3, 10}}
	got := Sample(r, choices, 5)
	if len(got) != 2 {
		t.Errorf("Sample() returned %d values, want 2 (only positive weights)", len(got))
	}
}
