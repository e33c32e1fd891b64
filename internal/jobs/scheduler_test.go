package jobs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/config"
)

func TestCleanupStaleCards(t *testing.T) {
	dir := t.TempDir()
	cards := filepath.Join(dir, "cards")
	if err := os.MkdirAll(cards, 0o755); err != nil {
		t.Fatal(err)
	}

	stale := filepath.Join(cards, "old.png")
	fresh := filepath.Join(cards, "new.png")
	for _, p := range []string{stale, fresh} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	oldTime := time.Now().Add(-8 * 24 * time.Hour)
	if err := os.Chtimes(stale, oldTime, oldTime); err != nil {
		t.Fatal(err)
	}

	s := NewScheduler(&config.Config{
		DataDir:              dir,
		CleanupIntervalHours: 24,
		CleanupMaxAgeDays:    7,
	})
	if err := s.CleanupStaleCards(context.Background()); err != nil {
		t.Fatalf("CleanupStaleCards: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatal("stale card survived the cleanup")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("fresh card was removed: %v", err)
	}
}

func TestCleanupMissingDirectory(t *testing.T) {
	s := NewScheduler(&config.Config{
		DataDir:              filepath.Join(t.TempDir(), "nope"),
		CleanupIntervalHours: 24,
		CleanupMaxAgeDays:    7,
	})
	if err := s.CleanupStaleCards(context.Background()); err != nil {
		t.Fatalf("missing dir should be fine, got %v", err)
	}
}
