package members

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	file := store.NewFile[Document](filepath.Join(t.TempDir(), "members.yaml"))
	repo, err := NewRepository(file)
	if err != nil {
		t.Fatal(err)
	}
	return NewService(repo)
}

func TestResolveUsername(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	if err := s.EnsureMember(ctx, 42, "alice", "Alice", "A"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		input  string
		wantID int64
		wantOK bool
	}{
		{"bare username", "alice", 42, true},
		{"with at sign", "@alice", 42, true},
		{"case insensitive", "ALICE", 42, true},
		{"unknown", "bob", 0, false},
		{"empty", "", 0, false},
		{"lone at sign", "@", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := s.ResolveUsername(ctx, tt.input)
			if id != tt.wantID || ok != tt.wantOK {
				t.Errorf("ResolveUsername(%q) = %d, %v, want %d, %v",
					tt.input, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestDisplayNameFallback(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	if got := s.DisplayName(ctx, 999); got != "User999" {
		t.Errorf("DisplayName(unknown) = %q, want User999", got)
	}

	s.EnsureMember(ctx, 1, "bob", "Bob", "")
	if got := s.DisplayName(ctx, 1); got != "Bob" {
		t.Errorf("DisplayName = %q, want Bob", got)
	}

	s.EnsureMember(ctx, 2, "carol", "", "")
	if got := s.DisplayName(ctx, 2); got != "@carol" {
		t.Errorf("DisplayName = %q, want @carol", got)
	}
}

func TestEnsureMemberUpdatesNames(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	s.EnsureMember(ctx, 7, "old", "Old", "")
	s.EnsureMember(ctx, 7, "new", "New", "Name")

	if got := s.DisplayName(ctx, 7); got != "New Name" {
		t.Errorf("DisplayName after update = %q, want %q", got, "New Name")
	}
	if _, ok := s.ResolveUsername(ctx, "old"); ok {
		t.Error("stale username still resolves")
	}
}
