package store

import (
	"os"
	"path/filepath"
	"testing"
)

type testDoc struct {
	Users map[int64]map[int64]int `yaml:"users"`
	Note  string                  `yaml:"note"`
}

func TestLoadMissingFileReturnsZero(t *testing.T) {
	f := NewFile[testDoc](filepath.Join(t.TempDir(), "nope.yaml"))
	doc, err := f.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.Users != nil || doc.Note != "" {
		t.Errorf("expected zero document, got %+v", doc)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	f := NewFile[testDoc](filepath.Join(t.TempDir(), "data", "doc.yaml"))
	in := testDoc{
		Users: map[int64]map[int64]int{
			1001: {42: 7, 43: 0},
		},
		Note: "hello",
	}
	if err := f.Save(in); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	out, err := f.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if out.Note != "hello" {
		t.Errorf("Note = %q, want %q", out.Note, "hello")
	}
	if out.Users[1001][42] != 7 {
		t.Errorf("Users[1001][42] = %d, want 7", out.Users[1001][42])
	}
	if v, ok := out.Users[1001][43]; !ok || v != 0 {
		t.Errorf("Users[1001][43] = %d (present %v), want 0 present", v, ok)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	f := NewFile[testDoc](filepath.Join(dir, "doc.yaml"))
	if err := f.Save(testDoc{Note: "x"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "doc.yaml" {
		t.Errorf("unexpected directory contents: %v", entries)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	if err := os.WriteFile(path, []byte("users: [not: a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFile[testDoc](path).Load(); err == nil {
		t.Error("expected parse error for corrupt file")
	}
}
