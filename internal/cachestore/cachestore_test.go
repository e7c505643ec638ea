package cachestore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"optipress/internal/logging"
)

func TestOpenMissingFileStartsEmpty(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "cache.json"), logging.NewNop())
	if s.Len() != 0 {
		t.Fatalf("expected empty cache, got %d entries", s.Len())
	}
	if _, found := s.Lookup("anything"); found {
		t.Fatal("unexpected entry in fresh cache")
	}
}

func TestPutSaveOpenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	now := time.Now().UTC().Truncate(time.Second)

	s := Open(path, logging.NewNop())
	s.Put("a_b_c", "hash-1", now)
	s.Put("hero", "hash-2", now)
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}

	reopened := Open(path, logging.NewNop())
	if reopened.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", reopened.Len())
	}
	entry, found := reopened.Lookup("a_b_c")
	if !found {
		t.Fatal("expected entry for a_b_c")
	}
	if entry.Hash != "hash-1" {
		t.Fatalf("unexpected hash: %q", entry.Hash)
	}
	if !entry.ProcessedAt.Equal(now) {
		t.Fatalf("unexpected timestamp: %v want %v", entry.ProcessedAt, now)
	}
}

func TestOpenCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := Open(path, logging.NewNop())
	if s.Len() != 0 {
		t.Fatalf("corrupt cache must be treated as empty, got %d entries", s.Len())
	}
}

func TestSaveEmitsSortedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	s := Open(path, logging.NewNop())
	now := time.Now()
	s.Put("zebra", "h", now)
	s.Put("alpha", "h", now)
	s.Put("mid", "h", now)
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if strings.Index(text, `"alpha"`) > strings.Index(text, `"mid"`) ||
		strings.Index(text, `"mid"`) > strings.Index(text, `"zebra"`) {
		t.Fatalf("keys not sorted in output:\n%s", text)
	}
}

func TestPutIgnoresEmptyKey(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "cache.json"), logging.NewNop())
	s.Put("  ", "h", time.Now())
	if s.Len() != 0 {
		t.Fatal("blank keys must be ignored")
	}
}
