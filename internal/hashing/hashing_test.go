package hashing

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"optipress/internal/services"
)

func TestFileHashStableForSameContent(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.bin")
	b := filepath.Join(dir, "sub", "b.bin")
	if err := os.MkdirAll(filepath.Dir(b), 0o755); err != nil {
		t.Fatal(err)
	}

	content := []byte("identical pixels")
	for _, path := range []string{a, b} {
		if err := os.WriteFile(path, content, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	hashA, err := FileHash(a)
	if err != nil {
		t.Fatal(err)
	}
	hashB, err := FileHash(b)
	if err != nil {
		t.Fatal(err)
	}
	if hashA != hashB {
		t.Fatalf("same content must hash identically: %q vs %q", hashA, hashB)
	}
	if len(hashA) != 64 {
		t.Fatalf("expected 32-byte hex digest, got %d chars", len(hashA))
	}
}

func TestFileHashChangesWithContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.png")

	if err := os.WriteFile(path, []byte("before"), 0o644); err != nil {
		t.Fatal(err)
	}
	before, err := FileHash(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("after"), 0o644); err != nil {
		t.Fatal(err)
	}
	after, err := FileHash(path)
	if err != nil {
		t.Fatal(err)
	}

	if before == after {
		t.Fatal("digest must change when content changes")
	}
}

func TestFileHashMissingFileIsUnreadable(t *testing.T) {
	_, err := FileHash(filepath.Join(t.TempDir(), "absent.jpg"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, services.ErrUnreadable) {
		t.Fatalf("expected unreadable marker, got %v", err)
	}
}
