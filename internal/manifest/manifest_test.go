package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"optipress/internal/logging"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "image-manifest.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenMissingFileStartsEmpty(t *testing.T) {
	m := Open(filepath.Join(t.TempDir(), "image-manifest.json"), "", logging.NewNop())
	if m.Len() != 0 {
		t.Fatalf("expected empty manifest, got %d entries", m.Len())
	}
}

func TestOpenCurrentSchemaKeepsStrings(t *testing.T) {
	path := writeManifest(t, `{"hero": "https://cdn.example.com/hero.webp"}`)
	m := Open(path, "", logging.NewNop())

	url, found := m.URL("hero")
	if !found {
		t.Fatal("expected hero entry")
	}
	if url != "https://cdn.example.com/hero.webp" {
		t.Fatalf("unexpected url: %q", url)
	}
}

func TestOpenMigratesLegacyObjectEntries(t *testing.T) {
	path := writeManifest(t, `{
		"both": {"webp": "w.webp", "avif": "a.avif"},
		"avif_only": {"avif": "a.avif"},
		"generic": {"url": "g.webp"},
		"empty": {}
	}`)
	m := Open(path, "", logging.NewNop())

	cases := map[string]string{
		"both":      "w.webp",
		"avif_only": "a.avif",
		"generic":   "g.webp",
		"empty":     "",
	}
	for key, want := range cases {
		got, found := m.URL(key)
		if !found {
			t.Fatalf("expected entry for %q", key)
		}
		if got != want {
			t.Fatalf("%s: got %q, want %q", key, got, want)
		}
	}
}

func TestOpenRewritesPlaceholderPrefix(t *testing.T) {
	path := writeManifest(t,
		`{"hero": "`+LegacyPlaceholderBaseURL+`/sub/hero.webp", "other": "Images/optimized/other.webp"}`)
	m := Open(path, "https://cdn.example.com/assets", logging.NewNop())

	url, _ := m.URL("hero")
	if url != "https://cdn.example.com/assets/sub/hero.webp" {
		t.Fatalf("placeholder prefix not rewritten: %q", url)
	}
	other, _ := m.URL("other")
	if other != "Images/optimized/other.webp" {
		t.Fatalf("non-placeholder entry must be untouched: %q", other)
	}
}

func TestOpenWithoutBaseURLKeepsPlaceholder(t *testing.T) {
	path := writeManifest(t, `{"hero": "`+LegacyPlaceholderBaseURL+`/hero.webp"}`)
	m := Open(path, "", logging.NewNop())

	url, _ := m.URL("hero")
	if !strings.HasPrefix(url, LegacyPlaceholderBaseURL) {
		t.Fatalf("placeholder must survive until a base URL is known: %q", url)
	}
}

func TestSetOverlaysMigratedEntries(t *testing.T) {
	path := writeManifest(t, `{"hero": {"webp": "old.webp"}}`)
	m := Open(path, "", logging.NewNop())

	m.Set("hero", "new.webp")
	url, _ := m.URL("hero")
	if url != "new.webp" {
		t.Fatalf("new result must win over migrated entry, got %q", url)
	}
}

func TestSaveEmitsSortedValidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image-manifest.json")
	m := Open(path, "", logging.NewNop())
	m.Set("zeta", "z.webp")
	m.Set("alpha", "a.webp")
	m.Set("kilo_sub", "k.webp")
	if err := m.Save(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var parsed map[string]string
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("saved manifest is not valid JSON: %v\n%s", err, data)
	}
	if len(parsed) != 3 {
		t.Fatalf("expected 3 entries, got %v", parsed)
	}

	text := string(data)
	if strings.Index(text, `"alpha"`) > strings.Index(text, `"kilo_sub"`) ||
		strings.Index(text, `"kilo_sub"`) > strings.Index(text, `"zeta"`) {
		t.Fatalf("keys not in sorted order:\n%s", text)
	}
}

func TestSaveRoundTripIsStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image-manifest.json")
	m := Open(path, "", logging.NewNop())
	m.Set("a_b", "Images/optimized/a/b.webp")
	if err := m.Save(); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	reopened := Open(path, "", logging.NewNop())
	if err := reopened.Save(); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(first) != string(second) {
		t.Fatalf("load/save must be idempotent:\n%s\nvs\n%s", first, second)
	}
}

func TestStaleEntriesSurviveMerge(t *testing.T) {
	path := writeManifest(t, `{"deleted_source": "Images/optimized/deleted.webp"}`)
	m := Open(path, "", logging.NewNop())
	m.Set("fresh", "Images/optimized/fresh.webp")
	if err := m.Save(); err != nil {
		t.Fatal(err)
	}

	reopened := Open(path, "", logging.NewNop())
	if _, found := reopened.URL("deleted_source"); !found {
		t.Fatal("stale entries must persist; the pipeline never prunes")
	}
}
