// Package manifest persists the mapping from logical image keys to delivery
// URLs, the pipeline's primary output artifact.
//
// Two schemas exist on disk. The current schema stores one URL string per
// key. Early manifests stored an object per key with format-specific fields
// ({"webp": ..., "avif": ...}) or a generic "url" field; Open normalizes
// those to the current schema on every run, so a manifest written years ago
// still merges cleanly. Keys are emitted in collated order for deterministic
// diffs.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"optipress/internal/fileutil"
	"optipress/internal/logging"
	"optipress/internal/services"
)

// LegacyPlaceholderBaseURL is the stand-in prefix older runs wrote before a
// CDN base URL was configured. Open rewrites it to the configured base URL so
// historical manifests heal retroactively.
const LegacyPlaceholderBaseURL = "https://cdn-placeholder.invalid"

// legacyEntry is the historic per-format object schema.
type legacyEntry struct {
	WebP string `json:"webp"`
	AVIF string `json:"avif"`
	URL  string `json:"url"`
}

// Manifest provides thread-safe access to the manifest file.
type Manifest struct {
	path    string
	logger  *slog.Logger
	mu      sync.RWMutex
	entries map[string]string
}

// Open reads and normalizes the manifest at path. Missing, empty, and corrupt
// files all yield an empty manifest (corruption costs a rebuild, not a run).
// When baseURL is non-empty, legacy placeholder prefixes are rewritten to it.
func Open(path, baseURL string, logger *slog.Logger) *Manifest {
	logger = logging.NewComponentLogger(logger, "manifest")
	m := &Manifest{
		path:    path,
		logger:  logger,
		entries: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("failed to read manifest; starting empty",
				logging.String(logging.FieldPath, path),
				logging.Error(err))
		}
		return m
	}
	if len(data) == 0 {
		return m
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn("failed to parse manifest; starting empty",
			logging.String(logging.FieldPath, path),
			logging.Error(err))
		return m
	}

	migrated := 0
	for key, value := range raw {
		if strings.TrimSpace(key) == "" {
			continue
		}
		url, wasLegacy := normalizeValue(value)
		if wasLegacy {
			migrated++
		}
		if baseURL != "" && strings.HasPrefix(url, LegacyPlaceholderBaseURL) {
			url = baseURL + strings.TrimPrefix(url, LegacyPlaceholderBaseURL)
			migrated++
		}
		m.entries[key] = url
	}

	if migrated > 0 {
		logger.Info("migrated legacy manifest entries",
			logging.Int("migrated", migrated),
			logging.String(logging.FieldPath, path))
	}
	return m
}

// normalizeValue reduces a stored manifest value to a single URL string.
// Legacy object entries prefer webp, then avif, then the generic url field.
func normalizeValue(value json.RawMessage) (string, bool) {
	var url string
	if err := json.Unmarshal(value, &url); err == nil {
		return url, false
	}

	var legacy legacyEntry
	if err := json.Unmarshal(value, &legacy); err != nil {
		return "", true
	}
	switch {
	case legacy.WebP != "":
		return legacy.WebP, true
	case legacy.AVIF != "":
		return legacy.AVIF, true
	default:
		return legacy.URL, true
	}
}

// URL returns the entry for a key if present.
func (m *Manifest) URL(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	url, found := m.entries[key]
	return url, found
}

// Set overlays a freshly produced entry. New results take precedence over
// migrated prior entries for the same key.
func (m *Manifest) Set(key, url string) {
	if strings.TrimSpace(key) == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = url
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Keys returns all keys in collated order.
func (m *Manifest) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedKeysLocked()
}

func (m *Manifest) sortedKeysLocked() []string {
	keys := make([]string, 0, len(m.entries))
	for key := range m.entries {
		keys = append(keys, key)
	}
	collate.New(language.Und).SortStrings(keys)
	return keys
}

// Save writes the manifest atomically with keys in collated order.
func (m *Manifest) Save() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var buf bytes.Buffer
	buf.WriteString("{")
	for i, key := range m.sortedKeysLocked() {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return services.Wrap(services.ErrPersistence, "manifest", "encode key", key, err)
		}
		valueJSON, err := json.Marshal(m.entries[key])
		if err != nil {
			return services.Wrap(services.ErrPersistence, "manifest", "encode value", key, err)
		}
		buf.Write(keyJSON)
		buf.WriteString(": ")
		buf.Write(valueJSON)
	}
	if len(m.entries) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")

	if err := fileutil.WriteFileAtomic(m.path, buf.Bytes()); err != nil {
		return services.Wrap(services.ErrPersistence, "manifest", "write", m.path, err)
	}

	m.logger.Debug("saved manifest",
		logging.Int("entry_count", len(m.entries)),
		logging.String(logging.FieldPath, m.path))
	return nil
}

// Path returns the backing file location.
func (m *Manifest) Path() string {
	return m.path
}
