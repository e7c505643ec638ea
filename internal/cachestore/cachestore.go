// Package cachestore persists the content-hash cache between runs.
//
// The cache maps logical image keys to the last-seen content hash and the
// time the image was processed. It is the incremental half of the pipeline's
// state: a matching hash (together with a surviving manifest entry) lets a
// run skip re-encoding an unchanged image.
package cachestore

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"optipress/internal/fileutil"
	"optipress/internal/logging"
	"optipress/internal/services"
)

// Entry records what a run knew about one image when it was processed.
type Entry struct {
	Hash        string    `json:"hash"`
	ProcessedAt time.Time `json:"processed_at"`
}

// Store provides thread-safe access to the cache file.
type Store struct {
	path    string
	logger  *slog.Logger
	mu      sync.RWMutex
	entries map[string]Entry
}

// Open reads the cache at path into memory. A missing or empty file yields an
// empty cache; a corrupt file is treated the same after a warning, since the
// cache is reconstructible (the cost is one full re-optimization pass).
func Open(path string, logger *slog.Logger) *Store {
	logger = logging.NewComponentLogger(logger, "cachestore")
	s := &Store{
		path:    path,
		logger:  logger,
		entries: make(map[string]Entry),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("failed to read cache file; starting empty",
				logging.String(logging.FieldPath, path),
				logging.Error(err))
		}
		return s
	}
	if len(data) == 0 {
		return s
	}

	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.Warn("failed to parse cache file; starting empty",
			logging.String(logging.FieldPath, path),
			logging.Error(err))
		return s
	}
	for key, entry := range entries {
		if strings.TrimSpace(key) != "" {
			s.entries[key] = entry
		}
	}

	s.logger.Debug("loaded cache",
		logging.Int("entry_count", len(s.entries)),
		logging.String(logging.FieldPath, path))
	return s
}

// Lookup returns the cache entry for a key if present.
func (s *Store) Lookup(key string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, found := s.entries[key]
	return entry, found
}

// Put records a freshly processed image.
func (s *Store) Put(key, hash string, processedAt time.Time) {
	if strings.TrimSpace(key) == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = Entry{Hash: hash, ProcessedAt: processedAt}
}

// Len returns the number of cached entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Save writes the cache atomically with keys in sorted order (json.Marshal
// emits map keys sorted, which keeps diffs deterministic).
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrPersistence, "cache", "encode", s.path, err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(s.path, data); err != nil {
		return services.Wrap(services.ErrPersistence, "cache", "write", s.path, err)
	}

	s.logger.Debug("saved cache",
		logging.Int("entry_count", len(s.entries)),
		logging.String(logging.FieldPath, s.path))
	return nil
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}
