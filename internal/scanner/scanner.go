// Package scanner discovers input images beneath a source root.
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Scanner walks a source tree collecting image files by extension while
// skipping designated output subtrees.
type Scanner struct {
	exclude    map[string]struct{}
	extensions map[string]struct{}
}

// New builds a Scanner. excludeDirs are directory base names skipped at any
// depth (the optimized-output subtree); extensions is the case-insensitive
// allow-list, each entry with a leading dot.
func New(excludeDirs []string, extensions []string) *Scanner {
	s := &Scanner{
		exclude:    make(map[string]struct{}, len(excludeDirs)),
		extensions: make(map[string]struct{}, len(extensions)),
	}
	for _, dir := range excludeDirs {
		if dir = strings.TrimSpace(dir); dir != "" {
			s.exclude[dir] = struct{}{}
		}
	}
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		s.extensions[ext] = struct{}{}
	}
	return s
}

// Scan returns the absolute paths of all matching files under root, in
// unspecified order. A missing root yields an empty result and no error;
// any other I/O failure propagates.
//
// The walk uses an explicit worklist instead of recursion so deeply nested
// asset trees cannot exhaust the stack.
func (s *Scanner) Scan(root string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve scan root: %w", err)
	}

	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat scan root: %w", err)
	}

	var found []string
	pending := []string{root}
	for len(pending) > 0 {
		dir := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("read directory %q: %w", dir, err)
		}
		for _, entry := range entries {
			name := entry.Name()
			path := filepath.Join(dir, name)
			if entry.IsDir() {
				if _, skip := s.exclude[name]; skip {
					continue
				}
				pending = append(pending, path)
				continue
			}
			ext := strings.ToLower(filepath.Ext(name))
			if _, ok := s.extensions[ext]; ok {
				found = append(found, path)
			}
		}
	}
	return found, nil
}
