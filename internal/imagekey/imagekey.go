// Package imagekey derives flat logical keys from image paths.
//
// A key identifies an image across runs and output formats: the path relative
// to the scan root, extension stripped, separators replaced with underscores.
// Two sources that differ only by extension at the same relative stem share a
// key intentionally; the pipeline warns and lets the last writer win.
package imagekey

import (
	"path/filepath"
	"strings"
)

// Derive maps a path under baseDir to its logical key. Pure; any path that
// cannot be made relative falls back to its own separator-normalized form.
func Derive(path, baseDir string) string {
	rel, err := filepath.Rel(baseDir, path)
	if err != nil {
		rel = path
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	rel = strings.ReplaceAll(rel, "\\", "/")
	return strings.ReplaceAll(rel, "/", "_")
}
