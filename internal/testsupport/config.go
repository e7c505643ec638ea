// Package testsupport provides fixtures shared across pipeline tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"optipress/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with a unique temp source tree per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.SourceDir = filepath.Join(base, "Images")
	cfg.Paths.ManifestPath = filepath.Join(cfg.Paths.SourceDir, "image-manifest.json")
	cfg.Paths.CachePath = filepath.Join(cfg.Paths.SourceDir, ".optimize-cache.json")
	cfg.Optimize.Concurrency = 2

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithBaseURL sets the delivery base URL on the test config.
func WithBaseURL(url string) ConfigOption {
	return func(c *config.Config) {
		c.Delivery.BaseURL = url
	}
}

// WithRemoveSource enables destructive source cleanup on the test config.
func WithRemoveSource() ConfigOption {
	return func(c *config.Config) {
		c.Optimize.RemoveSource = true
	}
}

// WithSecondaryManifest sets the secondary manifest copy target.
func WithSecondaryManifest(path string) ConfigOption {
	return func(c *config.Config) {
		c.Paths.SecondaryManifest = path
	}
}
