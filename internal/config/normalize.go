package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDelivery()
	c.normalizeOptimize()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.SourceDir) == "" {
		c.Paths.SourceDir = defaultSourceDir
	}
	if c.Paths.SourceDir, err = expandPath(c.Paths.SourceDir); err != nil {
		return fmt.Errorf("paths.source_dir: %w", err)
	}

	c.Paths.OutputDirName = strings.Trim(strings.TrimSpace(c.Paths.OutputDirName), "/\\")
	if c.Paths.OutputDirName == "" {
		c.Paths.OutputDirName = defaultOutputDirName
	}

	if strings.TrimSpace(c.Paths.ManifestPath) == "" {
		c.Paths.ManifestPath = filepath.Join(c.Paths.SourceDir, defaultManifestName)
	}
	if c.Paths.ManifestPath, err = expandPath(c.Paths.ManifestPath); err != nil {
		return fmt.Errorf("paths.manifest_path: %w", err)
	}

	if strings.TrimSpace(c.Paths.CachePath) == "" {
		c.Paths.CachePath = filepath.Join(c.Paths.SourceDir, defaultCacheName)
	}
	if c.Paths.CachePath, err = expandPath(c.Paths.CachePath); err != nil {
		return fmt.Errorf("paths.cache_path: %w", err)
	}

	if value, ok := os.LookupEnv("REACT_MANIFEST_OUTPUT"); ok && strings.TrimSpace(value) != "" {
		c.Paths.SecondaryManifest = value
	}
	if strings.TrimSpace(c.Paths.SecondaryManifest) != "" {
		if c.Paths.SecondaryManifest, err = expandPath(c.Paths.SecondaryManifest); err != nil {
			return fmt.Errorf("paths.secondary_manifest: %w", err)
		}
	} else {
		c.Paths.SecondaryManifest = ""
	}

	return nil
}

func (c *Config) normalizeDelivery() {
	if value, ok := os.LookupEnv("IMAGES_BASE_URL"); ok && strings.TrimSpace(value) != "" {
		c.Delivery.BaseURL = value
	}
	c.Delivery.BaseURL = strings.TrimRight(strings.TrimSpace(c.Delivery.BaseURL), "/")
}

func (c *Config) normalizeOptimize() {
	if value, ok := os.LookupEnv("REMOVE_SOURCE_AFTER_OPTIMIZE"); ok {
		c.Optimize.RemoveSource = parseBoolish(value)
	}
	if c.Optimize.Quality == 0 {
		c.Optimize.Quality = defaultQuality
	}
	if c.Optimize.Concurrency == 0 {
		c.Optimize.Concurrency = defaultConcurrency
	}
	if len(c.Optimize.Extensions) == 0 {
		c.Optimize.Extensions = defaultExtensions()
	}
	normalized := make([]string, 0, len(c.Optimize.Extensions))
	for _, ext := range c.Optimize.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	c.Optimize.Extensions = normalized
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func parseBoolish(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
