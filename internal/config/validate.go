package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateOptimize(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.SourceDir) == "" {
		return errors.New("paths.source_dir must be set")
	}
	if strings.ContainsAny(c.Paths.OutputDirName, "/\\") {
		return errors.New("paths.output_dir_name must be a single directory name")
	}
	return nil
}

func (c *Config) validateOptimize() error {
	if c.Optimize.Quality < 1 || c.Optimize.Quality > 100 {
		return fmt.Errorf("optimize.quality must be between 1 and 100, got %d", c.Optimize.Quality)
	}
	if c.Optimize.Concurrency < 1 {
		return fmt.Errorf("optimize.concurrency must be positive, got %d", c.Optimize.Concurrency)
	}
	if len(c.Optimize.Extensions) == 0 {
		return errors.New("optimize.extensions must not be empty")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
