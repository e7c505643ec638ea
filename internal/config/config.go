package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and file location configuration.
type Paths struct {
	// SourceDir is the root directory scanned for input images.
	SourceDir string `toml:"source_dir"`
	// OutputDirName is the subdirectory of SourceDir that receives optimized
	// outputs. It is excluded from scanning.
	OutputDirName string `toml:"output_dir_name"`
	// ManifestPath is the manifest file location. Defaults to
	// image-manifest.json inside SourceDir.
	ManifestPath string `toml:"manifest_path"`
	// CachePath is the content-hash cache location. Defaults to
	// .optimize-cache.json inside SourceDir.
	CachePath string `toml:"cache_path"`
	// SecondaryManifest optionally receives a copy of the manifest after each
	// run (e.g. a frontend project's src directory).
	SecondaryManifest string `toml:"secondary_manifest"`
}

// Delivery contains configuration for how manifest URLs are resolved.
type Delivery struct {
	// BaseURL prefixes every manifest entry when set. When empty, manifest
	// values are project-local relative paths.
	BaseURL string `toml:"base_url"`
}

// Optimize contains encoder and scheduling settings.
type Optimize struct {
	Quality     int `toml:"quality"`
	Concurrency int `toml:"concurrency"`
	// RemoveSource deletes each source image after it was optimized
	// successfully. Destructive; off by default.
	RemoveSource bool     `toml:"remove_source"`
	Extensions   []string `toml:"extensions"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for optipress.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Delivery Delivery `toml:"delivery"`
	Optimize Optimize `toml:"optimize"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/optipress/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded, environment overrides applied, and
// defaults filled in.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	// An explicitly named config file must exist; only the implicit search
	// locations below tolerate absence.
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config file %s does not exist", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs("optipress.toml")
	if err != nil {
		return "", false, err
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return projectPath, false, nil
}

// OutputRoot returns the absolute path of the optimized-output subtree.
func (c *Config) OutputRoot() string {
	return filepath.Join(c.Paths.SourceDir, c.Paths.OutputDirName)
}

// LocalPathPrefix returns the forward-slash prefix used for manifest values
// when no base URL is configured, e.g. "Images/optimized".
func (c *Config) LocalPathPrefix() string {
	return filepath.Base(c.Paths.SourceDir) + "/" + c.Paths.OutputDirName
}

// EnsureDirectories creates the directories a run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.OutputRoot(), filepath.Dir(c.Paths.ManifestPath), filepath.Dir(c.Paths.CachePath)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
