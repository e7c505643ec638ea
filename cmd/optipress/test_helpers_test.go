package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path, sourceDir string) {
	t.Helper()
	content := fmt.Sprintf("[paths]\nsource_dir = %q\n\n[optimize]\nconcurrency = 2\n", sourceDir)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func neutralizeEnv(t *testing.T) {
	t.Helper()
	t.Setenv("IMAGES_BASE_URL", "")
	t.Setenv("REMOVE_SOURCE_AFTER_OPTIMIZE", "")
	t.Setenv("REACT_MANIFEST_OUTPUT", "")
}

func setupRunEnv(t *testing.T) (configPath, sourceDir string) {
	t.Helper()
	neutralizeEnv(t)
	base := t.TempDir()
	sourceDir = filepath.Join(base, "Images")
	configPath = filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, sourceDir)
	return configPath, sourceDir
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
