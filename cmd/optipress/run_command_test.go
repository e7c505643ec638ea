package main

import (
	"os"
	"path/filepath"
	"testing"

	"optipress/internal/testsupport"
)

func TestRunCommandOptimizesTree(t *testing.T) {
	configPath, sourceDir := setupRunEnv(t)
	testsupport.WritePNG(t, filepath.Join(sourceDir, "hero.png"), 1)
	testsupport.WritePNG(t, filepath.Join(sourceDir, "sub", "img.png"), 2)

	out, _, err := runCLI(t, []string{"run"}, configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "Optimized")
	requireContains(t, out, "2")

	if _, err := os.Stat(filepath.Join(sourceDir, "image-manifest.json")); err != nil {
		t.Fatalf("expected manifest after run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(sourceDir, "optimized", "sub", "img.webp")); err != nil {
		t.Fatalf("expected optimized output: %v", err)
	}
}

func TestRunCommandDryRunWritesNothing(t *testing.T) {
	configPath, sourceDir := setupRunEnv(t)
	testsupport.WritePNG(t, filepath.Join(sourceDir, "hero.png"), 3)

	out, _, err := runCLI(t, []string{"run", "--dry-run"}, configPath)
	if err != nil {
		t.Fatalf("run --dry-run: %v", err)
	}
	requireContains(t, out, "dry run")
	requireContains(t, out, "Would optimize")

	if _, err := os.Stat(filepath.Join(sourceDir, "image-manifest.json")); !os.IsNotExist(err) {
		t.Fatal("dry run must not write a manifest")
	}
}

func TestRunCommandReportsFailures(t *testing.T) {
	configPath, sourceDir := setupRunEnv(t)
	testsupport.WritePNG(t, filepath.Join(sourceDir, "good.png"), 4)
	testsupport.WriteCorrupt(t, filepath.Join(sourceDir, "broken.png"))

	out, _, err := runCLI(t, []string{"run"}, configPath)
	if err != nil {
		t.Fatalf("per-image failures must not fail the command: %v", err)
	}
	requireContains(t, out, "Failures:")
	requireContains(t, out, "broken")

	// The failing image must not prevent the successful one from landing.
	if _, err := os.Stat(filepath.Join(sourceDir, "optimized", "good.webp")); err != nil {
		t.Fatalf("expected optimized output for the good image: %v", err)
	}
}

func TestRunCommandRejectsMissingConfigFlag(t *testing.T) {
	neutralizeEnv(t)
	missing := filepath.Join(t.TempDir(), "nope.toml")

	_, _, err := runCLI(t, []string{"run"}, missing)
	if err == nil {
		t.Fatal("a mistyped --config path must fail, not fall back to defaults")
	}
}

func TestRunCommandMissingSourceIsNoOp(t *testing.T) {
	configPath, _ := setupRunEnv(t)

	out, _, err := runCLI(t, []string{"run"}, configPath)
	if err != nil {
		t.Fatalf("run on missing source dir: %v", err)
	}
	requireContains(t, out, "Discovered")
}
