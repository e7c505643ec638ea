package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"optipress/internal/pipeline"
)

func TestRenderPairs(t *testing.T) {
	out := renderPairs("Metric", "Count", [][2]string{
		{"Optimized", "3"},
		{"Skipped", "12"},
	}, true)
	for _, want := range []string{"Metric", "Count", "Optimized", "12"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected table to contain %q:\n%s", want, out)
		}
	}
}

func TestRenderReportListsFailures(t *testing.T) {
	report := &pipeline.Report{
		RunID:      "run-1",
		Discovered: 2,
		Optimized:  1,
		Failed:     1,
		Elapsed:    25 * time.Millisecond,
		Failures: []pipeline.Failure{
			{Key: "broken", Path: "/tmp/broken.png", Err: errors.New("decode failed")},
		},
	}

	var buf bytes.Buffer
	renderReport(&buf, report, false)
	out := buf.String()
	requireContains(t, out, "run-1")
	requireContains(t, out, "Failures:")
	requireContains(t, out, "broken")
	requireContains(t, out, "decode failed")
}

func TestRenderReportDryRun(t *testing.T) {
	report := &pipeline.Report{RunID: "run-2", Discovered: 3, Pending: 2, DryRun: true}

	var buf bytes.Buffer
	renderReport(&buf, report, false)
	out := buf.String()
	requireContains(t, out, "dry run")
	requireContains(t, out, "Would optimize")
}
