package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/mattn/go-isatty"

	"optipress/internal/pipeline"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

func renderReport(out io.Writer, report *pipeline.Report, colorize bool) {
	title := "Optimization run " + report.RunID
	if report.DryRun {
		title += " (dry run)"
	}
	fmt.Fprintln(out, title)

	rows := [][2]string{
		{"Discovered", strconv.Itoa(report.Discovered)},
		{"Optimized", strconv.Itoa(report.Optimized)},
		{"Skipped", strconv.Itoa(report.Skipped)},
		{"Failed", strconv.Itoa(report.Failed)},
		{"Elapsed", report.Elapsed.Round(time.Millisecond).String()},
	}
	if report.DryRun {
		rows = [][2]string{
			{"Discovered", strconv.Itoa(report.Discovered)},
			{"Would optimize", strconv.Itoa(report.Pending)},
			{"Skipped", strconv.Itoa(report.Skipped)},
			{"Elapsed", report.Elapsed.Round(time.Millisecond).String()},
		}
	}
	fmt.Fprintln(out, renderPairs("Metric", "Count", rows, true))

	if len(report.Failures) == 0 {
		if !report.DryRun {
			fmt.Fprintln(out, colorizeText("All images up to date.", ansiGreen, colorize))
		}
		return
	}

	fmt.Fprintln(out, colorizeText("Failures:", ansiYellow, colorize))
	for _, failure := range report.Failures {
		line := fmt.Sprintf("  %s (%s): %v", failure.Key, failure.Path, failure.Err)
		fmt.Fprintln(out, colorizeText(line, ansiRed, colorize))
	}
}

func colorizeText(text, color string, colorize bool) string {
	if !colorize || color == "" {
		return text
	}
	return color + text + ansiReset
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
