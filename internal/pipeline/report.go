package pipeline

import "time"

// Failure records one image excluded from a run's results.
type Failure struct {
	Key  string
	Path string
	Err  error
}

// Report aggregates the outcome of one pipeline run.
type Report struct {
	RunID      string
	Discovered int
	Optimized  int
	Skipped    int
	Failed     int
	Elapsed    time.Duration
	Failures   []Failure
	// DryRun marks a run that diffed but did not encode or persist.
	DryRun bool
	// Pending is the number of images a dry run would have optimized.
	Pending int
}
