// Package logging constructs the slog loggers used across optipress.
//
// It centralizes handler selection (console or JSON), level parsing, and the
// attribute constructors core packages use so log field names stay consistent
// between the pipeline, the optimizer, and the CLI. Obtain loggers through
// New or NewFromConfig; tests use NewNop to silence output.
package logging
