// Package pipeline orchestrates a full optimization run.
//
// A run moves through fixed stages: scan the source tree, hash every
// discovered image, decide per image whether the cached hash and surviving
// manifest entry allow a skip, optimize the remainder under a bounded
// concurrency limit, merge results into the manifest, and persist cache and
// manifest. Per-image failures are isolated and reported; only setup,
// hashing, and persistence errors abort a run.
package pipeline
