// Package services defines the shared error taxonomy for pipeline stages.
//
// Sentinel markers classify failures into per-image errors (undecodable
// input, codec rejection) and run-fatal errors (unreadable files during
// hashing, persistence failures, configuration problems). Wrap tags an error
// with a marker plus stage context; IsFatal drives the orchestrator's
// decision between isolating a failure and aborting the run.
package services
