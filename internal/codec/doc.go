// Package codec wraps the external image transcoding collaborator.
//
// The pipeline only depends on the Client interface: given a source image
// path and fixed encode parameters, produce one encoded output file or fail
// for undecodable input. WebP is the production implementation; tests inject
// fakes to exercise failure paths without real pixel work.
package codec
