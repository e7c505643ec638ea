package codec

import "context"

// EncodeOptions carries the fixed per-run encode parameters.
type EncodeOptions struct {
	// Quality in 1-100.
	Quality int
	// Lossless switches the encoder to lossless mode.
	Lossless bool
}

// Client defines the image transcoding behaviour the pipeline depends on.
type Client interface {
	// Encode reads the image at inputPath and writes the encoded result to
	// outputPath. EXIF orientation is applied and metadata is stripped.
	Encode(ctx context.Context, inputPath, outputPath string, opts EncodeOptions) error
	// Extension returns the output file extension including the dot.
	Extension() string
}
