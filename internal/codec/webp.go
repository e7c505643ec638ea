package codec

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	// Register the webp decoder so webp sources can be re-encoded.
	_ "golang.org/x/image/webp"

	"optipress/internal/services"
)

// WebP encodes images to the WebP format in-process.
//
// Decoding goes through imaging.Open with automatic EXIF orientation, which
// also strips metadata as a side effect of re-encoding pixels. Supported
// inputs are whatever decoders are registered: JPEG, PNG, GIF, BMP, TIFF,
// and WebP.
type WebP struct{}

// NewWebP constructs the production codec client.
func NewWebP() *WebP {
	return &WebP{}
}

// Extension returns ".webp".
func (w *WebP) Extension() string {
	return ".webp"
}

// Encode decodes inputPath, validates its dimensions, and writes a WebP file
// to outputPath.
func (w *WebP) Encode(ctx context.Context, inputPath, outputPath string, opts EncodeOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if inputPath == "" {
		return errors.New("input path required")
	}
	if outputPath == "" {
		return errors.New("output path required")
	}

	img, err := imaging.Open(inputPath, imaging.AutoOrientation(true))
	if err != nil {
		return services.Wrap(services.ErrUndecodable, "codec", "decode", inputPath, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return services.Wrap(services.ErrUndecodable, "codec", "validate",
			fmt.Sprintf("%s: %dx%d", inputPath, bounds.Dx(), bounds.Dy()), nil)
	}

	quality := opts.Quality
	if quality < 1 || quality > 100 {
		quality = 80
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return services.Wrap(services.ErrCodec, "codec", "create output", outputPath, err)
	}
	defer out.Close()

	encodeOpts := &webp.Options{Quality: float32(quality), Lossless: opts.Lossless}
	if err := webp.Encode(out, img, encodeOpts); err != nil {
		os.Remove(outputPath)
		return services.Wrap(services.ErrCodec, "codec", "encode", inputPath, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(outputPath)
		return services.Wrap(services.ErrCodec, "codec", "flush output", outputPath, err)
	}
	return nil
}
