// Package optimize turns a single source image into its optimized output.
//
// The worker mirrors the image's relative subdirectory structure under the
// optimized output root, drives the codec with the run's fixed parameters,
// and resolves the manifest URL for the produced file. It holds no shared
// mutable state: each invocation writes only its own output file and returns
// a value, so the pipeline can run many workers concurrently.
package optimize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"optipress/internal/codec"
	"optipress/internal/config"
	"optipress/internal/imagekey"
	"optipress/internal/logging"
	"optipress/internal/services"
)

// Result describes one successfully optimized image.
type Result struct {
	Key        string
	URL        string
	OutputPath string
}

// Optimizer converts source images using the configured codec client.
type Optimizer struct {
	cfg    *config.Config
	client codec.Client
	logger *slog.Logger
}

// New constructs an Optimizer.
func New(cfg *config.Config, client codec.Client, logger *slog.Logger) *Optimizer {
	return &Optimizer{
		cfg:    cfg,
		client: client,
		logger: logging.NewComponentLogger(logger, "optimize"),
	}
}

// Optimize encodes sourcePath and returns its key and resolved URL. Codec
// and decode failures are per-image errors; an inability to create the
// output directory is a persistence error that aborts the run.
func (o *Optimizer) Optimize(ctx context.Context, sourcePath string) (Result, error) {
	key := imagekey.Derive(sourcePath, o.cfg.Paths.SourceDir)

	rel, err := filepath.Rel(o.cfg.Paths.SourceDir, sourcePath)
	if err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "optimize", "relativize",
			fmt.Sprintf("%s outside source root", sourcePath), err)
	}

	outRel := strings.TrimSuffix(rel, filepath.Ext(rel)) + o.client.Extension()
	outPath := filepath.Join(o.cfg.OutputRoot(), outRel)

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return Result{}, services.Wrap(services.ErrPersistence, "optimize", "create output directory",
			filepath.Dir(outPath), err)
	}

	opts := codec.EncodeOptions{Quality: o.cfg.Optimize.Quality}
	if err := o.client.Encode(ctx, sourcePath, outPath, opts); err != nil {
		return Result{}, err
	}

	result := Result{
		Key:        key,
		URL:        o.resolveURL(outRel),
		OutputPath: outPath,
	}

	o.logger.Debug("optimized image",
		logging.String(logging.FieldKey, key),
		logging.String(logging.FieldPath, sourcePath),
		logging.String(logging.FieldOutput, outPath),
		logging.String(logging.FieldURL, result.URL))

	if o.cfg.Optimize.RemoveSource {
		if err := os.Remove(sourcePath); err != nil {
			o.logger.Warn("failed to remove source after optimization",
				logging.String(logging.FieldPath, sourcePath),
				logging.Error(err))
		}
	}

	return result, nil
}

// resolveURL maps an output-relative path to the manifest value: an absolute
// URL when a base URL is configured, a project-local relative path otherwise.
func (o *Optimizer) resolveURL(outRel string) string {
	slashRel := filepath.ToSlash(outRel)
	if o.cfg.Delivery.BaseURL != "" {
		return o.cfg.Delivery.BaseURL + "/" + slashRel
	}
	return o.cfg.LocalPathPrefix() + "/" + slashRel
}
