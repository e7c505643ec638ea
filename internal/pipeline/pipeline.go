package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"optipress/internal/cachestore"
	"optipress/internal/codec"
	"optipress/internal/config"
	"optipress/internal/fileutil"
	"optipress/internal/hashing"
	"optipress/internal/imagekey"
	"optipress/internal/logging"
	"optipress/internal/manifest"
	"optipress/internal/optimize"
	"optipress/internal/preflight"
	"optipress/internal/scanner"
	"optipress/internal/services"
)

const lockFileName = ".optipress.lock"

// Options tune a single run.
type Options struct {
	// DryRun diffs without encoding or persisting anything.
	DryRun bool
}

// Pipeline sequences one optimization run end to end.
type Pipeline struct {
	cfg       *config.Config
	scanner   *scanner.Scanner
	optimizer *optimize.Optimizer
	logger    *slog.Logger
}

// New constructs a Pipeline around the given codec client.
func New(cfg *config.Config, client codec.Client, logger *slog.Logger) *Pipeline {
	logger = logging.NewComponentLogger(logger, "pipeline")
	return &Pipeline{
		cfg:       cfg,
		scanner:   scanner.New([]string{cfg.Paths.OutputDirName}, cfg.Optimize.Extensions),
		optimizer: optimize.New(cfg, client, logger),
		logger:    logger,
	}
}

type workItem struct {
	path string
	key  string
	hash string
}

// Run executes scan, diff, optimize, merge, and persist. Per-image failures
// land in the report; the returned error is reserved for setup, hashing, and
// persistence problems that abort the run.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Report, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := p.logger.With(logging.String(logging.FieldRunID, runID))
	report := &Report{RunID: runID, DryRun: opts.DryRun}

	sourceDir := p.cfg.Paths.SourceDir
	exists, err := preflight.CheckSourceRoot(sourceDir)
	if err != nil {
		return nil, err
	}
	if !exists {
		logger.Info("source root does not exist; nothing to do",
			logging.String(logging.FieldPath, sourceDir))
		report.Elapsed = time.Since(start)
		return report, nil
	}

	lock := flock.New(filepath.Join(sourceDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "setup", "acquire run lock", lock.Path(), err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrConfiguration, "setup", "acquire run lock",
			"another run is already in progress", nil)
	}
	defer lock.Unlock()

	logger.Info("scanning source tree", logging.String(logging.FieldPath, sourceDir))
	images, err := p.scanner.Scan(sourceDir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "scan", "walk source tree", sourceDir, err)
	}
	report.Discovered = len(images)
	if len(images) == 0 {
		logger.Info("no images discovered; skipping run")
		report.Elapsed = time.Since(start)
		return report, nil
	}

	cache := cachestore.Open(p.cfg.Paths.CachePath, logger)
	man := manifest.Open(p.cfg.Paths.ManifestPath, p.cfg.Delivery.BaseURL, logger)

	// Hashing runs before the per-image failure boundary: an unreadable file
	// means a broken environment, so the whole run stops.
	items := make([]workItem, 0, len(images))
	seen := make(map[string]string, len(images))
	for _, path := range images {
		hash, err := hashing.FileHash(path)
		if err != nil {
			return nil, err
		}
		key := imagekey.Derive(path, sourceDir)
		if prev, collided := seen[key]; collided {
			logger.Warn("logical key collision; last processed wins",
				logging.String(logging.FieldKey, key),
				logging.String(logging.FieldPath, path),
				logging.String("previous", prev))
		}
		seen[key] = path
		items = append(items, workItem{path: path, key: key, hash: hash})
	}

	var pending []workItem
	for _, it := range items {
		entry, cached := cache.Lookup(it.key)
		_, inManifest := man.URL(it.key)
		if cached && entry.Hash == it.hash && inManifest {
			report.Skipped++
			continue
		}
		pending = append(pending, it)
	}
	logger.Info("diff complete",
		logging.Int("discovered", report.Discovered),
		logging.Int("skipped", report.Skipped),
		logging.Int("pending", len(pending)))

	if opts.DryRun {
		report.Pending = len(pending)
		report.Elapsed = time.Since(start)
		return report, nil
	}

	if err := p.cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrPersistence, "setup", "create directories", "", err)
	}

	// Each worker writes its own result slot; aggregation into cache and
	// manifest happens after Wait, in this goroutine.
	results := make([]*optimize.Result, len(pending))
	failures := make([]error, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Optimize.Concurrency)
	for i, it := range pending {
		i, it := i, it
		g.Go(func() error {
			res, err := p.optimizer.Optimize(gctx, it.path)
			if err != nil {
				failures[i] = err
				return nil
			}
			results[i] = &res
			return nil
		})
	}
	_ = g.Wait()

	processedAt := time.Now()
	for i, it := range pending {
		if err := failures[i]; err != nil {
			if services.IsFatal(err) {
				return nil, err
			}
			report.Failed++
			report.Failures = append(report.Failures, Failure{Key: it.key, Path: it.path, Err: err})
			logger.Error("image optimization failed",
				logging.String(logging.FieldKey, it.key),
				logging.String(logging.FieldPath, it.path),
				logging.Error(err))
			continue
		}
		res := results[i]
		man.Set(res.Key, res.URL)
		cache.Put(it.key, it.hash, processedAt)
		report.Optimized++
	}

	if err := cache.Save(); err != nil {
		return nil, err
	}
	if err := man.Save(); err != nil {
		return nil, err
	}

	if target := p.cfg.Paths.SecondaryManifest; target != "" {
		if err := fileutil.CopyFile(man.Path(), target); err != nil {
			return nil, services.Wrap(services.ErrPersistence, "persist", "copy manifest", target, err)
		}
		logger.Info("copied manifest", logging.String(logging.FieldPath, target))
	}

	report.Elapsed = time.Since(start)
	logger.Info("run complete",
		logging.Int("discovered", report.Discovered),
		logging.Int("optimized", report.Optimized),
		logging.Int("skipped", report.Skipped),
		logging.Int("failed", report.Failed),
		logging.Duration("elapsed", report.Elapsed))
	return report, nil
}
