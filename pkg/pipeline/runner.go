package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/photobook/pkg/cache"
	"github.com/matzehuels/photobook/pkg/document"
	"github.com/matzehuels/photobook/pkg/export"
	"github.com/matzehuels/photobook/pkg/httputil"
	"github.com/matzehuels/photobook/pkg/photo"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute builds a document from c and exports it.
func (r *Runner) Execute(ctx context.Context, c *Compose, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	buildStart := time.Now()
	doc, err := r.Build(c, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	buildTime := time.Since(buildStart)
	opts.Logger.Info("built document", "pages", doc.Len(), "duration", buildTime)

	result, err := r.Export(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.BuildTime = buildTime
	return result, nil
}

// Build resolves the template catalog of opts and replays c onto a new
// document.
func (r *Runner) Build(c *Compose, opts Options) (*document.Document, error) {
	catalog, err := LoadCatalog(opts.Templates)
	if err != nil {
		return nil, err
	}
	return c.Build(catalog)
}

// Export renders doc in the formats of opts. A PDF whose document content
// is unchanged since a previous warning-free run is served from the cache
// unless opts.Refresh is set.
func (r *Runner) Export(ctx context.Context, doc *document.Document, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	snap := doc.Snapshot()
	result := &Result{Document: doc}
	result.Stats.Pages = len(snap.Pages)
	for _, p := range snap.Pages {
		result.Stats.Photos += len(p.Photos)
		result.Stats.Elements += len(p.Layers)
	}
	if content, err := snap.ContentJSON(); err == nil {
		result.DocHash = cache.Hash(content)
	}

	// A PDF-only export can skip rendering entirely on a cache hit.
	if pdfOnly(opts) && result.DocHash != "" && !opts.Refresh {
		key := r.Keyer.ArtifactKey(result.DocHash, opts.ArtifactKeyOpts(FormatPDF))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			result.Artifacts = []Artifact{{Format: FormatPDF, Filename: export.DocumentFilename(time.Now()), Page: -1, Data: data}}
			result.CacheInfo.ArtifactHit = true
			opts.Logger.Info("document from cache", "pages", result.Stats.Pages)
			return result, nil
		}
	}

	renderStart := time.Now()
	artifacts, warnings, pageHits, err := Render(ctx, r.exporter(opts), doc, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Warnings = warnings
	result.CacheInfo.PageHits = pageHits
	result.Stats.RenderTime = time.Since(renderStart)

	if len(warnings) == 0 && result.DocHash != "" {
		for _, a := range result.ByFormat(FormatPDF) {
			_ = r.Cache.Set(ctx, r.Keyer.ArtifactKey(result.DocHash, opts.ArtifactKeyOpts(FormatPDF)), a.Data, cache.TTLArtifact)
		}
	}

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"pages", result.Stats.Pages,
		"warnings", len(warnings),
		"duration", result.Stats.RenderTime)
	return result, nil
}

func pdfOnly(opts Options) bool {
	return len(opts.Formats) == 1 && opts.Formats[0] == FormatPDF
}

// exporter builds an Exporter for opts. Page rasters share the runner's
// cache unless opts.Refresh is set.
func (r *Runner) exporter(opts Options) *export.Exporter {
	eopts := []export.Option{
		export.WithPageSize(opts.Width, opts.Height),
		export.WithScale(opts.Scale),
		export.WithConcurrency(opts.Concurrency),
		export.WithLogger(opts.Logger),
	}
	if !opts.Refresh {
		eopts = append(eopts, export.WithCache(r.Cache, r.Keyer))
	}
	return export.New(r.loader(opts), eopts...)
}

// loader returns opts.Loader, or an HTTP/file source whose downloads are
// cached in the runner's cache.
func (r *Runner) loader(opts Options) photo.Loader {
	if opts.Loader != nil {
		return opts.Loader
	}
	c := r.Cache
	if opts.Refresh {
		c = cache.NewNullCache()
	}
	client := httputil.NewClient(c, cache.TTLPhoto, nil)
	client.SetKeyer(r.Keyer)
	return photo.NewSource(client, opts.BaseDir, opts.Logger)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	return r.Cache.Close()
}
