// Package pipeline provides the compose → document → export pipeline for
// photobook.
//
// The CLI and the HTTP server both run the same three stages through a
// [Runner], so defaults and caching behave identically everywhere:
//
//  1. Compose: decode a compose file (TOML or JSON) describing pages,
//     layouts, photos, texts and stickers.
//  2. Build: resolve layouts against a template catalog and replay the
//     compose file onto a [document.Document].
//  3. Export: render every page and encode the requested formats.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	c, err := pipeline.LoadCompose("book.toml")
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, c, pipeline.Options{Formats: []string{"pdf"}})
//	if err != nil {
//	    return err
//	}
//	pdf := result.Artifacts[0].Data
//
// A document built elsewhere, for example by an interactive editor, can
// skip the first two stages:
//
//	result, err := runner.Export(ctx, doc, opts)
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/photobook/pkg/cache"
	"github.com/matzehuels/photobook/pkg/document"
	"github.com/matzehuels/photobook/pkg/errors"
	"github.com/matzehuels/photobook/pkg/export"
	"github.com/matzehuels/photobook/pkg/layout"
	"github.com/matzehuels/photobook/pkg/photo"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the unscaled page width in pixels.
	DefaultWidth = layout.PageWidth

	// DefaultHeight is the unscaled page height in pixels.
	DefaultHeight = layout.PageHeight

	// DefaultScale is the raster multiplier applied to the page size.
	DefaultScale = 2.0

	// DefaultConcurrency is the number of pages rendered at once.
	DefaultConcurrency = export.DefaultConcurrency

	// MaxScale bounds the raster multiplier. A 600x800 page at scale 8 is
	// already a 4800x6400 raster.
	MaxScale = 8.0
)

// Format constants for output formats.
const (
	FormatPNG = export.FormatPNG
	FormatPDF = export.FormatPDF
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG: true,
	FormatPDF: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Width       float64  `json:"width,omitempty"`
	Height      float64  `json:"height,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	Formats     []string `json:"formats,omitempty"`
	Concurrency int      `json:"concurrency,omitempty"`
	Refresh     bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Templates string        `json:"-"` // TOML template file merged over the built-ins
	BaseDir   string        `json:"-"` // directory for relative photo paths
	Timeout   time.Duration `json:"-"`
	Logger    *log.Logger   `json:"-"`
	Loader    photo.Loader  `json:"-"` // overrides the default HTTP/file loader

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Artifact is one output file.
type Artifact struct {
	Format   string
	Filename string
	Page     int // zero-based page for per-page rasters, -1 for the whole document
	Data     []byte
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the document that was exported.
	Document *document.Document

	// DocHash is the content hash of the document.
	DocHash string

	// Artifacts are the rendered outputs. PDF yields one artifact, PNG one
	// per page in document order.
	Artifacts []Artifact

	// Warnings are the non-fatal image problems of the export.
	Warnings []export.Warning

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks what came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Pages      int
	Photos     int
	Elements   int
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for the export stage.
type CacheInfo struct {
	ArtifactHit bool // the PDF came from cache
	PageHits    int  // PNG pages served from cache
}

// ByFormat returns the artifacts of format.
func (r *Result) ByFormat(format string) []Artifact {
	var out []Artifact
	for _, a := range r.Artifacts {
		if a.Format == format {
			out = append(out, a)
		}
	}
	return out
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma separated format list such as "png,pdf".
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "page size must be positive, got %gx%g", o.Width, o.Height)
	}
	if o.Scale < 0 || o.Scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, %g], got %g", MaxScale, o.Scale)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns cache key options for an artifact of format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Width:  int(o.Width),
		Height: int(o.Height),
		Scale:  o.Scale,
	}
}

func (o Options) String() string {
	return fmt.Sprintf("%gx%g@%g %v", o.Width, o.Height, o.Scale, o.Formats)
}
