package export

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/photobook/pkg/cache"
	"github.com/matzehuels/photobook/pkg/document"
	"github.com/matzehuels/photobook/pkg/errors"
	"github.com/matzehuels/photobook/pkg/fonts"
	"github.com/matzehuels/photobook/pkg/layout"
	"github.com/matzehuels/photobook/pkg/observability"
	"github.com/matzehuels/photobook/pkg/photo"
	"github.com/matzehuels/photobook/pkg/render"
)

// Output formats.
const (
	FormatPNG = "png"
	FormatPDF = "pdf"
)

const (
	DefaultConcurrency = 4
	DefaultLoadLimit   = 8
)

// RasterArtifact is one rendered page encoded as PNG.
type RasterArtifact struct {
	Page     int
	Filename string
	Width    int
	Height   int
	PNG      []byte
	Warnings []Warning
	Cached   bool
}

// DocumentArtifact is a multi-page PDF with one page per document page.
type DocumentArtifact struct {
	Filename string
	Pages    int
	PDF      []byte
	Warnings []Warning
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithPageSize sets the unscaled page size (default 600x800).
func WithPageSize(w, h float64) Option {
	return func(e *Exporter) { e.width, e.height = w, h }
}

// WithScale sets the raster multiplier (default 2).
func WithScale(s float64) Option {
	return func(e *Exporter) { e.scale = s }
}

// WithFonts sets the font registry used for text and glyph stickers.
func WithFonts(f *fonts.Registry) Option {
	return func(e *Exporter) { e.fonts = f }
}

// WithConcurrency bounds how many pages render at once.
func WithConcurrency(n int) Option {
	return func(e *Exporter) { e.concurrency = n }
}

// WithLoadLimit bounds how many photos of one page load at once.
func WithLoadLimit(n int) Option {
	return func(e *Exporter) { e.loadLimit = n }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Exporter) { e.logger = l }
}

// WithCache stores page rasters that rendered without warnings.
func WithCache(c cache.Cache, k cache.Keyer) Option {
	return func(e *Exporter) { e.cache, e.keyer = c, k }
}

// WithClock replaces time.Now for artifact names.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// Exporter renders documents into artifacts. It holds no per-export state
// and may be shared between goroutines.
type Exporter struct {
	loader      photo.Loader
	renderer    *render.Renderer
	width       float64
	height      float64
	scale       float64
	fonts       *fonts.Registry
	concurrency int
	loadLimit   int
	logger      *log.Logger
	cache       cache.Cache
	keyer       cache.Keyer
	now         func() time.Time
}

// New creates an Exporter that loads photos through loader. A nil loader
// draws every assigned zone as a placeholder.
func New(loader photo.Loader, opts ...Option) *Exporter {
	e := &Exporter{
		loader:      loader,
		width:       layout.PageWidth,
		height:      layout.PageHeight,
		scale:       2,
		concurrency: DefaultConcurrency,
		loadLimit:   DefaultLoadLimit,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	if e.cache == nil {
		e.cache = cache.NewNullCache()
	}
	if e.keyer == nil {
		e.keyer = cache.NewDefaultKeyer()
	}
	if e.concurrency <= 0 {
		e.concurrency = 1
	}
	ropts := []render.Option{
		render.WithPageSize(e.width, e.height),
		render.WithScale(e.scale),
		render.WithLogger(e.logger),
	}
	if e.fonts != nil {
		ropts = append(ropts, render.WithFonts(e.fonts))
	}
	e.renderer = render.New(ropts...)
	return e
}

// job is one page frozen at export start.
type job struct {
	index int
	page  document.Page
	tpl   layout.Template
}

func (e *Exporter) jobs(doc *document.Document, indices []int) ([]job, error) {
	out := make([]job, 0, len(indices))
	for _, i := range indices {
		p, err := doc.Page(i)
		if err != nil {
			return nil, err
		}
		tpl, err := doc.Template(i)
		if err != nil {
			return nil, err
		}
		out = append(out, job{index: i, page: p, tpl: tpl})
	}
	return out, nil
}

// ExportPageAsImage renders page i of doc to a PNG at the configured page
// size and scale. The active page of doc is not changed.
func (e *Exporter) ExportPageAsImage(ctx context.Context, doc *document.Document, i int) (*RasterArtifact, error) {
	jobs, err := e.jobs(doc, []int{i})
	if err != nil {
		return nil, err
	}
	start := time.Now()
	observability.Export().OnExportStart(ctx, doc.ID(), 1, []string{FormatPNG})

	art, err := e.renderPage(ctx, jobs[0])
	var warnings []Warning
	if art != nil {
		art.Filename = ImageFilename(e.now())
		warnings = art.Warnings
	}
	report(e.logger, warnings)
	observability.Export().OnExportComplete(ctx, doc.ID(), time.Since(start), len(warnings), err)
	if err != nil {
		return nil, err
	}
	return art, nil
}

// ExportPages renders every page of doc to PNG, concurrently, and returns
// the rasters in document order.
func (e *Exporter) ExportPages(ctx context.Context, doc *document.Document) ([]*RasterArtifact, error) {
	start := time.Now()
	observability.Export().OnExportStart(ctx, doc.ID(), doc.Len(), []string{FormatPNG})
	rasters, warnings, err := e.renderAll(ctx, doc)
	report(e.logger, warnings)
	observability.Export().OnExportComplete(ctx, doc.ID(), time.Since(start), len(warnings), err)
	if err != nil {
		return nil, err
	}
	ts := e.now()
	for _, r := range rasters {
		r.Filename = PageFilename(ts, r.Page)
	}
	return rasters, nil
}

// ExportDocument renders every page of doc and assembles them, in order,
// into one PDF.
func (e *Exporter) ExportDocument(ctx context.Context, doc *document.Document) (*DocumentArtifact, error) {
	start := time.Now()
	observability.Export().OnExportStart(ctx, doc.ID(), doc.Len(), []string{FormatPDF})
	art, err := e.exportDocument(ctx, doc)
	var n int
	if art != nil {
		n = len(art.Warnings)
		report(e.logger, art.Warnings)
	}
	observability.Export().OnExportComplete(ctx, doc.ID(), time.Since(start), n, err)
	return art, err
}

func (e *Exporter) exportDocument(ctx context.Context, doc *document.Document) (*DocumentArtifact, error) {
	rasters, _, err := e.renderAll(ctx, doc)
	if err != nil {
		return nil, err
	}
	return e.Assemble(doc, rasters)
}

// Assemble builds the PDF for doc from rasters returned by ExportPages,
// one PDF page per raster in the given order.
func (e *Exporter) Assemble(doc *document.Document, rasters []*RasterArtifact) (*DocumentArtifact, error) {
	var warnings []Warning
	for _, r := range rasters {
		warnings = append(warnings, r.Warnings...)
	}
	w, h := e.renderer.PageSize()
	data, err := assemblePDF(rasters, w, h, doc.ID())
	if err != nil {
		return nil, err
	}
	return &DocumentArtifact{
		Filename: DocumentFilename(e.now()),
		Pages:    len(rasters),
		PDF:      data,
		Warnings: warnings,
	}, nil
}

// renderAll renders every page with at most e.concurrency pages in flight.
// The returned warnings are in page order.
func (e *Exporter) renderAll(ctx context.Context, doc *document.Document) ([]*RasterArtifact, []Warning, error) {
	indices := make([]int, doc.Len())
	for i := range indices {
		indices[i] = i
	}
	jobs, err := e.jobs(doc, indices)
	if err != nil {
		return nil, nil, err
	}

	rasters := make([]*RasterArtifact, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for n, j := range jobs {
		g.Go(func() error {
			art, err := e.renderPage(gctx, j)
			if err != nil {
				return err
			}
			rasters[n] = art
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	for _, r := range rasters {
		warnings = append(warnings, r.Warnings...)
	}
	return rasters, warnings, nil
}

func (e *Exporter) renderPage(ctx context.Context, j job) (art *RasterArtifact, err error) {
	start := time.Now()
	defer func() {
		observability.Export().OnPageRendered(ctx, j.index, time.Since(start), err)
	}()

	w, h := e.renderer.Size()
	key, keyErr := e.pageKey(j, w, h)
	if keyErr == nil {
		if data, hit, _ := e.cache.Get(ctx, key); hit {
			e.logger.Debug("page from cache", "page", j.index)
			return &RasterArtifact{Page: j.index, Width: w, Height: h, PNG: data, Cached: true}, nil
		}
	}

	var imgs render.ImageSource
	if e.loader != nil {
		loaded := photo.Preload(ctx, e.loader, render.Refs(j.page), e.loadLimit)
		if err := loaded.Wait(ctx); err != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "waiting for photos on page %d", j.index+1)
		}
		imgs = loaded
	}

	img, failures := e.renderer.Render(j.page, j.tpl, imgs)
	data, err := encodePNG(img)
	if err != nil {
		return nil, err
	}
	warnings := warningsFor(j.index, failures)
	if keyErr == nil && len(warnings) == 0 {
		_ = e.cache.Set(ctx, key, data, cache.TTLPage)
	}
	e.logger.Debug("rendered page", "page", j.index, "warnings", len(warnings), "duration", time.Since(start))
	return &RasterArtifact{Page: j.index, Width: w, Height: h, PNG: data, Warnings: warnings}, nil
}

// pageKey hashes everything that changes the look of a page. The page
// index is excluded so identical pages share an entry.
func (e *Exporter) pageKey(j job, w, h int) (string, error) {
	p := j.page
	p.ID = 0
	data, err := json.Marshal(struct {
		Page  document.Page
		Zones []layout.Zone
	}{p, j.tpl.Zones})
	if err != nil {
		return "", err
	}
	return e.keyer.PageKey(cache.Hash(data), cache.PageKeyOpts{Width: w, Height: h, Scale: e.renderer.Scale()}), nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}
