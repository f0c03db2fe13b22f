package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/photobook/pkg/cache"
	"github.com/matzehuels/photobook/pkg/document"
	"github.com/matzehuels/photobook/pkg/errors"
	"github.com/matzehuels/photobook/pkg/observability"
	"github.com/matzehuels/photobook/pkg/photo"
)

var fixedClock = func() time.Time { return time.UnixMilli(1700000000000) }

func solid(c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for y := range 30 {
		for x := range 40 {
			img.Set(x, y, c)
		}
	}
	return img
}

// stubLoader serves solid images and fails refs listed in broken.
func stubLoader(broken ...string) photo.Loader {
	return photo.LoaderFunc(func(ctx context.Context, ref string) (image.Image, error) {
		for _, b := range broken {
			if ref == b {
				return nil, fmt.Errorf("cross-origin image %s", ref)
			}
		}
		return solid(color.RGBA{R: 200, G: 40, B: 40, A: 255}), nil
	})
}

var pdfPage = regexp.MustCompile(`/Type\s*/Page\b`)

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	return img
}

func TestExportDocumentFourGrid(t *testing.T) {
	doc := document.New(nil)
	if err := doc.SetLayout(0, "fourGrid"); err != nil {
		t.Fatal(err)
	}
	for z, ref := range []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"} {
		if err := doc.AssignPhoto(0, z, ref); err != nil {
			t.Fatalf("AssignPhoto(%d): %v", z, err)
		}
	}

	ex := New(stubLoader(), WithClock(fixedClock))
	art, err := ex.ExportDocument(context.Background(), doc)
	if err != nil {
		t.Fatalf("ExportDocument: %v", err)
	}
	if art.Pages != 1 {
		t.Errorf("Pages = %d, want 1", art.Pages)
	}
	if n := len(pdfPage.FindAll(art.PDF, -1)); n != 1 {
		t.Errorf("pdf has %d pages, want 1", n)
	}
	if !bytes.HasPrefix(art.PDF, []byte("%PDF-")) {
		t.Error("artifact is not a pdf")
	}
	if len(art.Warnings) != 0 {
		t.Errorf("Warnings = %v", art.Warnings)
	}
	if art.Filename != "photobook_1700000000000.pdf" {
		t.Errorf("Filename = %q", art.Filename)
	}
}

func TestExportDocumentPageCount(t *testing.T) {
	doc := document.New(nil)
	doc.AddPage()
	doc.AddPage()
	art, err := New(nil).ExportDocument(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	if art.Pages != 3 {
		t.Errorf("Pages = %d, want 3", art.Pages)
	}
	if n := len(pdfPage.FindAll(art.PDF, -1)); n != 3 {
		t.Errorf("pdf has %d pages, want 3", n)
	}
}

func TestExportPagesOrder(t *testing.T) {
	doc := document.New(nil)
	doc.AddPage()
	doc.AddPage()
	colors := []string{"#ff0000", "#00ff00", "#0000ff"}
	for i, c := range colors {
		if err := doc.SetBackground(i, c); err != nil {
			t.Fatal(err)
		}
	}
	if err := doc.SetActive(1); err != nil {
		t.Fatal(err)
	}

	rasters, err := New(nil, WithConcurrency(3), WithClock(fixedClock)).ExportPages(context.Background(), doc)
	if err != nil {
		t.Fatalf("ExportPages: %v", err)
	}
	if len(rasters) != 3 {
		t.Fatalf("got %d rasters, want 3", len(rasters))
	}
	want := []color.RGBA{{255, 0, 0, 255}, {0, 255, 0, 255}, {0, 0, 255, 255}}
	for i, r := range rasters {
		if r.Page != i {
			t.Errorf("raster %d has Page %d", i, r.Page)
		}
		if r.Filename != fmt.Sprintf("photobook_1700000000000_page%d.png", i+1) {
			t.Errorf("raster %d Filename = %q", i, r.Filename)
		}
		got := color.RGBAModel.Convert(decode(t, r.PNG).At(5, 5)).(color.RGBA)
		if got != want[i] {
			t.Errorf("page %d background = %v, want %v", i, got, want[i])
		}
	}
	if doc.Active() != 1 {
		t.Errorf("Active() = %d, export must not switch pages", doc.Active())
	}
}

func TestExportPageAsImage(t *testing.T) {
	doc := document.New(nil)
	art, err := New(nil, WithClock(fixedClock)).ExportPageAsImage(context.Background(), doc, 0)
	if err != nil {
		t.Fatal(err)
	}
	img := decode(t, art.PNG)
	if b := img.Bounds(); b.Dx() != 1200 || b.Dy() != 1600 {
		t.Errorf("size = %v, want 1200x1600", b.Size())
	}
	if art.Width != 1200 || art.Height != 1600 {
		t.Errorf("Width/Height = %d/%d", art.Width, art.Height)
	}
	if art.Filename != "photobook_1700000000000.png" {
		t.Errorf("Filename = %q", art.Filename)
	}

	_, err = New(nil).ExportPageAsImage(context.Background(), doc, 4)
	if !errors.Is(err, errors.ErrCodePageIndexOutOfRange) {
		t.Errorf("err = %v, want PAGE_INDEX_OUT_OF_RANGE", err)
	}
}

func TestExportScale(t *testing.T) {
	doc := document.New(nil)
	art, err := New(nil, WithScale(1), WithPageSize(300, 400)).ExportPageAsImage(context.Background(), doc, 0)
	if err != nil {
		t.Fatal(err)
	}
	if b := decode(t, art.PNG).Bounds(); b.Dx() != 300 || b.Dy() != 400 {
		t.Errorf("size = %v, want 300x400", b.Size())
	}
}

func TestExportWarnings(t *testing.T) {
	doc := document.New(nil)
	doc.AddPage()
	for i := range 2 {
		if err := doc.SetLayout(i, "twoVertical"); err != nil {
			t.Fatal(err)
		}
		if err := doc.AssignPhoto(i, 0, "ok.jpg"); err != nil {
			t.Fatal(err)
		}
		if err := doc.AssignPhoto(i, 1, "https://example.com/broken.jpg"); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	ex := New(stubLoader("https://example.com/broken.jpg"), WithLogger(log.New(&buf)))
	art, err := ex.ExportDocument(context.Background(), doc)
	if err != nil {
		t.Fatalf("a broken image must not fail the export: %v", err)
	}
	if art.Pages != 2 {
		t.Errorf("Pages = %d, want 2", art.Pages)
	}
	if len(art.Warnings) != 2 {
		t.Fatalf("Warnings = %v, want 2", art.Warnings)
	}
	for i, w := range art.Warnings {
		if w.Page != i || w.Zone != 1 {
			t.Errorf("warning %d = page %d zone %d", i, w.Page, w.Zone)
		}
		if !errors.Is(w.Err, errors.ErrCodeImageDecode) {
			t.Errorf("warning %d code = %v", i, errors.GetCode(w.Err))
		}
	}
	if n := strings.Count(buf.String(), "could not be drawn"); n != 1 {
		t.Errorf("warning logged %d times, want once:\n%s", n, buf.String())
	}
}

func TestExportTimeout(t *testing.T) {
	block := make(chan struct{})
	t.Cleanup(func() { close(block) })
	slow := photo.LoaderFunc(func(ctx context.Context, ref string) (image.Image, error) {
		<-block
		return nil, fmt.Errorf("released")
	})

	doc := document.New(nil)
	if err := doc.SetLayout(0, "heroFull"); err != nil {
		t.Fatal(err)
	}
	if err := doc.AssignPhoto(0, 0, "slow.jpg"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := New(slow).ExportDocument(ctx, doc)
	if !errors.Is(err, errors.ErrCodeTimeout) {
		t.Errorf("err = %v, want TIMEOUT", err)
	}
}

func TestExportPageCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	doc := document.New(nil)
	doc.AddPage()
	if err := doc.SetBackground(1, "#336699"); err != nil {
		t.Fatal(err)
	}

	ex := New(nil, WithCache(fc, nil))
	first, err := ex.ExportPages(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range first {
		if r.Cached {
			t.Errorf("page %d cached on first export", r.Page)
		}
	}
	second, err := ex.ExportPages(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range second {
		if !r.Cached {
			t.Errorf("page %d not served from cache", r.Page)
		}
		if !bytes.Equal(r.PNG, first[i].PNG) {
			t.Errorf("page %d cached bytes differ", r.Page)
		}
	}
}

type recordingHooks struct {
	observability.NoopExportHooks
	mu       sync.Mutex
	started  int
	pages    []int
	warnings int
}

func (h *recordingHooks) OnExportStart(_ context.Context, _ string, pages int, _ []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = pages
}

func (h *recordingHooks) OnPageRendered(_ context.Context, page int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pages = append(h.pages, page)
}

func (h *recordingHooks) OnExportComplete(_ context.Context, _ string, _ time.Duration, warnings int, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.warnings = warnings
}

func TestExportHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetExportHooks(h)
	t.Cleanup(observability.Reset)

	doc := document.New(nil)
	doc.AddPage()
	if err := doc.SetLayout(1, "heroFull"); err != nil {
		t.Fatal(err)
	}
	if err := doc.AssignPhoto(1, 0, "bad.jpg"); err != nil {
		t.Fatal(err)
	}
	if _, err := New(stubLoader("bad.jpg")).ExportDocument(context.Background(), doc); err != nil {
		t.Fatal(err)
	}
	if h.started != 2 {
		t.Errorf("OnExportStart pages = %d, want 2", h.started)
	}
	if len(h.pages) != 2 {
		t.Errorf("OnPageRendered called %d times, want 2", len(h.pages))
	}
	if h.warnings != 1 {
		t.Errorf("OnExportComplete warnings = %d, want 1", h.warnings)
	}
}

func TestFilenames(t *testing.T) {
	ts := fixedClock()
	tests := []struct {
		got, want string
	}{
		{ImageFilename(ts), "photobook_1700000000000.png"},
		{DocumentFilename(ts), "photobook_1700000000000.pdf"},
		{PageFilename(ts, 0), "photobook_1700000000000_page1.png"},
		{PageFilename(ts, 9), "photobook_1700000000000_page10.png"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
