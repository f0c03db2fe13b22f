package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/photobook/pkg/cache"
	"github.com/matzehuels/photobook/pkg/document"
	"github.com/matzehuels/photobook/pkg/errors"
	"github.com/matzehuels/photobook/pkg/photo"
)

const sampleTOML = `
[[page]]
layout = "fourGrid"
background = "#fdf6e3"
photos = ["a.jpg", "", "https://example.com/c.jpg"]

[[page.text]]
content = "Summer"
x = 10
y = 5
font_size = 48
align = "center"

[[page.sticker]]
content = "⭐"
x = 80
y = 80
size = 64

[[page]]
layout = "heroFull"
photos = ["hero.jpg"]
`

func solidLoader() photo.Loader {
	return photo.LoaderFunc(func(ctx context.Context, ref string) (image.Image, error) {
		img := image.NewRGBA(image.Rect(0, 0, 8, 8))
		for i := range img.Pix {
			img.Pix[i] = 0x80
		}
		img.Set(0, 0, color.Black)
		return img, nil
	})
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"png", false},
		{"pdf", false},
		{"svg", true},
		{"PNG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %v", tt.format, errors.GetCode(err))
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{"png", []string{"png"}, false},
		{"png,pdf", []string{"png", "pdf"}, false},
		{" PDF , png ", []string{"pdf", "png"}, false},
		{"", nil, false},
		{"png,gif", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseFormats(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormats(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.Width != 600 || o.Height != 800 || o.Scale != 2 || o.Concurrency != 4 {
		t.Errorf("defaults = %gx%g@%g c=%d", o.Width, o.Height, o.Scale, o.Concurrency)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatPNG {
		t.Errorf("Formats = %v", o.Formats)
	}
	if o.Logger == nil {
		t.Error("Logger not set")
	}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call: %v", err)
	}

	bad := []Options{
		{Scale: 20},
		{Scale: -1},
		{Width: -5},
		{Formats: []string{"svg"}},
	}
	for _, o := range bad {
		if err := o.ValidateAndSetDefaults(); err == nil {
			t.Errorf("%+v: expected error", o)
		}
	}
}

func TestParseComposeTOML(t *testing.T) {
	c, err := ParseCompose(strings.NewReader(sampleTOML), EncodingTOML)
	if err != nil {
		t.Fatalf("ParseCompose: %v", err)
	}
	doc, err := c.Build(nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if doc.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", doc.Len())
	}
	if doc.Active() != 0 || !doc.Selection().Empty() {
		t.Errorf("active=%d selection=%v, want page 0 and no selection", doc.Active(), doc.Selection())
	}

	p, _ := doc.Page(0)
	if p.LayoutKey != "fourGrid" || p.Background != "#fdf6e3" {
		t.Errorf("page 0 = %s %s", p.LayoutKey, p.Background)
	}
	if len(p.Photos) != 2 || p.Photos[0] != "a.jpg" || p.Photos[2] != "https://example.com/c.jpg" {
		t.Errorf("Photos = %v", p.Photos)
	}
	if len(p.Texts) != 1 {
		t.Fatalf("Texts = %v", p.Texts)
	}
	txt := p.Texts[0]
	if txt.Content != "Summer" || txt.X != 10 || txt.Y != 5 || txt.FontSize != 48 || txt.Align != document.AlignCenter {
		t.Errorf("text = %+v", txt)
	}
	if txt.Color != document.DefaultTextColor || !txt.Bold {
		t.Errorf("unset fields must keep defaults: %+v", txt)
	}
	if len(p.Stickers) != 1 || p.Stickers[0].Size != 64 || p.Stickers[0].Content != "⭐" {
		t.Errorf("Stickers = %+v", p.Stickers)
	}

	p1, _ := doc.Page(1)
	if p1.LayoutKey != "heroFull" || p1.Photos[0] != "hero.jpg" {
		t.Errorf("page 1 = %+v", p1)
	}
}

func TestParseComposeJSON(t *testing.T) {
	in := `{"pages":[{"layout":"twoVertical","photos":["x.png","y.png"],"texts":[{"content":"Hi","color":"#ff0000"}]}]}`
	c, err := ParseCompose(strings.NewReader(in), EncodingJSON)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := c.Build(nil)
	if err != nil {
		t.Fatal(err)
	}
	p, _ := doc.Page(0)
	if len(p.Photos) != 2 || p.Texts[0].Color != "#ff0000" {
		t.Errorf("page = %+v", p)
	}

	_, err = ParseCompose(strings.NewReader(`{"pages":[{"layuot":"x"}]}`), EncodingJSON)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown field: err = %v", err)
	}
	_, err = ParseCompose(strings.NewReader(`{"pages":[]}`), EncodingJSON)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("no pages: err = %v", err)
	}
	_, err = ParseCompose(strings.NewReader(""), "yaml")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown encoding: err = %v", err)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		page ComposePage
		code errors.Code
	}{
		{"unknown layout", ComposePage{Layout: "nope"}, errors.ErrCodeUnknownLayout},
		{"too many photos", ComposePage{Layout: "heroFull", Photos: []string{"a.jpg", "b.jpg"}}, errors.ErrCodeZoneIndexOutOfRange},
		{"photos on blank", ComposePage{Photos: []string{"a.jpg"}}, errors.ErrCodeZoneIndexOutOfRange},
		{"bad background", ComposePage{Background: "blue"}, errors.ErrCodeInvalidColor},
		{"bad text color", ComposePage{Texts: []ComposeText{{Color: document.Ptr("#12")}}}, errors.ErrCodeInvalidColor},
		{"bad align", ComposePage{Texts: []ComposeText{{Align: document.Ptr("justify")}}}, errors.ErrCodeInvalidInput},
		{"empty sticker", ComposePage{Stickers: []ComposeSticker{{Content: " "}}}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Compose{Pages: []ComposePage{{}, tt.page}}
			_, err := c.Build(nil)
			if !errors.Is(err, tt.code) {
				t.Fatalf("err = %v, want %s", err, tt.code)
			}
			if !strings.Contains(err.Error(), "page 2") {
				t.Errorf("error %q does not name the page", err)
			}
		})
	}
}

func TestLoadCompose(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "book.toml")
	jsonPath := filepath.Join(dir, "book.JSON")
	if err := os.WriteFile(tomlPath, []byte(sampleTOML), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(jsonPath, []byte(`{"pages":[{"layout":"blank"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if c, err := LoadCompose(tomlPath); err != nil || len(c.Pages) != 2 {
		t.Errorf("toml: %v", err)
	}
	if c, err := LoadCompose(jsonPath); err != nil || len(c.Pages) != 1 {
		t.Errorf("json: %v", err)
	}
	if _, err := LoadCompose(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing: err = %v", err)
	}
}

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog("")
	if err != nil || !c.Has("fourGrid") {
		t.Fatalf("builtin catalog: %v", err)
	}

	path := filepath.Join(t.TempDir(), "templates.toml")
	data := `
[[template]]
key = "diptych"
name = "Diptych"

[[template.zone]]
x = 0
y = 0
width = 50
height = 100

[[template.zone]]
x = 50
y = 0
width = 50
height = 100
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err = LoadCatalog(path)
	if err != nil {
		t.Fatal(err)
	}
	tpl, err := c.Resolve("diptych")
	if err != nil || tpl.Len() != 2 {
		t.Errorf("diptych = %+v, %v", tpl, err)
	}
	if !c.Has("fourGrid") {
		t.Error("built-ins lost")
	}

	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "none.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRunnerExecute(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c, err := ParseCompose(strings.NewReader(sampleTOML), EncodingTOML)
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	opts := Options{Formats: []string{FormatPNG, FormatPDF}, Scale: 0.5, Loader: solidLoader()}

	res, err := runner.Execute(context.Background(), c, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := len(res.ByFormat(FormatPNG)); got != 2 {
		t.Errorf("png artifacts = %d, want 2", got)
	}
	pdfs := res.ByFormat(FormatPDF)
	if len(pdfs) != 1 || !bytes.HasPrefix(pdfs[0].Data, []byte("%PDF-")) {
		t.Fatalf("pdf artifacts = %d", len(pdfs))
	}
	if res.Stats.Pages != 2 || res.Stats.Photos != 3 || res.Stats.Elements != 2 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.DocHash == "" {
		t.Error("DocHash empty")
	}
	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %v", res.Warnings)
	}
	for i, a := range res.ByFormat(FormatPNG) {
		if a.Page != i || !strings.HasSuffix(a.Filename, ".png") {
			t.Errorf("png %d = page %d %q", i, a.Page, a.Filename)
		}
	}

	again, err := runner.Execute(context.Background(), c, Options{Formats: []string{FormatPDF}, Scale: 0.5, Loader: solidLoader()})
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.ArtifactHit {
		t.Error("second pdf export should come from cache")
	}
	if !bytes.Equal(again.Artifacts[0].Data, pdfs[0].Data) {
		t.Error("cached pdf differs")
	}

	fresh, err := runner.Execute(context.Background(), c, Options{Formats: []string{FormatPDF}, Scale: 0.5, Loader: solidLoader(), Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if fresh.CacheInfo.ArtifactHit || fresh.CacheInfo.PageHits != 0 {
		t.Errorf("refresh must bypass the cache: %+v", fresh.CacheInfo)
	}
}

func TestRunnerWarnings(t *testing.T) {
	broken := photo.LoaderFunc(func(ctx context.Context, ref string) (image.Image, error) {
		return nil, errors.New(errors.ErrCodeImageDecode, "cannot decode %s", ref)
	})
	c := &Compose{Pages: []ComposePage{{Layout: "heroFull", Photos: []string{"x.jpg"}}}}
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), c, Options{Formats: []string{FormatPDF}, Scale: 0.25, Loader: broken})
	if err != nil {
		t.Fatalf("decode failures must not fail the run: %v", err)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Ref != "x.jpg" {
		t.Errorf("Warnings = %v", res.Warnings)
	}
}
