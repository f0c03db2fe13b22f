package render

import (
	"image"
	"io"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/photobook/pkg/document"
	"github.com/matzehuels/photobook/pkg/errors"
	"github.com/matzehuels/photobook/pkg/fonts"
	"github.com/matzehuels/photobook/pkg/geometry"
	"github.com/matzehuels/photobook/pkg/layout"
	"github.com/matzehuels/photobook/pkg/photo"
)

// Placeholder styling for empty zones.
const (
	PlaceholderFill    = "#f5f5f5"
	PlaceholderBorder  = "#aaaaaa"
	PlaceholderCaption = "#999999"
)

// lineHeight is the distance between text baselines as a multiple of the
// font size.
const lineHeight = 1.16

// ImageSource provides loaded photos by reference.
type ImageSource interface {
	Get(ref string) (photo.Result, bool)
}

// Failure describes a photo or image sticker that could not be drawn.
type Failure struct {
	Zone    int                // zone index, or -1 for a sticker
	Element document.ElementID // sticker id, or 0 for a zone
	Ref     string
	Err     error
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPageSize sets the unscaled page size in pixels (default 600x800).
func WithPageSize(w, h float64) Option {
	return func(r *Renderer) { r.width, r.height = w, h }
}

// WithScale sets the output multiplier (default 2.0).
func WithScale(s float64) Option {
	return func(r *Renderer) { r.scale = s }
}

// WithFonts sets the font registry (default [fonts.Default]).
func WithFonts(f *fonts.Registry) Option {
	return func(r *Renderer) { r.fonts = f }
}

// WithLogger sets the logger for debug output.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

// Renderer draws pages. It is safe for concurrent use.
type Renderer struct {
	width, height float64
	scale         float64
	fonts         *fonts.Registry
	logger        *log.Logger
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		width:  layout.PageWidth,
		height: layout.PageHeight,
		scale:  2.0,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.scale <= 0 {
		r.scale = 1
	}
	if r.fonts == nil {
		r.fonts = fonts.Default()
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	return r
}

// Size returns the output image size in pixels.
func (r *Renderer) Size() (w, h int) {
	return int(math.Round(r.width * r.scale)), int(math.Round(r.height * r.scale))
}

// PageSize returns the unscaled page size.
func (r *Renderer) PageSize() (w, h float64) { return r.width, r.height }

// Scale returns the output multiplier.
func (r *Renderer) Scale() float64 { return r.scale }

// Render draws page using tpl for its zones. imgs may be nil, in which
// case every assigned zone is drawn as a placeholder.
func (r *Renderer) Render(page document.Page, tpl layout.Template, imgs ImageSource) (image.Image, []Failure) {
	w, h := r.Size()
	p := &painter{
		Renderer: r,
		dc:       gg.NewContext(w, h),
		imgs:     imgs,
		faces:    map[faceKey]font.Face{},
	}
	defer p.close()

	p.background(page.Background)
	for i, z := range tpl.Zones {
		p.zone(i, z.Pixels(r.width, r.height), page.Photos)
	}
	for _, l := range page.Layers {
		switch l.Kind {
		case document.KindText:
			if t, ok := page.Text(l.ID); ok {
				p.text(t)
			}
		case document.KindSticker:
			if s, ok := page.Sticker(l.ID); ok {
				p.sticker(s)
			}
		}
	}
	return p.dc.Image(), p.failures
}

// Refs returns the photo and image-sticker references page needs, in
// drawing order and without duplicates.
func Refs(page document.Page) []string {
	var refs []string
	seen := map[string]bool{}
	add := func(ref string) {
		if ref != "" && !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	for _, z := range slices.Sorted(maps.Keys(page.Photos)) {
		add(page.Photos[z])
	}
	for _, l := range page.Layers {
		if s, ok := page.Sticker(l.ID); ok && IsImageRef(s.Content) {
			add(s.Content)
		}
	}
	return refs
}

var imageExts = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp"}

// IsImageRef reports whether sticker content names an image rather than
// text to draw.
func IsImageRef(content string) bool {
	if strings.HasPrefix(content, "http://") || strings.HasPrefix(content, "https://") {
		return true
	}
	lower := strings.ToLower(content)
	for _, ext := range imageExts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

type faceKey struct {
	family string
	style  fonts.Style
	size   float64
}

// painter holds the state of one Render call.
type painter struct {
	*Renderer
	dc       *gg.Context
	imgs     ImageSource
	faces    map[faceKey]font.Face
	failures []Failure
}

func (p *painter) close() {
	for _, f := range p.faces {
		f.Close()
	}
}

func (p *painter) px(v float64) float64 { return v * p.scale }

func (p *painter) face(family string, style fonts.Style, size float64) font.Face {
	k := faceKey{family, style, size}
	f, ok := p.faces[k]
	if !ok {
		f = p.fonts.Face(family, style, size)
		p.faces[k] = f
	}
	return f
}

func (p *painter) background(color string) {
	if errors.ValidateColor(color) != nil {
		color = document.DefaultBackground
	}
	p.dc.SetHexColor(color)
	p.dc.Clear()
}

func (p *painter) lookup(ref string) (image.Image, error) {
	if p.imgs == nil {
		return nil, errors.New(errors.ErrCodeImageDecode, "%s: not loaded", ref)
	}
	res, ok := p.imgs.Get(ref)
	switch {
	case !ok:
		return nil, errors.New(errors.ErrCodeImageDecode, "%s: not loaded", ref)
	case res.Err != nil:
		return nil, res.Err
	case res.Image == nil:
		return nil, errors.New(errors.ErrCodeImageDecode, "%s: empty image", ref)
	}
	return res.Image, nil
}

func (p *painter) zone(i int, rect geometry.Rect, photos map[int]string) {
	ref, assigned := photos[i]
	if !assigned {
		p.placeholder(i, rect)
		return
	}
	img, err := p.lookup(ref)
	if err == nil {
		err = p.photo(img, rect)
	}
	if err != nil {
		p.failures = append(p.failures, Failure{Zone: i, Ref: ref, Err: err})
		p.placeholder(i, rect)
	}
}

// photo draws img into rect with aspect-fill scaling.
func (p *painter) photo(img image.Image, rect geometry.Rect) error {
	b := img.Bounds()
	tf, ok := geometry.AspectFill(rect, float64(b.Dx()), float64(b.Dy()))
	if !ok {
		return errors.New(errors.ErrCodeImageDecode, "image has no pixels")
	}
	// Visible part of the source image, in source pixels.
	crop := image.Rect(
		b.Min.X+int(math.Round(-tf.OffsetX/tf.Scale)),
		b.Min.Y+int(math.Round(-tf.OffsetY/tf.Scale)),
		b.Min.X+int(math.Round((-tf.OffsetX+rect.Width)/tf.Scale)),
		b.Min.Y+int(math.Round((-tf.OffsetY+rect.Height)/tf.Scale)),
	).Intersect(b)
	if crop.Empty() {
		return errors.New(errors.ErrCodeImageDecode, "image has no visible pixels")
	}
	dw, dh := int(math.Round(p.px(rect.Width))), int(math.Round(p.px(rect.Height)))
	if dw <= 0 || dh <= 0 {
		return nil
	}
	fitted := imaging.Resize(imaging.Crop(img, crop), dw, dh, imaging.Lanczos)
	p.dc.DrawImage(fitted, int(math.Round(p.px(rect.X))), int(math.Round(p.px(rect.Y))))
	return nil
}

func (p *painter) placeholder(i int, rect geometry.Rect) {
	x, y, w, h := p.px(rect.X), p.px(rect.Y), p.px(rect.Width), p.px(rect.Height)
	dc := p.dc
	dc.SetHexColor(PlaceholderFill)
	dc.DrawRectangle(x, y, w, h)
	dc.Fill()

	dc.SetHexColor(PlaceholderBorder)
	dc.SetLineWidth(p.px(2))
	dc.SetDash(p.px(8), p.px(4))
	dc.DrawRectangle(x+p.px(1), y+p.px(1), w-p.px(2), h-p.px(2))
	dc.Stroke()
	dc.SetDash()

	dc.SetHexColor(PlaceholderCaption)
	dc.SetFontFace(p.face(fonts.Go, fonts.Regular, p.px(16)))
	dc.DrawStringAnchored("Photo "+strconv.Itoa(i+1), x+w/2, y+h/2, 0.5, 0.5)
}

func (p *painter) text(t document.TextElement) {
	if strings.TrimSpace(t.Content) == "" {
		return
	}
	dc := p.dc
	size := p.px(t.FontSize)
	dc.SetFontFace(p.face(t.FontFamily, fonts.StyleOf(t.Bold, t.Italic), size))
	color := t.Color
	if errors.ValidateColor(color) != nil {
		color = document.DefaultTextColor
	}
	dc.SetHexColor(color)

	lines := strings.Split(t.Content, "\n")
	var boxW float64
	for _, line := range lines {
		w, _ := dc.MeasureString(line)
		boxW = max(boxW, w)
	}
	x0, y0 := p.px(t.X/100*p.width), p.px(t.Y/100*p.height)
	for i, line := range lines {
		w, _ := dc.MeasureString(line)
		var x float64
		switch t.Align {
		case document.AlignCenter:
			x = x0 + (boxW-w)/2
		case document.AlignRight:
			x = x0 + boxW - w
		default:
			x = x0
		}
		baseline := y0 + size*lineHeight*float64(i) + size
		dc.DrawString(line, x, baseline)
	}
}

func (p *painter) sticker(s document.StickerElement) {
	dc := p.dc
	size := p.px(s.Size)
	x, y := p.px(s.X/100*p.width), p.px(s.Y/100*p.height)
	cx, cy := x+size/2, y+size/2

	dc.Push()
	defer dc.Pop()
	dc.RotateAbout(gg.Radians(s.Rotation), cx, cy)

	if IsImageRef(s.Content) {
		img, err := p.lookup(s.Content)
		if err != nil {
			p.failures = append(p.failures, Failure{Zone: -1, Element: s.ID, Ref: s.Content, Err: err})
			p.badge(s, cx, cy, size)
			return
		}
		b := img.Bounds()
		f := size / float64(max(b.Dx(), b.Dy(), 1))
		w, h := max(int(math.Round(float64(b.Dx())*f)), 1), max(int(math.Round(float64(b.Dy())*f)), 1)
		dc.DrawImageAnchored(imaging.Resize(img, w, h, imaging.Lanczos), int(math.Round(cx)), int(math.Round(cy)), 0.5, 0.5)
		return
	}

	if !p.fonts.HasGlyphs(fonts.Go, fonts.Regular, s.Content) {
		p.logger.Debug("sticker glyph not in font, drawing badge", "id", s.ID, "content", s.Content)
		p.badge(s, cx, cy, size)
		return
	}
	dc.SetFontFace(p.face(fonts.Go, fonts.Regular, size))
	dc.SetHexColor(document.DefaultTextColor)
	dc.DrawStringAnchored(s.Content, cx, cy, 0.5, 0.35)
}

// badge draws a round stand-in for a sticker that cannot be drawn. The
// color is derived from the content so equal stickers look alike.
func (p *painter) badge(s document.StickerElement, cx, cy, size float64) {
	var h uint32 = 2166136261
	for _, b := range []byte(s.Content) {
		h = (h ^ uint32(b)) * 16777619
	}
	dc := p.dc
	dc.SetRGB(float64(h>>16&0xff)/255*0.6+0.3, float64(h>>8&0xff)/255*0.6+0.3, float64(h&0xff)/255*0.6+0.3)
	dc.DrawCircle(cx, cy, size/2)
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(max(size/16, 1))
	dc.DrawCircle(cx, cy, size/2-size/32)
	dc.Stroke()
}
