package document

import (
	"github.com/matzehuels/photobook/pkg/geometry"
)

// ElementID identifies a text or sticker element within a document.
type ElementID uint64

// ElementKind distinguishes the element types that can be selected.
type ElementKind int

const (
	KindNone ElementKind = iota
	KindText
	KindSticker
)

func (k ElementKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindSticker:
		return "sticker"
	}
	return "none"
}

// Align is the horizontal alignment of text around its anchor.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Text defaults and limits.
const (
	DefaultText       = "Double-click to edit"
	DefaultFontSize   = 28.0
	DefaultTextColor  = "#222222"
	DefaultFontFamily = "Arial"
	DefaultTextX      = 25.0
	DefaultTextY      = 47.5
	MinFontSize       = 8.0
	MaxFontSize       = 200.0
)

// Sticker defaults and limits.
const (
	DefaultStickerSize = 48.0
	MinStickerSize     = 8.0
	MaxStickerSize     = 400.0
)

// DefaultBackground is the background color of new pages.
const DefaultBackground = "#ffffff"

// FontFamilies lists the families offered for text elements.
var FontFamilies = []string{"Arial", "Georgia", "Times New Roman", "Courier New", "Verdana", "Impact"}

// TextElement is a styled text overlay anchored at (X, Y) in page percent.
type TextElement struct {
	ID         ElementID `json:"id"`
	Content    string    `json:"content"`
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
	FontSize   float64   `json:"font_size"`
	Color      string    `json:"color"`
	FontFamily string    `json:"font_family"`
	Bold       bool      `json:"bold,omitempty"`
	Italic     bool      `json:"italic,omitempty"`
	Align      Align     `json:"align"`
}

// Position returns the anchor point.
func (t TextElement) Position() geometry.Point { return geometry.Point{X: t.X, Y: t.Y} }

// StickerElement is a glyph or image overlay anchored at (X, Y) in page
// percent. Size is in page pixels.
type StickerElement struct {
	ID       ElementID `json:"id"`
	Content  string    `json:"content"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Size     float64   `json:"size"`
	Rotation float64   `json:"rotation"`
}

// Position returns the anchor point.
func (s StickerElement) Position() geometry.Point { return geometry.Point{X: s.X, Y: s.Y} }

// TextPatch lists the fields of a text element to change. Nil fields are
// left untouched.
type TextPatch struct {
	Content    *string
	X          *float64
	Y          *float64
	FontSize   *float64
	Color      *string
	FontFamily *string
	Bold       *bool
	Italic     *bool
	Align      *Align
}

// StickerPatch lists the fields of a sticker element to change. Nil fields
// are left untouched.
type StickerPatch struct {
	Content  *string
	X        *float64
	Y        *float64
	Size     *float64
	Rotation *float64
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T { return &v }

func newText(id ElementID) TextElement {
	return TextElement{
		ID:         id,
		Content:    DefaultText,
		X:          DefaultTextX,
		Y:          DefaultTextY,
		FontSize:   DefaultFontSize,
		Color:      DefaultTextColor,
		FontFamily: DefaultFontFamily,
		Bold:       true,
		Align:      AlignLeft,
	}
}

// apply merges p into t and re-establishes the text invariants.
func (t *TextElement) apply(p TextPatch) {
	if p.Content != nil {
		t.Content = *p.Content
	}
	if p.X != nil {
		t.X = *p.X
	}
	if p.Y != nil {
		t.Y = *p.Y
	}
	if p.FontSize != nil {
		t.FontSize = *p.FontSize
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	if p.FontFamily != nil {
		t.FontFamily = *p.FontFamily
	}
	if p.Bold != nil {
		t.Bold = *p.Bold
	}
	if p.Italic != nil {
		t.Italic = *p.Italic
	}
	if p.Align != nil {
		t.Align = *p.Align
	}
	t.normalize()
}

func (t *TextElement) normalize() {
	pos := geometry.TextBounds.Clamp(t.Position())
	t.X, t.Y = pos.X, pos.Y
	t.FontSize = geometry.Clamp(t.FontSize, MinFontSize, MaxFontSize)
	switch t.Align {
	case AlignLeft, AlignCenter, AlignRight:
	default:
		t.Align = AlignLeft
	}
}

func newSticker(id ElementID, content string, x, y float64) StickerElement {
	s := StickerElement{ID: id, Content: content, X: x, Y: y, Size: DefaultStickerSize}
	s.normalize()
	return s
}

// apply merges p into s and re-establishes the sticker invariants.
func (s *StickerElement) apply(p StickerPatch) {
	if p.Content != nil {
		s.Content = *p.Content
	}
	if p.X != nil {
		s.X = *p.X
	}
	if p.Y != nil {
		s.Y = *p.Y
	}
	if p.Size != nil {
		s.Size = *p.Size
	}
	if p.Rotation != nil {
		s.Rotation = *p.Rotation
	}
	s.normalize()
}

func (s *StickerElement) normalize() {
	pos := geometry.StickerBounds.Clamp(s.Position())
	s.X, s.Y = pos.X, pos.Y
	s.Size = geometry.Clamp(s.Size, MinStickerSize, MaxStickerSize)
	s.Rotation = geometry.WrapDegrees(s.Rotation)
}
