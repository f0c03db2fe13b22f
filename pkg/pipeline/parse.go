package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/photobook/pkg/document"
	"github.com/matzehuels/photobook/pkg/errors"
	"github.com/matzehuels/photobook/pkg/layout"
)

// Compose describes a document as data. It is the on-disk form read by
// `photobook render` and the request body of the server's render endpoint.
//
//	[[page]]
//	layout = "fourGrid"
//	background = "#fdf6e3"
//	photos = ["beach.jpg", "", "https://example.com/dunes.jpg"]
//
//	[[page.text]]
//	content = "Summer"
//	x = 10
//	y = 5
//	font_size = 48
type Compose struct {
	Pages []ComposePage `toml:"page" json:"pages"`
}

// ComposePage is one page. Photos are listed in zone order; an empty
// string leaves that zone unassigned.
type ComposePage struct {
	Layout     string           `toml:"layout" json:"layout"`
	Background string           `toml:"background,omitempty" json:"background,omitempty"`
	Photos     []string         `toml:"photos,omitempty" json:"photos,omitempty"`
	Texts      []ComposeText    `toml:"text,omitempty" json:"texts,omitempty"`
	Stickers   []ComposeSticker `toml:"sticker,omitempty" json:"stickers,omitempty"`
}

// ComposeText is a text element. Unset fields keep the editor defaults.
type ComposeText struct {
	Content    *string  `toml:"content,omitempty" json:"content,omitempty"`
	X          *float64 `toml:"x,omitempty" json:"x,omitempty"`
	Y          *float64 `toml:"y,omitempty" json:"y,omitempty"`
	FontSize   *float64 `toml:"font_size,omitempty" json:"font_size,omitempty"`
	Color      *string  `toml:"color,omitempty" json:"color,omitempty"`
	FontFamily *string  `toml:"font_family,omitempty" json:"font_family,omitempty"`
	Bold       *bool    `toml:"bold,omitempty" json:"bold,omitempty"`
	Italic     *bool    `toml:"italic,omitempty" json:"italic,omitempty"`
	Align      *string  `toml:"align,omitempty" json:"align,omitempty"`
}

// ComposeSticker is a sticker. Content is a glyph or an image reference.
type ComposeSticker struct {
	Content  string   `toml:"content" json:"content"`
	X        float64  `toml:"x" json:"x"`
	Y        float64  `toml:"y" json:"y"`
	Size     *float64 `toml:"size,omitempty" json:"size,omitempty"`
	Rotation *float64 `toml:"rotation,omitempty" json:"rotation,omitempty"`
}

// Compose file encodings.
const (
	EncodingTOML = "toml"
	EncodingJSON = "json"
)

// ParseCompose decodes a compose file in the given encoding.
func ParseCompose(r io.Reader, encoding string) (*Compose, error) {
	var c Compose
	switch encoding {
	case EncodingTOML:
		if _, err := toml.NewDecoder(r).Decode(&c); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode compose toml")
		}
	case EncodingJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode compose json")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown compose encoding %q", encoding)
	}
	if len(c.Pages) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "compose file has no pages")
	}
	return &c, nil
}

// LoadCompose reads a compose file, choosing the encoding from the
// extension: .json is JSON, anything else TOML.
func LoadCompose(path string) (*Compose, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read compose file")
	}
	enc := EncodingTOML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		enc = EncodingJSON
	}
	return ParseCompose(bytes.NewReader(data), enc)
}

// Build replays c onto a new document using catalog. The first error
// names the page and element it came from. The returned document has page
// 0 active and nothing selected.
func (c *Compose) Build(catalog *layout.Catalog) (*document.Document, error) {
	doc := document.New(catalog)
	for i, p := range c.Pages {
		if i > 0 {
			doc.AddPage()
		}
		if err := buildPage(doc, i, p); err != nil {
			return nil, err
		}
	}
	if err := doc.SetActive(0); err != nil {
		return nil, err
	}
	doc.ClearSelection()
	return doc, nil
}

func buildPage(doc *document.Document, i int, p ComposePage) error {
	if p.Layout != "" {
		if err := doc.SetLayout(i, p.Layout); err != nil {
			return fmt.Errorf("page %d: %w", i+1, err)
		}
	}
	if p.Background != "" {
		if err := doc.SetBackground(i, p.Background); err != nil {
			return fmt.Errorf("page %d: %w", i+1, err)
		}
	}
	for z, ref := range p.Photos {
		if ref == "" {
			continue
		}
		if err := doc.AssignPhoto(i, z, ref); err != nil {
			return fmt.Errorf("page %d photo %d: %w", i+1, z+1, err)
		}
	}
	for n, t := range p.Texts {
		patch, err := t.patch()
		if err != nil {
			return fmt.Errorf("page %d text %d: %w", i+1, n+1, err)
		}
		id, err := doc.AddText(i)
		if err != nil {
			return err
		}
		doc.UpdateText(i, id, patch)
	}
	for n, s := range p.Stickers {
		if strings.TrimSpace(s.Content) == "" {
			return errors.New(errors.ErrCodeInvalidInput, "page %d sticker %d: content is empty", i+1, n+1)
		}
		id, err := doc.AddSticker(i, s.Content, s.X, s.Y)
		if err != nil {
			return err
		}
		doc.UpdateSticker(i, id, document.StickerPatch{Size: s.Size, Rotation: s.Rotation})
	}
	return nil
}

func (t ComposeText) patch() (document.TextPatch, error) {
	p := document.TextPatch{
		Content:    t.Content,
		X:          t.X,
		Y:          t.Y,
		FontSize:   t.FontSize,
		Color:      t.Color,
		FontFamily: t.FontFamily,
		Bold:       t.Bold,
		Italic:     t.Italic,
	}
	if t.Color != nil {
		if err := errors.ValidateColor(*t.Color); err != nil {
			return p, err
		}
	}
	if t.Align != nil {
		switch a := document.Align(*t.Align); a {
		case document.AlignLeft, document.AlignCenter, document.AlignRight:
			p.Align = &a
		default:
			return p, errors.New(errors.ErrCodeInvalidInput, "unknown alignment %q", *t.Align)
		}
	}
	return p, nil
}
