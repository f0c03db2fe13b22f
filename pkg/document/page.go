package document

import (
	"maps"
	"slices"

	"github.com/matzehuels/photobook/pkg/layout"
)

// Layer is one entry of a page's overlay stack, bottom first.
type Layer struct {
	Kind ElementKind `json:"kind"`
	ID   ElementID   `json:"id"`
}

// Page is one printable canvas of a document.
type Page struct {
	ID         int              `json:"id"`
	LayoutKey  string           `json:"layout"`
	Photos     map[int]string   `json:"photos,omitempty"`
	Texts      []TextElement    `json:"texts,omitempty"`
	Stickers   []StickerElement `json:"stickers,omitempty"`
	Layers     []Layer          `json:"layers,omitempty"`
	Background string           `json:"background"`

	// zoneCursor is the next zone used by AutoAssign.
	zoneCursor int
}

func newPage(id int) *Page {
	return &Page{
		ID:         id,
		LayoutKey:  layout.BlankKey,
		Photos:     map[int]string{},
		Background: DefaultBackground,
	}
}

// clone returns a deep copy of p.
func (p *Page) clone() *Page {
	c := *p
	c.Photos = maps.Clone(p.Photos)
	if c.Photos == nil {
		c.Photos = map[int]string{}
	}
	c.Texts = slices.Clone(p.Texts)
	c.Stickers = slices.Clone(p.Stickers)
	c.Layers = slices.Clone(p.Layers)
	return &c
}

// Photo returns the reference assigned to zone, if any.
func (p Page) Photo(zone int) (string, bool) {
	ref, ok := p.Photos[zone]
	return ref, ok
}

// Text returns the text element with the given id.
func (p Page) Text(id ElementID) (TextElement, bool) {
	if i := p.textIndex(id); i >= 0 {
		return p.Texts[i], true
	}
	return TextElement{}, false
}

// Sticker returns the sticker element with the given id.
func (p Page) Sticker(id ElementID) (StickerElement, bool) {
	if i := p.stickerIndex(id); i >= 0 {
		return p.Stickers[i], true
	}
	return StickerElement{}, false
}

// Kind reports which kind of element id refers to on this page.
func (p Page) Kind(id ElementID) ElementKind {
	switch {
	case p.textIndex(id) >= 0:
		return KindText
	case p.stickerIndex(id) >= 0:
		return KindSticker
	}
	return KindNone
}

// ElementIDs returns every text and sticker id on the page.
func (p Page) ElementIDs() []ElementID {
	ids := make([]ElementID, 0, len(p.Texts)+len(p.Stickers))
	for _, t := range p.Texts {
		ids = append(ids, t.ID)
	}
	for _, s := range p.Stickers {
		ids = append(ids, s.ID)
	}
	return ids
}

func (p Page) textIndex(id ElementID) int {
	return slices.IndexFunc(p.Texts, func(t TextElement) bool { return t.ID == id })
}

func (p Page) stickerIndex(id ElementID) int {
	return slices.IndexFunc(p.Stickers, func(s StickerElement) bool { return s.ID == id })
}

func (p *Page) pushLayer(kind ElementKind, id ElementID) {
	p.Layers = append(p.Layers, Layer{Kind: kind, ID: id})
}

func (p *Page) dropLayer(id ElementID) {
	p.Layers = slices.DeleteFunc(p.Layers, func(l Layer) bool { return l.ID == id })
}

func (p *Page) layerIndex(id ElementID) int {
	return slices.IndexFunc(p.Layers, func(l Layer) bool { return l.ID == id })
}
