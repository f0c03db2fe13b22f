package document

import (
	"slices"
)

// AddText appends a text element with default style to page i, selects it
// and returns its id. Page i becomes the active page.
func (d *Document) AddText(i int) (ElementID, error) {
	if err := d.SetActive(i); err != nil {
		return 0, err
	}
	t := newText(d.nextElementID())
	p := d.pages[i]
	p.Texts = append(p.Texts, t)
	p.pushLayer(KindText, t.ID)
	d.selection = Selection{Kind: KindText, ID: t.ID}
	return t.ID, nil
}

// AddSticker appends a sticker at (x, y) to page i, selects it and returns
// its id. The position is clamped to the sticker bounds. Page i becomes the
// active page.
func (d *Document) AddSticker(i int, content string, x, y float64) (ElementID, error) {
	if err := d.SetActive(i); err != nil {
		return 0, err
	}
	s := newSticker(d.nextElementID(), content, x, y)
	p := d.pages[i]
	p.Stickers = append(p.Stickers, s)
	p.pushLayer(KindSticker, s.ID)
	d.selection = Selection{Kind: KindSticker, ID: s.ID}
	return s.ID, nil
}

// UpdateText merges patch into the text element id on page i. It reports
// whether the element was found; unknown ids and pages are a no-op.
func (d *Document) UpdateText(i int, id ElementID, patch TextPatch) bool {
	p := d.page(i)
	if p == nil {
		return false
	}
	j := p.textIndex(id)
	if j < 0 {
		return false
	}
	p.Texts[j].apply(patch)
	return true
}

// UpdateSticker merges patch into the sticker element id on page i. It
// reports whether the element was found; unknown ids and pages are a no-op.
func (d *Document) UpdateSticker(i int, id ElementID, patch StickerPatch) bool {
	p := d.page(i)
	if p == nil {
		return false
	}
	j := p.stickerIndex(id)
	if j < 0 {
		return false
	}
	p.Stickers[j].apply(patch)
	return true
}

// DeleteText removes the text element id from page i and clears the
// selection if it pointed at it.
func (d *Document) DeleteText(i int, id ElementID) bool {
	p := d.page(i)
	if p == nil {
		return false
	}
	j := p.textIndex(id)
	if j < 0 {
		return false
	}
	p.Texts = slices.Delete(p.Texts, j, j+1)
	d.forget(p, id)
	return true
}

// DeleteSticker removes the sticker element id from page i and clears the
// selection if it pointed at it.
func (d *Document) DeleteSticker(i int, id ElementID) bool {
	p := d.page(i)
	if p == nil {
		return false
	}
	j := p.stickerIndex(id)
	if j < 0 {
		return false
	}
	p.Stickers = slices.Delete(p.Stickers, j, j+1)
	d.forget(p, id)
	return true
}

// BringToFront moves element id to the top of page i's overlay stack.
func (d *Document) BringToFront(i int, id ElementID) bool {
	p := d.page(i)
	if p == nil {
		return false
	}
	j := p.layerIndex(id)
	if j < 0 {
		return false
	}
	l := p.Layers[j]
	p.Layers = append(slices.Delete(p.Layers, j, j+1), l)
	return true
}

// SendToBack moves element id to the bottom of page i's overlay stack.
func (d *Document) SendToBack(i int, id ElementID) bool {
	p := d.page(i)
	if p == nil {
		return false
	}
	j := p.layerIndex(id)
	if j < 0 {
		return false
	}
	l := p.Layers[j]
	p.Layers = slices.Insert(slices.Delete(p.Layers, j, j+1), 0, l)
	return true
}

func (d *Document) page(i int) *Page {
	if i < 0 || i >= len(d.pages) {
		return nil
	}
	return d.pages[i]
}

func (d *Document) forget(p *Page, id ElementID) {
	p.dropLayer(id)
	if d.selection.ID == id {
		d.selection = Selection{}
	}
}
