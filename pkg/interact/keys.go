package interact

import (
	"github.com/matzehuels/photobook/pkg/document"
	"github.com/matzehuels/photobook/pkg/geometry"
)

// NudgeStep is the distance in page percent an arrow key moves the
// selected element.
const NudgeStep = 1.0

// Key is a keyboard command understood by [Controller.Key].
type Key string

const (
	KeyLeft      Key = "left"
	KeyRight     Key = "right"
	KeyUp        Key = "up"
	KeyDown      Key = "down"
	KeyDelete    Key = "delete"
	KeyBackspace Key = "backspace"
	KeyEscape    Key = "esc"
)

// Key applies a keyboard command to the selection and reports whether the
// document changed. Keys are ignored while a drag is in progress.
func (c *Controller) Key(k Key) bool {
	if c.state == Dragging {
		return false
	}
	switch k {
	case KeyLeft:
		return c.Nudge(-NudgeStep, 0)
	case KeyRight:
		return c.Nudge(NudgeStep, 0)
	case KeyUp:
		return c.Nudge(0, -NudgeStep)
	case KeyDown:
		return c.Nudge(0, NudgeStep)
	case KeyDelete, KeyBackspace:
		return c.Delete()
	case KeyEscape:
		c.doc.ClearSelection()
	}
	return false
}

// Nudge moves the selected element by (dx, dy) page percent, clamped to the
// element's bounds.
func (c *Controller) Nudge(dx, dy float64) bool {
	sel := c.doc.Selection()
	page := c.doc.ActivePage()
	d := geometry.Point{X: dx, Y: dy}
	switch sel.Kind {
	case document.KindText:
		t, ok := page.Text(sel.ID)
		if !ok {
			return false
		}
		pos := geometry.TextBounds.Clamp(t.Position().Add(d))
		return c.doc.UpdateText(c.doc.Active(), sel.ID, document.TextPatch{X: &pos.X, Y: &pos.Y})
	case document.KindSticker:
		s, ok := page.Sticker(sel.ID)
		if !ok {
			return false
		}
		pos := geometry.StickerBounds.Clamp(s.Position().Add(d))
		return c.doc.UpdateSticker(c.doc.Active(), sel.ID, document.StickerPatch{X: &pos.X, Y: &pos.Y})
	}
	return false
}

// Delete removes the selected element and ends any gesture on it.
func (c *Controller) Delete() bool {
	c.end()
	return c.doc.DeleteSelected()
}
