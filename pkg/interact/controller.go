package interact

import (
	"github.com/matzehuels/photobook/pkg/document"
	"github.com/matzehuels/photobook/pkg/geometry"
	"github.com/matzehuels/photobook/pkg/layout"
)

// Mode selects what a drag gesture changes.
type Mode int

const (
	// Move drags the element's anchor point.
	Move Mode = iota
	// Resize changes font size or sticker size with vertical displacement.
	Resize
	// Rotate turns a sticker around its center.
	Rotate
)

func (m Mode) String() string {
	switch m {
	case Resize:
		return "resize"
	case Rotate:
		return "rotate"
	}
	return "move"
}

// State is the controller's gesture state.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Viewport describes how the active page is displayed.
type Viewport struct {
	Zoom       float64 // on-screen scale of the page; <= 0 means 1
	PageWidth  float64 // unscaled page width in pixels
	PageHeight float64 // unscaled page height in pixels
}

// DefaultViewport shows the page at its natural size.
var DefaultViewport = Viewport{Zoom: 1, PageWidth: layout.PageWidth, PageHeight: layout.PageHeight}

func (v Viewport) zoom() float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom
}

// Target is what lies under the pointer at pointer-down. The zero Target is
// empty canvas.
type Target struct {
	ID   document.ElementID
	Mode Mode
}

// Canvas is the empty-canvas target.
var Canvas = Target{}

type gesture struct {
	page    int
	kind    document.ElementKind
	target  Target
	pointer geometry.Point

	pos      geometry.Point
	size     float64
	rotation float64
	center   geometry.Point
}

// Controller applies gestures to the active page of a document.
// It is not safe for concurrent use.
type Controller struct {
	doc   *document.Document
	view  Viewport
	state State
	g     gesture
}

// New returns an idle controller editing doc.
func New(doc *document.Document, view Viewport) *Controller {
	return &Controller{doc: doc, view: view}
}

// State returns the current gesture state.
func (c *Controller) State() State { return c.state }

// Viewport returns the current viewport.
func (c *Controller) Viewport() Viewport { return c.view }

// SetViewport changes zoom or page size. A gesture in progress keeps using
// the viewport it started with.
func (c *Controller) SetViewport(v Viewport) { c.view = v }

// PointerDown starts a gesture at pointer p. A target on the active page is
// selected and, unless the mode does not apply to its kind, dragged; it
// reports whether a drag started. Pointer-down on empty canvas or on an
// element that no longer exists clears the selection.
func (c *Controller) PointerDown(t Target, p geometry.Point) bool {
	c.end()
	if t.ID == 0 || !c.doc.Select(t.ID) {
		c.doc.ClearSelection()
		return false
	}
	page := c.doc.ActivePage()
	g := gesture{page: c.doc.Active(), kind: page.Kind(t.ID), target: t, pointer: p}
	switch g.kind {
	case document.KindText:
		txt, _ := page.Text(t.ID)
		if t.Mode == Rotate {
			return false
		}
		g.pos, g.size = txt.Position(), txt.FontSize
	case document.KindSticker:
		s, _ := page.Sticker(t.ID)
		g.pos, g.size, g.rotation = s.Position(), s.Size, s.Rotation
		g.center = c.stickerCenter(s)
	}
	c.g = g
	c.state = Dragging
	return true
}

// PointerMove applies the gesture for pointer p. It reports whether the
// element was updated; it is a no-op while idle or when the element has
// been deleted mid-drag.
func (c *Controller) PointerMove(p geometry.Point) bool {
	if c.state != Dragging {
		return false
	}
	g := c.g
	zoom := c.view.zoom()
	switch g.kind {
	case document.KindText:
		var patch document.TextPatch
		switch g.target.Mode {
		case Resize:
			patch.FontSize = document.Ptr(geometry.DragToSize(g.pointer, p, g.size, zoom,
				document.MinFontSize, document.MaxFontSize))
		default:
			pos := geometry.DragToPosition(g.pointer, p, g.pos, zoom, c.view.PageWidth, c.view.PageHeight, geometry.TextBounds)
			patch.X, patch.Y = &pos.X, &pos.Y
		}
		return c.doc.UpdateText(g.page, g.target.ID, patch)
	case document.KindSticker:
		var patch document.StickerPatch
		switch g.target.Mode {
		case Resize:
			patch.Size = document.Ptr(geometry.DragToSize(g.pointer, p, g.size, zoom,
				document.MinStickerSize, document.MaxStickerSize))
		case Rotate:
			patch.Rotation = document.Ptr(geometry.DragToRotation(g.center, g.pointer, p, g.rotation))
		default:
			pos := geometry.DragToPosition(g.pointer, p, g.pos, zoom, c.view.PageWidth, c.view.PageHeight, geometry.StickerBounds)
			patch.X, patch.Y = &pos.X, &pos.Y
		}
		return c.doc.UpdateSticker(g.page, g.target.ID, patch)
	}
	return false
}

// PointerUp ends the gesture. The element keeps the value computed by the
// last PointerMove.
func (c *Controller) PointerUp() { c.end() }

func (c *Controller) end() {
	c.state = Idle
	c.g = gesture{}
}

// stickerCenter returns the on-screen center of s. Stickers are drawn as a
// Size x Size box whose top-left corner is the anchor.
func (c *Controller) stickerCenter(s document.StickerElement) geometry.Point {
	zoom := c.view.zoom()
	half := s.Size / 2
	return geometry.Point{
		X: (s.X/100*c.view.PageWidth + half) * zoom,
		Y: (s.Y/100*c.view.PageHeight + half) * zoom,
	}
}
