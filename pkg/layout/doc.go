// Package layout provides the catalog of zone-based page templates.
//
// # Templates and Zones
//
// A [Template] is a named, ordered list of [Zone] rectangles in page percent
// (0-100, origin top-left). Each zone accepts exactly one photo and is
// addressed by its index in the template. A template may have no zones
// (the "blank" template).
//
// # Catalog
//
// A [Catalog] is an immutable lookup table built once at startup and passed
// by reference to whoever needs it:
//
//	cat := layout.Builtin()
//	tpl, err := cat.Resolve("fourGrid")
//
// [Catalog.Resolve] fails with an UNKNOWN_LAYOUT error for keys it does not
// hold. Templates never change after the catalog is built; [Catalog.With]
// returns a new catalog rather than modifying the receiver.
//
// # Built-in Templates
//
// Grid templates (heroFull, twoVertical, twoHorizontal, threeVertical,
// fourGrid, sixGrid) are computed from [Padding] and [Gap] on a
// [PageWidth] x [PageHeight] page, so their zones partition the printable
// area without overlap. Decorative templates (magazine, scrapbook, travel,
// instagram, yearbook) are literal data; their zones are free-form and may
// overlap.
//
// # Template Files
//
// Additional templates can be loaded from TOML with [Load]:
//
//	[[template]]
//	key = "polaroid"
//	name = "Polaroid"
//	unit = "px"          # "percent" (default) or "px" on the 600x800 page
//
//	  [[template.zone]]
//	  x = 60
//	  y = 60
//	  width = 480
//	  height = 520
//
// Zones that leave the page are rejected with an INVALID_TEMPLATE error.
package layout
