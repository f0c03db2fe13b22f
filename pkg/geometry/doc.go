// Package geometry maps pointer input and zone geometry onto normalized page
// coordinates.
//
// # Coordinate Space
//
// Page positions are percentages of the page (0-100 on both axes, origin at
// the top-left corner). Pixel values only appear at the edges: pointer
// events arrive in screen pixels, and the renderer converts percentages to
// page pixels with [Percent.Pixels].
//
// # Drag Resolution
//
// [DragToPosition] always computes the total displacement from the pointer
// position recorded when the gesture started, and adds it to the element
// position recorded at the same moment:
//
//	pos := geometry.DragToPosition(start, current, startPos, zoom, 600, 800, geometry.TextBounds)
//
// Because nothing is accumulated per event, N move events end at exactly the
// same position as a single event carrying the cumulative delta.
//
// # Aspect Fill
//
// [AspectFill] computes cover scaling for a photo placed in a zone: the photo
// is scaled by max(zoneW/imgW, zoneH/imgH) and centered so the overflow is
// cropped equally on both sides of the overflowing axis.
//
// All functions in this package are pure and safe for concurrent use.
package geometry
