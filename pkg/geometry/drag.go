package geometry

// DragToPosition resolves a drag gesture to an element position in page
// percent.
//
// start and current are pointer positions in screen pixels; startPos is the
// element position captured at pointer-down. The pointer displacement is
// divided by zoom to undo any on-screen scaling of the page, converted to a
// percentage of the page pixel size, added to startPos and clamped to b.
// A non-positive zoom is treated as 1.
func DragToPosition(start, current, startPos Point, zoom, pageW, pageH float64, b Bounds) Point {
	if zoom <= 0 {
		zoom = 1
	}
	d := current.Sub(start)
	return b.Clamp(Point{
		X: startPos.X + PixelsToPercent(d.X/zoom, pageW),
		Y: startPos.Y + PixelsToPercent(d.Y/zoom, pageH),
	})
}

// DragToSize resolves a resize gesture. Vertical pointer displacement (in
// screen pixels, corrected for zoom) is added to the size captured at
// pointer-down; dragging down grows the element. The result is clamped to
// [lo, hi].
func DragToSize(start, current Point, startSize, zoom, lo, hi float64) float64 {
	if zoom <= 0 {
		zoom = 1
	}
	return Clamp(startSize+(current.Y-start.Y)/zoom, lo, hi)
}

// DragToRotation resolves a rotate gesture around center (screen pixels).
// The angle swept by the pointer since pointer-down is added to the
// rotation captured at the same moment and wrapped to [0, 360).
func DragToRotation(center, start, current Point, startRotation float64) float64 {
	return WrapDegrees(startRotation + Angle(center, current) - Angle(center, start))
}
