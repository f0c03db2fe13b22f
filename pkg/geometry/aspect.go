package geometry

import "math"

// Transform places a scaled image relative to the top-left corner of a zone.
// Offsets are never positive: the scaled image starts at or before the zone
// edge on each axis.
type Transform struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// Size returns the scaled image dimensions for the given intrinsic size.
func (t Transform) Size(intrinsicW, intrinsicH float64) (w, h float64) {
	return intrinsicW * t.Scale, intrinsicH * t.Scale
}

// Origin returns the absolute top-left corner of the scaled image.
func (t Transform) Origin(zone Rect) Point {
	return Point{X: zone.X + t.OffsetX, Y: zone.Y + t.OffsetY}
}

// AspectFill computes cover scaling of an intrinsicW x intrinsicH image into
// zone. The zone and the intrinsic size must be in the same unit (pixels).
// ok is false when any dimension is not positive; the zone then has nothing
// to fill and callers should fall back to a placeholder.
func AspectFill(zone Rect, intrinsicW, intrinsicH float64) (t Transform, ok bool) {
	if zone.Width <= 0 || zone.Height <= 0 || intrinsicW <= 0 || intrinsicH <= 0 {
		return Transform{}, false
	}
	scale := math.Max(zone.Width/intrinsicW, zone.Height/intrinsicH)
	sw, sh := intrinsicW*scale, intrinsicH*scale
	return Transform{
		Scale:   scale,
		OffsetX: -(sw - zone.Width) / 2,
		OffsetY: -(sh - zone.Height) / 2,
	}, true
}
