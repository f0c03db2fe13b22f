package geometry

import "math"

// Point is a position in either pointer pixels or page percent, depending on
// the caller.
type Point struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X      float64 `json:"x" toml:"x"`
	Y      float64 `json:"y" toml:"y"`
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the center point of the rectangle.
func (r Rect) Center() Point { return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2} }

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Overlaps reports whether r and o share a region of non-zero area.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Percent converts a rectangle given in page percent to page pixels.
type Percent Rect

// Pixels returns the rectangle scaled onto a page of the given pixel size.
func (p Percent) Pixels(pageW, pageH float64) Rect {
	return Rect{
		X:      p.X / 100 * pageW,
		Y:      p.Y / 100 * pageH,
		Width:  p.Width / 100 * pageW,
		Height: p.Height / 100 * pageH,
	}
}

// Bounds is the permitted range of an element's anchor point, in page percent.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

var (
	// TextBounds keeps a text anchor on the page regardless of text extent.
	TextBounds = Bounds{MinX: 0, MaxX: 85, MinY: 0, MaxY: 92}

	// StickerBounds keeps a sticker anchor on the page.
	StickerBounds = Bounds{MinX: 0, MaxX: 90, MinY: 0, MaxY: 90}

	// PageBounds is the full page.
	PageBounds = Bounds{MinX: 0, MaxX: 100, MinY: 0, MaxY: 100}
)

// Clamp returns p limited to the bounds on both axes.
func (b Bounds) Clamp(p Point) Point {
	return Point{
		X: Clamp(p.X, b.MinX, b.MaxX),
		Y: Clamp(p.Y, b.MinY, b.MaxY),
	}
}

// Clamp limits v to [lo, hi]. NaN is mapped to lo so that a bad pointer
// event can never poison stored positions.
func Clamp(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v), v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}

// PixelsToPercent converts a pixel distance to a percentage of size.
// A non-positive size yields zero.
func PixelsToPercent(px, size float64) float64 {
	if size <= 0 {
		return 0
	}
	return px / size * 100
}

// WrapDegrees normalizes an angle to [0, 360).
func WrapDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	if d == 360 {
		return 0
	}
	return d
}

// Angle returns the direction from center to p in degrees, measured
// clockwise from the positive x axis (screen coordinates grow downward).
func Angle(center, p Point) float64 {
	return math.Atan2(p.Y-center.Y, p.X-center.X) * 180 / math.Pi
}
