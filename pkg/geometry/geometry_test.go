package geometry

import (
	"math"
	"math/rand"
	"testing"
)

const eps = 1e-9

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		v, lo, hi float64
		want      float64
	}{
		{"inside", 5, 0, 10, 5},
		{"below", -3, 0, 10, 0},
		{"above", 11, 0, 10, 10},
		{"at low edge", 0, 0, 10, 0},
		{"at high edge", 10, 0, 10, 10},
		{"nan", math.NaN(), 0, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
				t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
			}
		})
	}
}

func TestBoundsClamp(t *testing.T) {
	tests := []struct {
		name   string
		bounds Bounds
		in     Point
		want   Point
	}{
		{"text far outside", TextBounds, Point{200, 200}, Point{85, 92}},
		{"sticker negative", StickerBounds, Point{-50, -50}, Point{0, 0}},
		{"sticker inside", StickerBounds, Point{45, 12.5}, Point{45, 12.5}},
		{"text mixed", TextBounds, Point{-1, 50}, Point{0, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.bounds.Clamp(tt.in); got != tt.want {
				t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWrapDegrees(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{45, 45},
		{360, 0},
		{370, 10},
		{-10, 350},
		{-360, 0},
		{725, 5},
	}
	for _, tt := range tests {
		if got := WrapDegrees(tt.in); math.Abs(got-tt.want) > eps {
			t.Errorf("WrapDegrees(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPercentPixels(t *testing.T) {
	got := Percent{X: 10, Y: 25, Width: 50, Height: 50}.Pixels(600, 800)
	want := Rect{X: 60, Y: 200, Width: 300, Height: 400}
	if got != want {
		t.Errorf("Pixels() = %+v, want %+v", got, want)
	}
}

func TestRectOverlaps(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	if !a.Overlaps(Rect{X: 5, Y: 5, Width: 10, Height: 10}) {
		t.Error("expected overlap")
	}
	if a.Overlaps(Rect{X: 10, Y: 0, Width: 10, Height: 10}) {
		t.Error("touching edges should not overlap")
	}
}

func TestAspectFill(t *testing.T) {
	tests := []struct {
		name   string
		zone   Rect
		iw, ih float64
		want   Transform
	}{
		{
			name: "wide image in tall zone crops horizontally",
			zone: Rect{X: 20, Y: 20, Width: 270, Height: 370},
			iw:   400, ih: 200,
			want: Transform{Scale: 1.85, OffsetX: -(740.0 - 270) / 2, OffsetY: 0},
		},
		{
			name: "tall image in wide zone crops vertically",
			zone: Rect{X: 0, Y: 0, Width: 200, Height: 100},
			iw:   100, ih: 200,
			want: Transform{Scale: 2, OffsetX: 0, OffsetY: -150},
		},
		{
			name: "same aspect fits exactly",
			zone: Rect{X: 0, Y: 0, Width: 300, Height: 200},
			iw:   600, ih: 400,
			want: Transform{Scale: 0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AspectFill(tt.zone, tt.iw, tt.ih)
			if !ok {
				t.Fatal("AspectFill() ok = false")
			}
			if math.Abs(got.Scale-tt.want.Scale) > eps ||
				math.Abs(got.OffsetX-tt.want.OffsetX) > eps ||
				math.Abs(got.OffsetY-tt.want.OffsetY) > eps {
				t.Errorf("AspectFill() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAspectFillInvalid(t *testing.T) {
	cases := []struct {
		zone   Rect
		iw, ih float64
	}{
		{Rect{Width: 10, Height: 10}, 0, 10},
		{Rect{Width: 10, Height: 10}, 10, -1},
		{Rect{Width: 0, Height: 10}, 10, 10},
	}
	for _, c := range cases {
		if _, ok := AspectFill(c.zone, c.iw, c.ih); ok {
			t.Errorf("AspectFill(%+v, %v, %v) ok = true, want false", c.zone, c.iw, c.ih)
		}
	}
}

// Cover semantics must hold for arbitrary zones and image sizes.
func TestAspectFillCoverProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		zone := Rect{
			X:      rng.Float64() * 500,
			Y:      rng.Float64() * 500,
			Width:  1 + rng.Float64()*600,
			Height: 1 + rng.Float64()*800,
		}
		iw := 1 + rng.Float64()*5000
		ih := 1 + rng.Float64()*5000

		tr, ok := AspectFill(zone, iw, ih)
		if !ok {
			t.Fatalf("AspectFill(%+v, %v, %v) ok = false", zone, iw, ih)
		}
		if tr.Scale < zone.Width/iw-eps || tr.Scale < zone.Height/ih-eps {
			t.Fatalf("scale %v below a zone ratio (%v, %v)", tr.Scale, zone.Width/iw, zone.Height/ih)
		}

		sw, sh := tr.Size(iw, ih)
		origin := tr.Origin(zone)
		tol := 1e-6 * math.Max(sw, sh)
		if origin.X > zone.X+tol || origin.Y > zone.Y+tol ||
			origin.X+sw < zone.Right()-tol || origin.Y+sh < zone.Bottom()-tol {
			t.Fatalf("scaled image %v+(%v x %v) does not cover zone %+v", origin, sw, sh, zone)
		}

		flushX := math.Abs(sw-zone.Width) <= tol
		flushY := math.Abs(sh-zone.Height) <= tol
		if !flushX && !flushY {
			t.Fatalf("neither axis flush: scaled %v x %v, zone %v x %v", sw, sh, zone.Width, zone.Height)
		}

		// Overflow is split evenly.
		if math.Abs((zone.X-origin.X)-(origin.X+sw-zone.Right())) > tol {
			t.Fatalf("horizontal overflow not centered: %+v", tr)
		}
	}
}

func TestDragToPosition(t *testing.T) {
	tests := []struct {
		name     string
		start    Point
		current  Point
		startPos Point
		zoom     float64
		bounds   Bounds
		want     Point
	}{
		{
			name:     "unscaled move",
			start:    Point{100, 100},
			current:  Point{160, 180},
			startPos: Point{10, 10},
			zoom:     1,
			bounds:   TextBounds,
			want:     Point{20, 20},
		},
		{
			name:     "zoomed page halves displacement",
			start:    Point{0, 0},
			current:  Point{120, 160},
			startPos: Point{10, 10},
			zoom:     2,
			bounds:   TextBounds,
			want:     Point{20, 20},
		},
		{
			name:     "clamped to text bounds",
			start:    Point{0, 0},
			current:  Point{6000, 8000},
			startPos: Point{10, 10},
			zoom:     1,
			bounds:   TextBounds,
			want:     Point{85, 92},
		},
		{
			name:     "clamped to sticker origin",
			start:    Point{0, 0},
			current:  Point{-6000, -8000},
			startPos: Point{10, 10},
			zoom:     1,
			bounds:   StickerBounds,
			want:     Point{0, 0},
		},
		{
			name:     "zero zoom treated as one",
			start:    Point{0, 0},
			current:  Point{60, 0},
			startPos: Point{0, 0},
			zoom:     0,
			bounds:   PageBounds,
			want:     Point{10, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DragToPosition(tt.start, tt.current, tt.startPos, tt.zoom, 600, 800, tt.bounds)
			if math.Abs(got.X-tt.want.X) > eps || math.Abs(got.Y-tt.want.Y) > eps {
				t.Errorf("DragToPosition() = %v, want %v", got, tt.want)
			}
		})
	}
}

// N move events must land exactly where one move with the cumulative delta
// lands.
func TestDragNoCompoundingDrift(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		start := Point{X: rng.Float64() * 600, Y: rng.Float64() * 800}
		startPos := Point{X: rng.Float64() * 85, Y: rng.Float64() * 92}
		zoom := 0.25 + rng.Float64()*3

		current := start
		var pos Point
		steps := 1 + rng.Intn(100)
		for i := 0; i < steps; i++ {
			current = current.Add(Point{X: rng.NormFloat64() * 7.3, Y: rng.NormFloat64() * 5.1})
			pos = DragToPosition(start, current, startPos, zoom, 600, 800, TextBounds)
		}

		single := DragToPosition(start, current, startPos, zoom, 600, 800, TextBounds)
		if pos != single {
			t.Fatalf("trial %d: %d moves ended at %v, single move at %v", trial, steps, pos, single)
		}
	}
}

func TestDragToSize(t *testing.T) {
	got := DragToSize(Point{0, 0}, Point{0, 40}, 28, 2, 8, 200)
	if got != 48 {
		t.Errorf("DragToSize() = %v, want 48", got)
	}
	if got := DragToSize(Point{0, 0}, Point{0, -500}, 28, 1, 8, 200); got != 8 {
		t.Errorf("DragToSize() shrink = %v, want 8", got)
	}
}

func TestDragToRotation(t *testing.T) {
	center := Point{100, 100}
	// Quarter turn clockwise: from right of center to below center.
	got := DragToRotation(center, Point{200, 100}, Point{100, 200}, 0)
	if math.Abs(got-90) > 1e-6 {
		t.Errorf("DragToRotation() = %v, want 90", got)
	}
	// Wraps past 360.
	got = DragToRotation(center, Point{200, 100}, Point{100, 200}, 300)
	if math.Abs(got-30) > 1e-6 {
		t.Errorf("DragToRotation() wrap = %v, want 30", got)
	}
}
