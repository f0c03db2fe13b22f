package geometry_test

import (
	"fmt"

	"github.com/matzehuels/photobook/pkg/geometry"
)

func ExampleAspectFill() {
	zone := geometry.Rect{X: 20, Y: 20, Width: 270, Height: 370}
	t, _ := geometry.AspectFill(zone, 1080, 1080)
	w, h := t.Size(1080, 1080)
	fmt.Printf("scale=%.4f size=%.0fx%.0f offset=(%.0f, %.0f)\n", t.Scale, w, h, t.OffsetX, t.OffsetY)
	// Output: scale=0.3426 size=370x370 offset=(-50, 0)
}

func ExampleDragToPosition() {
	start := geometry.Point{X: 300, Y: 400}
	pos := geometry.DragToPosition(start, geometry.Point{X: 360, Y: 480}, geometry.Point{X: 25, Y: 47.5}, 1, 600, 800, geometry.TextBounds)
	fmt.Printf("%.1f %.1f\n", pos.X, pos.Y)
	// Output: 35.0 57.5
}
