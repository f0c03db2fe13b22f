package layout

import (
	"fmt"

	"github.com/matzehuels/photobook/pkg/errors"
	"github.com/matzehuels/photobook/pkg/geometry"
)

// boundsTolerance absorbs rounding from pixel-to-percent conversion.
const boundsTolerance = 1e-6

// Zone is a photo slot in page percent.
type Zone struct {
	X      float64 `json:"x" toml:"x"`
	Y      float64 `json:"y" toml:"y"`
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// Rect returns the zone as a percent rectangle.
func (z Zone) Rect() geometry.Rect {
	return geometry.Rect{X: z.X, Y: z.Y, Width: z.Width, Height: z.Height}
}

// Pixels returns the zone on a page of the given pixel size.
func (z Zone) Pixels(pageW, pageH float64) geometry.Rect {
	return geometry.Percent(z.Rect()).Pixels(pageW, pageH)
}

// Validate reports whether the zone has positive size and stays on the page.
func (z Zone) Validate() error {
	switch {
	case z.Width <= 0 || z.Height <= 0:
		return fmt.Errorf("zone has non-positive size %gx%g", z.Width, z.Height)
	case z.X < -boundsTolerance || z.Y < -boundsTolerance:
		return fmt.Errorf("zone origin (%g, %g) is off the page", z.X, z.Y)
	case z.X+z.Width > 100+boundsTolerance:
		return fmt.Errorf("zone right edge %g exceeds the page", z.X+z.Width)
	case z.Y+z.Height > 100+boundsTolerance:
		return fmt.Errorf("zone bottom edge %g exceeds the page", z.Y+z.Height)
	}
	return nil
}

// Template is a named, reusable set of zones.
type Template struct {
	Key   string
	Name  string
	Icon  string
	Zones []Zone
}

// Len returns the number of zones.
func (t Template) Len() int { return len(t.Zones) }

// Zone returns the zone at index i.
func (t Template) Zone(i int) (Zone, error) {
	if i < 0 || i >= len(t.Zones) {
		return Zone{}, errors.New(errors.ErrCodeZoneIndexOutOfRange,
			"zone %d out of range for layout %q (%d zones)", i, t.Key, len(t.Zones))
	}
	return t.Zones[i], nil
}

// Validate checks every zone against the page bounds. Overlap is allowed.
func (t Template) Validate() error {
	if t.Key == "" {
		return errors.New(errors.ErrCodeInvalidTemplate, "template key cannot be empty")
	}
	for i, z := range t.Zones {
		if err := z.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidTemplate, err, "template %q zone %d", t.Key, i)
		}
	}
	return nil
}

// Overlaps returns the index pairs of zones that overlap each other.
// Decorative templates may layer zones on purpose; this is informational.
func (t Template) Overlaps() [][2]int {
	var pairs [][2]int
	for i := range t.Zones {
		for j := i + 1; j < len(t.Zones); j++ {
			if t.Zones[i].Rect().Overlaps(t.Zones[j].Rect()) {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}

func (t Template) clone() Template {
	t.Zones = append([]Zone(nil), t.Zones...)
	return t
}
