package layout

import "fmt"

// Page geometry the built-in templates are authored against, in pixels.
const (
	PageWidth  = 600.0
	PageHeight = 800.0
	Padding    = 20.0
	Gap        = 20.0
)

// BlankKey is the template every new page starts with.
const BlankKey = "blank"

// Builtin returns a catalog holding the built-in templates.
// It panics if the built-in data is invalid, which is a programming error.
func Builtin() *Catalog {
	c, err := NewCatalog(builtinTemplates()...)
	if err != nil {
		panic(fmt.Sprintf("layout: invalid built-in templates: %v", err))
	}
	return c
}

func builtinTemplates() []Template {
	return []Template{
		{Key: BlankKey, Name: "Blank", Icon: "📄"},
		{Key: "heroFull", Name: "Hero Full", Icon: "🖼️", Zones: grid(1, 1)},
		{Key: "twoVertical", Name: "Two Vertical", Icon: "▯▯", Zones: grid(2, 1)},
		{Key: "twoHorizontal", Name: "Two Horizontal", Icon: "▬▬", Zones: grid(1, 2)},
		{Key: "threeVertical", Name: "Three Vertical", Icon: "▯▯▯", Zones: grid(3, 1)},
		{Key: "fourGrid", Name: "Four Grid", Icon: "⊞", Zones: grid(2, 2)},
		{Key: "sixGrid", Name: "Six Grid", Icon: "⊟", Zones: grid(3, 2)},
		{Key: "magazine", Name: "Magazine", Icon: "📰", Zones: px(
			[4]float64{20, 20, 370, 500},
			[4]float64{410, 20, 170, 240},
			[4]float64{410, 280, 170, 240},
		)},
		{Key: "scrapbook", Name: "Scrapbook", Icon: "✂️", Zones: px(
			[4]float64{30, 30, 240, 320},
			[4]float64{330, 50, 220, 280},
			[4]float64{50, 380, 200, 260},
			[4]float64{310, 400, 250, 330},
		)},
		{Key: "travel", Name: "Travel Story", Icon: "✈️", Zones: px(
			[4]float64{20, 20, 560, 300},
			[4]float64{20, 340, 175, 200},
			[4]float64{212, 340, 175, 200},
			[4]float64{405, 340, 175, 200},
		)},
		{Key: "instagram", Name: "Insta Grid", Icon: "📱", Zones: px(
			[4]float64{20, 20, 560, 560},
			[4]float64{20, 600, 173, 180},
			[4]float64{213, 600, 173, 180},
			[4]float64{407, 600, 173, 180},
		)},
		{Key: "yearbook", Name: "Yearbook", Icon: "🎓", Zones: px(
			[4]float64{20, 20, 270, 350},
			[4]float64{310, 20, 270, 350},
			[4]float64{20, 390, 180, 180},
			[4]float64{220, 390, 180, 180},
			[4]float64{420, 390, 160, 180},
		)},
	}
}

// grid partitions the printable area into cols x rows zones, row-major.
func grid(cols, rows int) []Zone {
	cw := (PageWidth - 2*Padding - float64(cols-1)*Gap) / float64(cols)
	rh := (PageHeight - 2*Padding - float64(rows-1)*Gap) / float64(rows)
	zones := make([]Zone, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			zones = append(zones, fromPixels(
				Padding+float64(c)*(cw+Gap),
				Padding+float64(r)*(rh+Gap),
				cw, rh,
			))
		}
	}
	return zones
}

// px converts literal {x, y, w, h} pixel rectangles to zones.
func px(rects ...[4]float64) []Zone {
	zones := make([]Zone, len(rects))
	for i, r := range rects {
		zones[i] = fromPixels(r[0], r[1], r[2], r[3])
	}
	return zones
}

func fromPixels(x, y, w, h float64) Zone {
	return Zone{
		X:      x / PageWidth * 100,
		Y:      y / PageHeight * 100,
		Width:  w / PageWidth * 100,
		Height: h / PageHeight * 100,
	}
}
