package fonts

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestStyleOf(t *testing.T) {
	tests := []struct {
		bold, italic bool
		want         Style
	}{
		{false, false, Regular},
		{true, false, Bold},
		{false, true, Italic},
		{true, true, BoldItalic},
	}
	for _, tt := range tests {
		if got := StyleOf(tt.bold, tt.italic); got != tt.want {
			t.Errorf("StyleOf(%v, %v) = %v, want %v", tt.bold, tt.italic, got, tt.want)
		}
	}
}

func TestEditorFamiliesResolve(t *testing.T) {
	r := Default()
	mono := r.Font(GoMono, Regular)
	for _, family := range []string{"Arial", "Georgia", "Times New Roman", "Courier New", "Verdana", "Impact"} {
		for _, s := range []Style{Regular, Bold, Italic, BoldItalic} {
			if r.Font(family, s) == nil {
				t.Errorf("Font(%q, %v) = nil", family, s)
			}
		}
	}
	if r.Font("courier new", Regular) != mono {
		t.Error("Courier New should map to Go Mono")
	}
	if r.Font("Arial", Bold) == r.Font("Arial", Regular) {
		t.Error("Arial bold and regular should differ")
	}
}

func TestUnknownFamilyFallsBack(t *testing.T) {
	r := New()
	if r.Font("Comic Sans MS", Italic) != r.Font(Go, Italic) {
		t.Error("unknown family should fall back to Go")
	}
}

func TestRegister(t *testing.T) {
	r := New()
	if err := r.Register("Arial", Regular, goregular.TTF); err != nil {
		t.Fatal(err)
	}
	// Arial now has only a regular cut; bold falls back to it.
	if r.Font("Arial", Bold) != r.Font("Arial", Regular) {
		t.Error("missing style should fall back to regular")
	}
	if err := r.Register("Broken", Regular, []byte("not a font")); err == nil {
		t.Error("expected parse error")
	}
}

func TestFaceAndGlyphs(t *testing.T) {
	r := Default()
	face := r.Face("Arial", Bold, 28)
	defer face.Close()
	if h := face.Metrics().Height.Ceil(); h < 28 || h > 40 {
		t.Errorf("line height = %d, want about 28-40", h)
	}
	if !r.HasGlyphs("Arial", Regular, "Summer 2024") {
		t.Error("Go font should cover ASCII")
	}
	if r.HasGlyphs("Arial", Regular, "🎉") {
		t.Error("Go font should not cover emoji")
	}
}

func TestFamilies(t *testing.T) {
	fams := New().Families()
	want := map[string]bool{"go": true, "go mono": true, "arial": true, "impact": true}
	for _, f := range fams {
		delete(want, f)
	}
	if len(want) != 0 {
		t.Errorf("Families() missing %v", want)
	}
}
