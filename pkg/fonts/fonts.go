// Package fonts provides the typefaces used to draw text and glyph
// stickers.
//
// The Go font family (golang.org/x/image/font/gofont) is embedded and
// always available. Families offered by the editor (Arial, Georgia and so
// on) are aliases onto those faces; real TrueType files can be registered
// under any family name to replace them.
//
// Parsed fonts are shared. Faces are not safe for concurrent use, so
// [Registry.Face] returns a new one on every call and callers rendering in
// parallel keep their own.
package fonts

import (
	"slices"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/photobook/pkg/errors"
)

// Style selects a weight/slant variant of a family.
type Style int

const (
	Regular Style = iota
	Bold
	Italic
	BoldItalic
)

// StyleOf maps bold and italic flags to a Style.
func StyleOf(bold, italic bool) Style {
	switch {
	case bold && italic:
		return BoldItalic
	case bold:
		return Bold
	case italic:
		return Italic
	}
	return Regular
}

// Built-in family names.
const (
	Go     = "Go"
	GoMono = "Go Mono"
	// GoMedium is a heavier cut of Go, used where a family should look
	// different from the sans default.
	GoMedium = "Go Medium"
)

// Registry maps family names to parsed fonts.
type Registry struct {
	mu      sync.RWMutex
	fonts   map[string]map[Style]*truetype.Font
	aliases map[string]string
}

// New returns a registry holding the Go fonts and the editor aliases.
func New() *Registry {
	r := &Registry{
		fonts:   map[string]map[Style]*truetype.Font{},
		aliases: map[string]string{},
	}
	builtin := []struct {
		family string
		style  Style
		ttf    []byte
	}{
		{Go, Regular, goregular.TTF},
		{Go, Bold, gobold.TTF},
		{Go, Italic, goitalic.TTF},
		{Go, BoldItalic, gobolditalic.TTF},
		{GoMedium, Regular, gomedium.TTF},
		{GoMedium, Bold, gobold.TTF},
		{GoMedium, Italic, gomediumitalic.TTF},
		{GoMedium, BoldItalic, gobolditalic.TTF},
		{GoMono, Regular, gomono.TTF},
		{GoMono, Bold, gomonobold.TTF},
		{GoMono, Italic, gomonoitalic.TTF},
		{GoMono, BoldItalic, gomonobolditalic.TTF},
	}
	for _, b := range builtin {
		if err := r.Register(b.family, b.style, b.ttf); err != nil {
			panic("fonts: embedded Go font: " + err.Error())
		}
	}
	r.Alias("Arial", Go)
	r.Alias("Verdana", Go)
	r.Alias("Impact", GoMedium)
	r.Alias("Georgia", GoMedium)
	r.Alias("Times New Roman", GoMedium)
	r.Alias("Courier New", GoMono)
	return r
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns a shared registry built by [New] on first use.
func Default() *Registry {
	defaultRegistryOnce.Do(func() { defaultRegistry = New() })
	return defaultRegistry
}

// Register parses ttf and stores it as the given style of family.
func (r *Registry) Register(family string, s Style, ttf []byte) error {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse font %q", family)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	k := normalize(family)
	if r.fonts[k] == nil {
		r.fonts[k] = map[Style]*truetype.Font{}
	}
	r.fonts[k][s] = f
	delete(r.aliases, k)
	return nil
}

// Alias makes family resolve to target unless family has its own fonts.
func (r *Registry) Alias(family, target string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fonts[normalize(family)]; !ok {
		r.aliases[normalize(family)] = normalize(target)
	}
}

// Families returns every family name that resolves to a font, sorted.
func (r *Registry) Families() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for k := range r.fonts {
		out = append(out, k)
	}
	for k := range r.aliases {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Font returns the font for family and style. Unknown families fall back to
// Go; a missing style falls back to the family's regular cut.
func (r *Registry) Font(family string, s Style) *truetype.Font {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k := normalize(family)
	if alias, ok := r.aliases[k]; ok {
		k = alias
	}
	styles, ok := r.fonts[k]
	if !ok {
		styles = r.fonts[normalize(Go)]
	}
	if f, ok := styles[s]; ok {
		return f
	}
	if f, ok := styles[Regular]; ok {
		return f
	}
	return r.fonts[normalize(Go)][Regular]
}

// Face returns a new face of family and style at size pixels (72 DPI).
func (r *Registry) Face(family string, s Style, size float64) font.Face {
	return truetype.NewFace(r.Font(family, s), &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
}

// HasGlyphs reports whether family covers every rune of text except
// whitespace.
func (r *Registry) HasGlyphs(family string, s Style, text string) bool {
	f := r.Font(family, s)
	for _, c := range text {
		if c == ' ' || c == '\t' || c == '\n' || c == '\uFE0F' {
			continue
		}
		if f.Index(c) == 0 {
			return false
		}
	}
	return true
}

func normalize(family string) string {
	return strings.ToLower(strings.TrimSpace(family))
}
