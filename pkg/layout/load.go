package layout

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/photobook/pkg/errors"
)

// Units accepted in template files.
const (
	UnitPercent = "percent"
	UnitPixels  = "px"
)

type templateFile struct {
	Templates []templateEntry `toml:"template"`
}

type templateEntry struct {
	Key   string `toml:"key"`
	Name  string `toml:"name"`
	Icon  string `toml:"icon"`
	Unit  string `toml:"unit"`
	Zones []Zone `toml:"zone"`
}

// Load decodes templates from a TOML document. Each template is validated;
// the first invalid template aborts the load.
func Load(r io.Reader) ([]Template, error) {
	var f templateFile
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTemplate, err, "decode template file")
	}

	out := make([]Template, 0, len(f.Templates))
	for _, e := range f.Templates {
		t := Template{Key: e.Key, Name: e.Name, Icon: e.Icon}
		if t.Name == "" {
			t.Name = e.Key
		}
		switch e.Unit {
		case "", UnitPercent:
			t.Zones = e.Zones
		case UnitPixels:
			t.Zones = make([]Zone, len(e.Zones))
			for i, z := range e.Zones {
				t.Zones[i] = fromPixels(z.X, z.Y, z.Width, z.Height)
			}
		default:
			return nil, errors.New(errors.ErrCodeInvalidTemplate, "template %q: unknown unit %q", e.Key, e.Unit)
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// LoadFile reads templates from a TOML file.
func LoadFile(path string) ([]Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}
