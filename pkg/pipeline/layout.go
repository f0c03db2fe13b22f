package pipeline

import (
	"fmt"

	"github.com/matzehuels/photobook/pkg/layout"
)

// LoadCatalog returns the built-in catalog, extended with the templates
// in path when path is not empty. Templates in the file replace built-ins
// with the same key.
func LoadCatalog(path string) (*layout.Catalog, error) {
	if path == "" {
		return layout.Builtin(), nil
	}
	extra, err := layout.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("templates %s: %w", path, err)
	}
	return layout.Builtin().With(extra...)
}
