package layout

import (
	"github.com/matzehuels/photobook/pkg/errors"
)

// Catalog is an immutable registry of templates, ordered by insertion.
// It is safe for concurrent use.
type Catalog struct {
	order     []string
	templates map[string]Template
}

// NewCatalog validates the templates and builds a catalog. Duplicate keys
// and zones that leave the page are rejected.
func NewCatalog(templates ...Template) (*Catalog, error) {
	c := &Catalog{templates: make(map[string]Template, len(templates))}
	for _, t := range templates {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.templates[t.Key]; dup {
			return nil, errors.New(errors.ErrCodeInvalidTemplate, "duplicate template key %q", t.Key)
		}
		c.order = append(c.order, t.Key)
		c.templates[t.Key] = t.clone()
	}
	return c, nil
}

// Resolve returns the template registered under key.
func (c *Catalog) Resolve(key string) (Template, error) {
	t, ok := c.templates[key]
	if !ok {
		return Template{}, errors.New(errors.ErrCodeUnknownLayout, "unknown layout %q", key)
	}
	return t.clone(), nil
}

// Has reports whether key is registered.
func (c *Catalog) Has(key string) bool {
	_, ok := c.templates[key]
	return ok
}

// Keys returns the template keys in catalog order.
func (c *Catalog) Keys() []string {
	return append([]string(nil), c.order...)
}

// Templates returns all templates in catalog order.
func (c *Catalog) Templates() []Template {
	out := make([]Template, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.templates[k].clone())
	}
	return out
}

// Len returns the number of templates.
func (c *Catalog) Len() int { return len(c.order) }

// With returns a new catalog with the given templates added. A template
// whose key already exists replaces the existing one in place.
func (c *Catalog) With(templates ...Template) (*Catalog, error) {
	merged := c.Templates()
	index := make(map[string]int, len(merged))
	for i, t := range merged {
		index[t.Key] = i
	}
	for _, t := range templates {
		if i, ok := index[t.Key]; ok {
			merged[i] = t
			continue
		}
		index[t.Key] = len(merged)
		merged = append(merged, t)
	}
	return NewCatalog(merged...)
}
