// Package cache stores fetched photos and rendered pages between runs.
//
// A [Cache] is a byte store with per-entry TTL. Three backends exist:
// [FileCache] for the CLI, [RedisCache] for a shared server deployment,
// and [NullCache] when caching is disabled. Keys are built by a [Keyer] so
// that every component hashes its inputs the same way.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value byte store with optional expiry.
type Cache interface {
	// Get returns the stored bytes and true on a hit. A miss is
	// (nil, false, nil); errors are reserved for backend failures.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// HTTPKey keys a fetched HTTP resource such as a photo or a catalog listing.
	HTTPKey(namespace, key string) string

	// PageKey keys one rendered page raster.
	PageKey(pageHash string, opts PageKeyOpts) string

	// ArtifactKey keys a complete export artifact for a document.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// PageKeyOpts are the render settings that change a page raster.
type PageKeyOpts struct {
	Width  int     `json:"w"`
	Height int     `json:"h"`
	Scale  float64 `json:"s"`
}

// ArtifactKeyOpts are the export settings that change an artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"f"`
	Width  int     `json:"w"`
	Height int     `json:"h"`
	Scale  float64 `json:"s"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// PageKey hashes the page content hash together with the render options.
func (DefaultKeyer) PageKey(pageHash string, opts PageKeyOpts) string {
	return hashKey("page", pageHash, opts)
}

// ArtifactKey hashes the document hash together with the export options.
func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}

// Default expiries per kind of entry.
const (
	TTLPhoto    = 7 * 24 * time.Hour
	TTLCatalog  = time.Hour
	TTLPage     = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)
