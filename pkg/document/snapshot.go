package document

import (
	"encoding/json"
)

// Snapshot is a serializable, read-only copy of a document.
type Snapshot struct {
	ID     string `json:"id"`
	Active int    `json:"active"`
	Pages  []Page `json:"pages"`
}

// Snapshot returns a deep copy of the document's state.
func (d *Document) Snapshot() Snapshot {
	return Snapshot{ID: d.id, Active: d.active, Pages: d.Pages()}
}

// ContentJSON returns the JSON encoding of the page content only. Two
// documents with identical pages produce identical bytes regardless of
// their ids or active page, which makes the output usable as a cache key.
func (s Snapshot) ContentJSON() ([]byte, error) {
	return json.Marshal(s.Pages)
}
