package photo

import (
	"context"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/matzehuels/photobook/pkg/errors"
	"github.com/matzehuels/photobook/pkg/httputil"
)

// ExtraInfo is optional metadata for a photo in the extras bucket.
type ExtraInfo struct {
	Filename  string `json:"filename"`
	FaceCount int    `json:"face_count"`
}

// Collection is one user's photos as returned by the catalog.
type Collection struct {
	Clusters   map[string][]string `json:"clusters"`
	Extras     []string            `json:"extras"`
	ExtrasInfo []ExtraInfo         `json:"extras_info,omitempty"`
}

// Events returns the event bucket names in natural order
// (Event_2 before Event_10).
func (c *Collection) Events() []string {
	names := make([]string, 0, len(c.Clusters))
	for k := range c.Clusters {
		names = append(names, k)
	}
	slices.SortFunc(names, naturalCompare)
	return names
}

// All returns every photo reference, event buckets first, then extras.
func (c *Collection) All() []string {
	var out []string
	for _, name := range c.Events() {
		out = append(out, c.Clusters[name]...)
	}
	return append(out, c.Extras...)
}

// Len returns the number of photos in all buckets.
func (c *Collection) Len() int {
	n := len(c.Extras)
	for _, refs := range c.Clusters {
		n += len(refs)
	}
	return n
}

// Info returns metadata for the i-th extra, if the catalog sent any.
func (c *Collection) Info(i int) (ExtraInfo, bool) {
	if i < 0 || i >= len(c.ExtrasInfo) {
		return ExtraInfo{}, false
	}
	return c.ExtrasInfo[i], true
}

// Client reads collections from the photo catalog API.
type Client struct {
	base string
	http *httputil.Client
}

// NewClient creates a catalog client for the API at base.
func NewClient(base string, h *httputil.Client) *Client {
	if h == nil {
		h = httputil.NewClient(nil, 0, nil)
	}
	return &Client{base: strings.TrimRight(base, "/"), http: h}
}

// Photos returns the collection of username. An unknown user yields an
// empty collection, as the catalog reports it.
func (c *Client) Photos(ctx context.Context, username string) (*Collection, error) {
	if err := errors.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := errors.ValidateURL(c.base); err != nil {
		return nil, err
	}
	var col Collection
	if err := c.http.GetJSON(ctx, c.base+"/photos/"+url.PathEscape(username), &col); err != nil {
		return nil, err
	}
	if col.Clusters == nil {
		col.Clusters = map[string][]string{}
	}
	return &col, nil
}

// naturalCompare orders strings so that embedded numbers compare by value.
func naturalCompare(a, b string) int {
	for a != "" && b != "" {
		da, db := unicode.IsDigit(rune(a[0])), unicode.IsDigit(rune(b[0]))
		if da && db {
			na, ra := leadingDigits(a)
			nb, rb := leadingDigits(b)
			x, _ := strconv.Atoi(na)
			y, _ := strconv.Atoi(nb)
			if x != y {
				if x < y {
					return -1
				}
				return 1
			}
			a, b = ra, rb
			continue
		}
		if a[0] != b[0] {
			if a[0] < b[0] {
				return -1
			}
			return 1
		}
		a, b = a[1:], b[1:]
	}
	return len(a) - len(b)
}

func leadingDigits(s string) (digits, rest string) {
	i := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i:]
}
