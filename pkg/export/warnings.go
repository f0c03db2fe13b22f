package export

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/photobook/pkg/document"
	"github.com/matzehuels/photobook/pkg/errors"
	"github.com/matzehuels/photobook/pkg/render"
)

// Warning is a non-fatal problem found while rendering a page.
type Warning struct {
	Page    int
	Zone    int                // -1 when the warning is about a sticker
	Element document.ElementID // 0 when the warning is about a zone
	Ref     string
	Err     error
}

func (w Warning) Error() string {
	if w.Zone >= 0 {
		return fmt.Sprintf("page %d zone %d: %s: %v", w.Page+1, w.Zone, w.Ref, w.Err)
	}
	return fmt.Sprintf("page %d sticker %d: %s: %v", w.Page+1, w.Element, w.Ref, w.Err)
}

func (w Warning) Unwrap() error { return w.Err }

func warningsFor(page int, failures []render.Failure) []Warning {
	out := make([]Warning, 0, len(failures))
	for _, f := range failures {
		err := f.Err
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeImageDecode, err, "cannot draw %s", f.Ref)
		}
		out = append(out, Warning{Page: page, Zone: f.Zone, Element: f.Element, Ref: f.Ref, Err: err})
	}
	return out
}

// refs returns the distinct references named by ws, sorted.
func refs(ws []Warning) []string {
	var out []string
	for _, w := range ws {
		out = append(out, w.Ref)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// report logs all warnings of one export as a single message.
func report(logger *log.Logger, ws []Warning) {
	if len(ws) == 0 {
		return
	}
	logger.Warn("some images could not be drawn and were replaced by placeholders",
		"count", len(ws), "refs", refs(ws))
}
