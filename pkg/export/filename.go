package export

import (
	"fmt"
	"time"
)

const filenamePrefix = "photobook"

// ImageFilename names a single-page raster: photobook_<unix-millis>.png.
func ImageFilename(t time.Time) string {
	return fmt.Sprintf("%s_%d.png", filenamePrefix, t.UnixMilli())
}

// PageFilename names one page of a per-page export. page is zero-based;
// the name carries the one-based number: photobook_<unix-millis>_page<N>.png.
func PageFilename(t time.Time, page int) string {
	return fmt.Sprintf("%s_%d_page%d.png", filenamePrefix, t.UnixMilli(), page+1)
}

// DocumentFilename names a multi-page document: photobook_<unix-millis>.pdf.
func DocumentFilename(t time.Time) string {
	return fmt.Sprintf("%s_%d.pdf", filenamePrefix, t.UnixMilli())
}
