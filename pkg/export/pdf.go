package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/matzehuels/photobook/pkg/errors"
)

// assemblePDF places each raster full-bleed on its own page. Page units are
// points and a page measures w x h units, so a 600x800 page keeps its
// proportions regardless of the raster scale.
func assemblePDF(rasters []*RasterArtifact, w, h float64, title string) ([]byte, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("photobook", false)
	pdf.SetTitle(title, false)

	opt := fpdf.ImageOptions{ImageType: "PNG"}
	for _, r := range rasters {
		name := fmt.Sprintf("page%d", r.Page)
		pdf.AddPage()
		pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(r.PNG))
		pdf.ImageOptions(name, 0, 0, w, h, false, opt, 0, "")
		if pdf.Err() {
			return nil, errors.Wrap(errors.ErrCodeInternal, pdf.Error(), "add page %d to pdf", r.Page+1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write pdf")
	}
	return buf.Bytes(), nil
}
