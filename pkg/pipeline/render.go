package pipeline

import (
	"context"
	"slices"

	"github.com/matzehuels/photobook/pkg/document"
	"github.com/matzehuels/photobook/pkg/export"
)

// Render exports doc in every format of opts using ex. The pages are
// rendered once and shared by both formats. pageHits counts pages that
// came from the exporter's page cache.
func Render(ctx context.Context, ex *export.Exporter, doc *document.Document, opts Options) (artifacts []Artifact, warnings []export.Warning, pageHits int, err error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, nil, 0, err
	}
	rasters, err := ex.ExportPages(ctx, doc)
	if err != nil {
		return nil, nil, 0, err
	}
	for _, r := range rasters {
		if r.Cached {
			pageHits++
		}
		warnings = append(warnings, r.Warnings...)
	}

	if slices.Contains(opts.Formats, FormatPNG) {
		for _, r := range rasters {
			artifacts = append(artifacts, Artifact{Format: FormatPNG, Filename: r.Filename, Page: r.Page, Data: r.PNG})
		}
	}
	if slices.Contains(opts.Formats, FormatPDF) {
		art, err := ex.Assemble(doc, rasters)
		if err != nil {
			return nil, nil, 0, err
		}
		artifacts = append(artifacts, Artifact{Format: FormatPDF, Filename: art.Filename, Page: -1, Data: art.PDF})
	}
	return artifacts, warnings, pageHits, nil
}
