// Package export turns a [document.Document] into output artifacts.
//
// Every page is rendered independently from a copy of the document taken
// when the export starts, so an export never touches the active page and
// pages can render concurrently. For each page the exporter starts loading
// the page's photos, waits until none are pending, and then rasterizes it.
// A multi-page export assembles the rasters into a PDF in document order.
//
// Photos that fail to load or decode do not fail the export. They are drawn
// as placeholders and returned as [Warning] values on the artifact, and the
// exporter logs them once per export.
//
//	ex := export.New(photo.NewSource(client, dir, logger), export.WithLogger(logger))
//	art, err := ex.ExportDocument(ctx, doc)
//	if err != nil {
//	    return err
//	}
//	os.WriteFile(art.Filename, art.PDF, 0o644)
package export
