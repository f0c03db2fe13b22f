// Package pkg provides the libraries behind the photobook command.
//
// # Overview
//
// Photobook lays out photos in page templates, decorates pages with text
// and stickers, and exports the pages as PNG images or a multi-page PDF.
// The pkg directory is organized by stage:
//
//  1. [layout] and [geometry] - page templates and coordinate math
//  2. [document] and [interact] - the editable document and its pointer gestures
//  3. [photo] - the photo catalog client and image loading
//  4. [render] and [export] - rasterizing pages and assembling artifacts
//  5. [pipeline] - compose files, caching and orchestration
//
// Supporting packages: [cache], [httputil], [observability], [fonts],
// [errors] and [buildinfo].
//
// # Architecture
//
//	Compose file (TOML/JSON)
//	         ↓
//	    [pipeline] builds a [document.Document] against the [layout] catalog
//	         ↓
//	    [photo] preloads the referenced images
//	         ↓
//	    [render] draws each page, [export] encodes PNG pages or a PDF
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	compose, _ := pipeline.LoadCompose("book.toml")
//	result, err := runner.Execute(ctx, compose, pipeline.Options{
//	    Formats: []string{pipeline.FormatPDF},
//	})
package pkg
