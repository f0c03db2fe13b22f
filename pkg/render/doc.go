// Package render draws a page to a raster image off screen.
//
// # Overview
//
// A [Renderer] turns one [document.Page] and its resolved
// [layout.Template] into an RGBA image of the page pixel size times the
// scale factor. It draws, bottom to top:
//
//   - the background color
//   - every zone, with its photo scaled by aspect fill and cropped to the
//     zone, or a dashed placeholder when the zone is empty or its photo
//     could not be loaded
//   - text and sticker overlays in the page's layer order
//
// Rendering is independent of any screen state. Each call builds its own
// drawing context and font faces, so one Renderer may render several pages
// concurrently.
//
// # Photos
//
// Photos are looked up in an [ImageSource], normally a [photo.Images] set
// that has finished preloading. [Refs] lists the references a page needs.
// A missing or failed image never aborts rendering; it is reported as a
// [Failure] next to the image.
//
//	imgs := photo.Preload(ctx, loader, render.Refs(page), 4)
//	_ = imgs.Wait(ctx)
//	img, failures := render.New(render.WithScale(2)).Render(page, tpl, imgs)
//
// # Stickers
//
// A sticker whose content is a URL or an image file name is drawn as that
// image, scaled to fit a Size x Size box. Any other content is drawn as
// text. Glyphs missing from the font (most emoji) are drawn as a colored
// badge instead.
package render
