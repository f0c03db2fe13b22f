// Package document implements the multi-page composition model.
//
// # Structure
//
// A [Document] is an ordered list of pages. Each page has a layout template
// key, photo assignments (zone index to photo reference), text elements,
// sticker elements and a background color. Exactly one page is active at a
// time and a document always has at least one page.
//
//	doc := document.New(layout.Builtin())
//	_ = doc.SetLayout(0, "fourGrid")
//	_ = doc.AssignPhoto(0, 0, "https://example.com/a.jpg")
//	id, _ := doc.AddText(0)
//	doc.UpdateText(0, id, document.TextPatch{Content: document.Ptr("Summer 2024")})
//
// # Element IDs
//
// Text and sticker ids come from one counter owned by the document. Ids are
// never reused, even after deletion, so a selection or an in-flight drag can
// never end up pointing at a different element.
//
// # Consistency Rules
//
//   - Changing a page's layout clears its photo assignments.
//   - A zone holds at most one photo; assigning again overwrites.
//   - Element positions are clamped on every write (text anchors to
//     0-85% x 0-92%, stickers to 0-90% on both axes), rotation wraps
//     modulo 360.
//   - Updating or deleting an unknown element id is a silent no-op, so a
//     delete that races a drag never fails the drag.
//   - The selection references at most one element and is cleared when that
//     element is deleted or the active page changes.
//
// # Snapshots
//
// [Document.Page] and [Document.Pages] return deep copies. Renderers and the
// export pipeline work on copies and can never mutate the document.
//
// A Document is not safe for concurrent use. It is meant to be owned by a
// single event loop; hand snapshots to other goroutines.
package document
