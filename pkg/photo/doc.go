// Package photo talks to the photo catalog and turns photo references into
// decoded images.
//
// The catalog ([Client]) lists a user's photos as named event buckets plus
// an extras bucket. References are opaque strings: http(s) URLs are fetched
// through [httputil.Client], anything else is read as a file path.
//
// Loading is asynchronous. [Preload] starts loading every reference a page
// needs and returns an [Images] set whose [Images.Wait] returns once the
// count of pending loads reaches zero. A reference that fails to load or
// decode stays in the set with its error so that renderers can draw a
// placeholder instead.
package photo
