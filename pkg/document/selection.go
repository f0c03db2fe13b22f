package document

// Selection references the selected element on the active page. The zero
// value means nothing is selected.
type Selection struct {
	Kind ElementKind
	ID   ElementID
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool { return s.Kind == KindNone }

// Selection returns the current selection.
func (d *Document) Selection() Selection { return d.selection }

// Select selects element id on the active page. It reports false, leaving
// the selection cleared, if the active page holds no such element.
func (d *Document) Select(id ElementID) bool {
	kind := d.pages[d.active].Kind(id)
	if kind == KindNone {
		d.selection = Selection{}
		return false
	}
	d.selection = Selection{Kind: kind, ID: id}
	return true
}

// ClearSelection deselects any element.
func (d *Document) ClearSelection() { d.selection = Selection{} }

// DeleteSelected deletes the selected element from the active page.
func (d *Document) DeleteSelected() bool {
	switch d.selection.Kind {
	case KindText:
		return d.DeleteText(d.active, d.selection.ID)
	case KindSticker:
		return d.DeleteSticker(d.active, d.selection.ID)
	}
	return false
}
