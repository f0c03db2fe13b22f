package document

import (
	"github.com/google/uuid"

	"github.com/matzehuels/photobook/pkg/errors"
	"github.com/matzehuels/photobook/pkg/layout"
)

// Document is a multi-page composition.
type Document struct {
	id      string
	catalog *layout.Catalog
	pages   []*Page
	active  int

	lastElementID ElementID
	lastPageID    int

	selection Selection
}

// New creates a document holding one blank page. Templates are resolved
// against catalog; a nil catalog means [layout.Builtin].
func New(catalog *layout.Catalog) *Document {
	if catalog == nil {
		catalog = layout.Builtin()
	}
	d := &Document{
		id:      uuid.NewString(),
		catalog: catalog,
	}
	d.pages = []*Page{d.newPage()}
	return d
}

// ID returns the document's unique identifier.
func (d *Document) ID() string { return d.id }

// Catalog returns the template catalog the document resolves layouts in.
func (d *Document) Catalog() *layout.Catalog { return d.catalog }

// Len returns the number of pages.
func (d *Document) Len() int { return len(d.pages) }

// Active returns the index of the active page.
func (d *Document) Active() int { return d.active }

// SetActive makes page i the active page. Changing the active page clears
// the selection.
func (d *Document) SetActive(i int) error {
	if err := d.checkPage(i); err != nil {
		return err
	}
	if i != d.active {
		d.active = i
		d.selection = Selection{}
	}
	return nil
}

// Page returns a deep copy of page i.
func (d *Document) Page(i int) (Page, error) {
	if err := d.checkPage(i); err != nil {
		return Page{}, err
	}
	return *d.pages[i].clone(), nil
}

// ActivePage returns a deep copy of the active page.
func (d *Document) ActivePage() Page {
	return *d.pages[d.active].clone()
}

// Pages returns deep copies of all pages in order.
func (d *Document) Pages() []Page {
	out := make([]Page, len(d.pages))
	for i, p := range d.pages {
		out[i] = *p.clone()
	}
	return out
}

// Template resolves the layout template of page i.
func (d *Document) Template(i int) (layout.Template, error) {
	if err := d.checkPage(i); err != nil {
		return layout.Template{}, err
	}
	return d.catalog.Resolve(d.pages[i].LayoutKey)
}

// AddPage appends a blank page, makes it active and returns its index.
func (d *Document) AddPage() int {
	d.pages = append(d.pages, d.newPage())
	d.activate(len(d.pages) - 1)
	return d.active
}

// DuplicatePage deep-copies page i, inserts the copy right after it and
// activates the copy. Text and sticker elements in the copy get fresh ids.
func (d *Document) DuplicatePage(i int) (int, error) {
	if err := d.checkPage(i); err != nil {
		return 0, err
	}
	c := d.pages[i].clone()
	d.lastPageID++
	c.ID = d.lastPageID

	remap := make(map[ElementID]ElementID, len(c.Texts)+len(c.Stickers))
	for j := range c.Texts {
		remap[c.Texts[j].ID] = d.nextElementID()
		c.Texts[j].ID = remap[c.Texts[j].ID]
	}
	for j := range c.Stickers {
		remap[c.Stickers[j].ID] = d.nextElementID()
		c.Stickers[j].ID = remap[c.Stickers[j].ID]
	}
	for j := range c.Layers {
		c.Layers[j].ID = remap[c.Layers[j].ID]
	}

	at := i + 1
	d.pages = append(d.pages, nil)
	copy(d.pages[at+1:], d.pages[at:])
	d.pages[at] = c
	d.activate(at)
	return at, nil
}

// RemovePage removes page i. The last remaining page cannot be removed.
// The active index becomes min(active, Len()-1).
func (d *Document) RemovePage(i int) error {
	if err := d.checkPage(i); err != nil {
		return err
	}
	if len(d.pages) == 1 {
		return errors.New(errors.ErrCodeCannotRemoveLastPage, "a document needs at least one page")
	}
	cur := d.pages[d.active]
	d.pages = append(d.pages[:i], d.pages[i+1:]...)
	d.active = min(d.active, len(d.pages)-1)
	if d.pages[d.active] != cur {
		d.selection = Selection{}
	}
	return nil
}

// SetLayout switches page i to the template key and clears its photo
// assignments.
func (d *Document) SetLayout(i int, key string) error {
	if err := d.checkPage(i); err != nil {
		return err
	}
	if _, err := d.catalog.Resolve(key); err != nil {
		return err
	}
	p := d.pages[i]
	p.LayoutKey = key
	p.Photos = map[int]string{}
	p.zoneCursor = 0
	return nil
}

// AssignPhoto puts ref into zone of page i, replacing any previous photo.
func (d *Document) AssignPhoto(i, zone int, ref string) error {
	if err := d.checkZone(i, zone); err != nil {
		return err
	}
	if err := errors.ValidatePhotoRef(ref); err != nil {
		return err
	}
	d.pages[i].Photos[zone] = ref
	return nil
}

// UnassignPhoto empties zone of page i.
func (d *Document) UnassignPhoto(i, zone int) error {
	if err := d.checkZone(i, zone); err != nil {
		return err
	}
	delete(d.pages[i].Photos, zone)
	return nil
}

// AutoAssign puts ref into the next zone of page i in round-robin order and
// returns the zone index. It fails on a page whose layout has no zones.
func (d *Document) AutoAssign(i int, ref string) (int, error) {
	tpl, err := d.Template(i)
	if err != nil {
		return 0, err
	}
	if tpl.Len() == 0 {
		return 0, errors.New(errors.ErrCodeZoneIndexOutOfRange, "layout %q has no zones", tpl.Key)
	}
	p := d.pages[i]
	zone := p.zoneCursor % tpl.Len()
	if err := d.AssignPhoto(i, zone, ref); err != nil {
		return 0, err
	}
	p.zoneCursor = zone + 1
	return zone, nil
}

// DroppedPhotoSize is the size of the image sticker a photo dropped on a
// page without zones becomes.
const DroppedPhotoSize = 250.0

// DropPhoto places ref on page i. On a layout with zones it behaves like
// AutoAssign and returns the zone. On a layout without zones the photo
// becomes an image sticker at (x, y), which is selected; the zone is then
// -1 and id names the sticker.
func (d *Document) DropPhoto(i int, ref string, x, y float64) (zone int, id ElementID, err error) {
	tpl, err := d.Template(i)
	if err != nil {
		return 0, 0, err
	}
	if tpl.Len() > 0 {
		zone, err = d.AutoAssign(i, ref)
		return zone, 0, err
	}
	if err := errors.ValidatePhotoRef(ref); err != nil {
		return 0, 0, err
	}
	id, err = d.AddSticker(i, ref, x, y)
	if err != nil {
		return 0, 0, err
	}
	d.UpdateSticker(i, id, StickerPatch{Size: Ptr(DroppedPhotoSize)})
	return -1, id, nil
}

// SetBackground sets the background color of page i.
func (d *Document) SetBackground(i int, color string) error {
	if err := d.checkPage(i); err != nil {
		return err
	}
	if err := errors.ValidateColor(color); err != nil {
		return err
	}
	d.pages[i].Background = color
	return nil
}

// ClearPage resets page i to a blank layout without photos or elements.
// The page keeps its position and id.
func (d *Document) ClearPage(i int) error {
	if err := d.checkPage(i); err != nil {
		return err
	}
	p := newPage(d.pages[i].ID)
	d.pages[i] = p
	if i == d.active {
		d.selection = Selection{}
	}
	return nil
}

func (d *Document) newPage() *Page {
	d.lastPageID++
	return newPage(d.lastPageID)
}

func (d *Document) nextElementID() ElementID {
	d.lastElementID++
	return d.lastElementID
}

func (d *Document) activate(i int) {
	d.active = i
	d.selection = Selection{}
}

func (d *Document) checkPage(i int) error {
	if i < 0 || i >= len(d.pages) {
		return errors.New(errors.ErrCodePageIndexOutOfRange, "page %d out of range (%d pages)", i, len(d.pages))
	}
	return nil
}

func (d *Document) checkZone(i, zone int) error {
	tpl, err := d.Template(i)
	if err != nil {
		return err
	}
	_, err = tpl.Zone(zone)
	return err
}
