package mapview

import (
	"slices"
	"strings"

	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-floormap/pkg/mapclient"
)

// FormMode is the add/edit form state. FormEdit always carries Form.ItemID.
type FormMode int

const (
	FormClosed FormMode = iota
	FormCreate
	FormEdit
)

func (m FormMode) String() string {
	switch m {
	case FormCreate:
		return "create"
	case FormEdit:
		return "edit"
	default:
		return "closed"
	}
}

// Floating form geometry in CSS pixels.
var (
	FormSize   = orb.Point{320, 460}
	formOffset = orb.Point{16, 16}
)

const formMargin = 8

// Fields are the visible form inputs.
type Fields struct {
	Name        string
	Tags        string
	Color       string
	Zone        string
	Quantity    int
	Warnings    []string
	Description string
	Link        string
}

// DefaultFields are the values a reset form shows.
func DefaultFields() Fields {
	return Fields{Color: mapclient.DefaultItemColor, Quantity: 1}
}

// FieldsFromItem pre-fills the form from a cached item.
func FieldsFromItem(it mapclient.Item) Fields {
	f := Fields{
		Name:        it.Name,
		Tags:        it.Tags,
		Color:       it.Color,
		Zone:        it.Zone,
		Quantity:    it.Quantity,
		Warnings:    it.WarningList(),
		Description: it.Description,
		Link:        it.Link,
	}
	return f.normalized()
}

// WarningString joins the selected warning codes for the API.
func (f Fields) WarningString() string {
	return strings.Join(f.Warnings, ",")
}

func (f Fields) normalized() Fields {
	f.Name = strings.TrimSpace(f.Name)
	f.Tags = strings.TrimSpace(f.Tags)
	f.Color = strings.TrimSpace(f.Color)
	f.Zone = strings.TrimSpace(f.Zone)
	f.Description = strings.TrimSpace(f.Description)
	f.Link = strings.TrimSpace(f.Link)
	if f.Color == "" {
		f.Color = mapclient.DefaultItemColor
	}
	if f.Quantity <= 0 {
		f.Quantity = 1
	}
	var warnings []string
	for _, w := range f.Warnings {
		if w = strings.TrimSpace(w); w != "" && !slices.Contains(warnings, w) {
			warnings = append(warnings, w)
		}
	}
	f.Warnings = warnings
	return f
}

func (f Fields) clone() Fields {
	f.Warnings = slices.Clone(f.Warnings)
	return f
}

// Form is the add/edit form. ItemID, Original and origin are only
// meaningful in FormEdit.
type Form struct {
	Mode     FormMode
	ItemID   int
	Fields   Fields
	Original Fields
	Image    *mapclient.Upload
	Position orb.Point

	moved  bool
	origin orb.Point
}

// Open reports whether the form is showing.
func (f Form) Open() bool {
	return f.Mode != FormClosed
}

// Moved reports whether the bound item was repositioned locally.
func (f Form) Moved() bool {
	return f.moved
}

func (f Form) clone() Form {
	f.Fields = f.Fields.clone()
	f.Original = f.Original.clone()
	if f.Image != nil {
		img := *f.Image
		f.Image = &img
	}
	return f
}

// closedForm is the reset state after cancel, clear or a successful save.
func closedForm() Form {
	return Form{Mode: FormClosed, Fields: DefaultFields()}
}

// createInput builds the create payload at native position p.
func createInput(f Fields, mapID int, p orb.Point, img *mapclient.Upload) mapclient.ItemInput {
	return mapclient.ItemInput{
		Name:        f.Name,
		Tags:        f.Tags,
		X:           p.X(),
		Y:           p.Y(),
		MapID:       mapID,
		Quantity:    f.Quantity,
		Color:       f.Color,
		Zone:        f.Zone,
		Warning:     f.WarningString(),
		Description: f.Description,
		Link:        f.Link,
		Image:       img,
	}
}

// editPatch sends only what differs from the values the form opened with,
// the position when the item was moved, and the pending image.
func editPatch(form Form, p orb.Point) mapclient.ItemPatch {
	var patch mapclient.ItemPatch
	cur, orig := form.Fields, form.Original
	if cur.Name != orig.Name {
		patch.Name = &cur.Name
	}
	if cur.Tags != orig.Tags {
		patch.Tags = &cur.Tags
	}
	if cur.Color != orig.Color {
		patch.Color = &cur.Color
	}
	if cur.Zone != orig.Zone {
		patch.Zone = &cur.Zone
	}
	if cur.Quantity != orig.Quantity {
		patch.Quantity = &cur.Quantity
	}
	if w := cur.WarningString(); w != orig.WarningString() {
		patch.Warning = &w
	}
	if cur.Description != orig.Description {
		patch.Description = &cur.Description
	}
	if cur.Link != orig.Link {
		patch.Link = &cur.Link
	}
	if form.moved {
		x, y := p.X(), p.Y()
		patch.X, patch.Y = &x, &y
	}
	patch.Image = form.Image
	return patch
}

// formPosition places the floating form next to the selected point, in
// viewport coordinates, clamped to the window when its size is known.
func formPosition(st *State) orb.Point {
	var anchor orb.Point
	rect := st.Layout.Canvas
	if st.Selected != nil {
		cssW := rect.Max.X() - rect.Min.X()
		ratio := 1.0
		if finitePositive(cssW) && finitePositive(st.Viewport.Width) {
			ratio = cssW / st.Viewport.Width
		}
		anchor = orb.Point{
			rect.Min.X() + st.Selected.X()*ratio,
			rect.Min.Y() + st.Selected.Y()*ratio,
		}
	} else {
		anchor = rect.Min
	}
	win := st.Layout.Window
	if !finitePositive(win.X()) || !finitePositive(win.Y()) {
		return orb.Point{anchor.X() + formOffset.X(), anchor.Y() + formOffset.Y()}
	}
	return clamp(anchor, formOffset, FormSize, orb.Bound{Max: win}, formMargin)
}
