// Package registration holds the in-progress point registration state: a
// pure Draft with explicit transition methods, and a Form coordinator that
// drives the cascading region selection against a directory service.
package registration

import (
	"github.com/ColetaApp/coleta_api/pkg/coleta"
)

// Coordinates is a chosen point location.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Draft is the transient state of one registration form. The zero value is
// an empty draft: no region or sub-region selected (empty string, never a
// sentinel), coordinates unset, no items, no image. Transitions are plain
// method calls with no I/O, so the draft is testable in isolation.
type Draft struct {
	Name     string
	Email    string
	Whatsapp string

	region    string
	subRegion string

	coords       Coordinates
	coordsSet    bool
	coordsPicked bool

	items []int64

	imageName string
	image     []byte
}

// SetField merges one contact field into the draft, leaving every other
// field untouched. Unknown names are ignored.
func (d *Draft) SetField(name, value string) {
	switch name {
	case "name":
		d.Name = value
	case "email":
		d.Email = value
	case "whatsapp":
		d.Whatsapp = value
	}
}

// SetRegion replaces the selected region. It reports whether a previously
// chosen sub-region belonged to another region and is now stale; the draft
// itself keeps the stale value so the caller decides how to handle it.
func (d *Draft) SetRegion(code string) (subRegionStale bool) {
	changed := code != d.region
	d.region = code
	return changed && d.subRegion != ""
}

// SetSubRegion replaces the selected sub-region.
func (d *Draft) SetSubRegion(name string) {
	d.subRegion = name
}

// ClearSubRegion resets the sub-region to unselected.
func (d *Draft) ClearSubRegion() {
	d.subRegion = ""
}

// Region returns the selected region code, empty when unselected.
func (d Draft) Region() string { return d.region }

// SubRegion returns the selected sub-region name, empty when unselected.
func (d Draft) SubRegion() string { return d.subRegion }

// RegionSelected reports whether a region has been chosen.
func (d Draft) RegionSelected() bool { return d.region != "" }

// SubRegionSelected reports whether a sub-region has been chosen.
func (d Draft) SubRegionSelected() bool { return d.subRegion != "" }

// SetCoordinates records an explicit location pick. Explicit picks always
// win: a later ambient read never overwrites one.
func (d *Draft) SetCoordinates(lat, lng float64) {
	d.coords = Coordinates{Latitude: lat, Longitude: lng}
	d.coordsSet = true
	d.coordsPicked = true
}

// SetAmbientCoordinates records a best-effort device location read. It is
// ignored once the user has picked a location explicitly.
func (d *Draft) SetAmbientCoordinates(lat, lng float64) {
	if d.coordsPicked {
		return
	}
	d.coords = Coordinates{Latitude: lat, Longitude: lng}
	d.coordsSet = true
}

// Coordinates returns the chosen location and whether one has been set.
func (d Draft) Coordinates() (Coordinates, bool) {
	return d.coords, d.coordsSet
}

// ToggleItem adds the item id to the selection if absent, removes it if
// present. Toggling twice restores the original selection.
func (d *Draft) ToggleItem(id int64) {
	for i, existing := range d.items {
		if existing == id {
			d.items = append(d.items[:i], d.items[i+1:]...)
			return
		}
	}
	d.items = append(d.items, id)
}

// SelectedItems returns a copy of the selected item ids in selection order.
func (d Draft) SelectedItems() []int64 {
	out := make([]int64, len(d.items))
	copy(out, d.items)
	return out
}

// AttachImage sets the optional image upload.
func (d *Draft) AttachImage(name string, data []byte) {
	d.imageName = name
	d.image = data
}

// Payload serializes the draft into a submission for the API client.
func (d Draft) Payload() coleta.Submission {
	return coleta.Submission{
		Name:      d.Name,
		Email:     d.Email,
		Whatsapp:  d.Whatsapp,
		Latitude:  d.coords.Latitude,
		Longitude: d.coords.Longitude,
		City:      d.subRegion,
		UF:        d.region,
		ItemIDs:   d.SelectedItems(),
		ImageName: d.imageName,
		Image:     d.image,
	}
}
