package registration

import (
	"reflect"
	"testing"
)

func TestSetFieldMergesSingleField(t *testing.T) {
	var d Draft
	d.SetField("name", "Ponto X")
	d.SetField("email", "x@x.com")
	d.SetField("whatsapp", "11999999999")

	if d.Name != "Ponto X" || d.Email != "x@x.com" || d.Whatsapp != "11999999999" {
		t.Fatalf("unexpected draft fields: %+v", d)
	}

	// Overwriting one field must leave siblings untouched.
	d.SetField("email", "y@y.com")
	if d.Name != "Ponto X" || d.Email != "y@y.com" || d.Whatsapp != "11999999999" {
		t.Fatalf("sibling fields changed: %+v", d)
	}

	// Unknown fields are ignored.
	d.SetField("city", "nope")
	if d.SubRegion() != "" {
		t.Fatalf("unknown field mutated the draft")
	}
}

func TestToggleItemIdempotentPairs(t *testing.T) {
	var d Draft
	d.ToggleItem(1)
	d.ToggleItem(2)

	if got := d.SelectedItems(); !reflect.DeepEqual(got, []int64{1, 2}) {
		t.Fatalf("selected items = %v, want [1 2]", got)
	}

	// Two toggles of the same id are a no-op.
	d.ToggleItem(3)
	d.ToggleItem(3)
	if got := d.SelectedItems(); !reflect.DeepEqual(got, []int64{1, 2}) {
		t.Fatalf("after double toggle selected items = %v, want [1 2]", got)
	}

	d.ToggleItem(1)
	if got := d.SelectedItems(); !reflect.DeepEqual(got, []int64{2}) {
		t.Fatalf("after removing 1 selected items = %v, want [2]", got)
	}
}

func TestSetRegionReportsStaleSubRegion(t *testing.T) {
	var d Draft

	if stale := d.SetRegion("SP"); stale {
		t.Fatal("no sub-region selected, nothing can be stale")
	}
	d.SetSubRegion("São Paulo")

	if stale := d.SetRegion("SP"); stale {
		t.Fatal("re-selecting the same region must not invalidate the sub-region")
	}

	if stale := d.SetRegion("RJ"); !stale {
		t.Fatal("changing region must report the sub-region as stale")
	}
	// The draft keeps the stale value; resetting is the coordinator's call.
	if d.SubRegion() != "São Paulo" {
		t.Fatalf("draft reset the sub-region on its own: %q", d.SubRegion())
	}
}

func TestExplicitCoordinatesWinOverAmbient(t *testing.T) {
	var d Draft

	if _, ok := d.Coordinates(); ok {
		t.Fatal("empty draft must have no coordinates")
	}

	d.SetAmbientCoordinates(-23.5, -46.6)
	if c, ok := d.Coordinates(); !ok || c.Latitude != -23.5 {
		t.Fatalf("ambient read not applied: %+v ok=%v", c, ok)
	}

	d.SetCoordinates(-22.9, -43.2)
	// A late ambient read must not overwrite the explicit pick.
	d.SetAmbientCoordinates(-23.5, -46.6)

	c, _ := d.Coordinates()
	if c.Latitude != -22.9 || c.Longitude != -43.2 {
		t.Fatalf("explicit pick lost to ambient read: %+v", c)
	}
}

func TestPayloadSerialization(t *testing.T) {
	var d Draft
	d.SetField("name", "Ponto X")
	d.SetField("email", "x@x.com")
	d.SetField("whatsapp", "11999999999")
	d.SetRegion("SP")
	d.SetSubRegion("São Paulo")
	d.SetCoordinates(-23.5, -46.6)
	d.ToggleItem(1)
	d.ToggleItem(2)
	d.AttachImage("front.jpg", []byte{0xff, 0xd8})

	p := d.Payload()
	if p.UF != "SP" || p.City != "São Paulo" {
		t.Fatalf("region fields wrong: uf=%q city=%q", p.UF, p.City)
	}
	if p.Latitude != -23.5 || p.Longitude != -46.6 {
		t.Fatalf("coordinates wrong: %v %v", p.Latitude, p.Longitude)
	}
	if !reflect.DeepEqual(p.ItemIDs, []int64{1, 2}) {
		t.Fatalf("item ids = %v", p.ItemIDs)
	}
	if p.ImageName != "front.jpg" || len(p.Image) != 2 {
		t.Fatalf("image not carried: name=%q len=%d", p.ImageName, len(p.Image))
	}
}
