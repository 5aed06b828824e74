package handler

import (
	"reflect"
	"sort"
	"testing"
)

func validForm() map[string]string {
	return map[string]string{
		"name":      "Ponto X",
		"email":     "x@x.com",
		"whatsapp":  "11999999999",
		"latitude":  "-23.5",
		"longitude": "-46.6",
		"city":      "São Paulo",
		"uf":        "SP",
		"items":     "1,2",
	}
}

func violatedFields(errs []FieldError) []string {
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	sort.Strings(fields)
	return fields
}

func TestParseCreatePointValid(t *testing.T) {
	in, errs := parseCreatePoint(validForm())
	if errs != nil {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if in.Name != "Ponto X" || in.UF != "SP" || in.Latitude != -23.5 || in.Longitude != -46.6 {
		t.Fatalf("parsed input = %+v", in)
	}
	if !reflect.DeepEqual(in.ItemIDs, []int64{1, 2}) {
		t.Fatalf("item ids = %v", in.ItemIDs)
	}
}

func TestParseCreatePointCollectsAllViolations(t *testing.T) {
	// Every required field missing: every field must be enumerated at once.
	in, errs := parseCreatePoint(map[string]string{})
	if in != nil {
		t.Fatal("expected nil input")
	}

	want := []string{"city", "email", "items", "latitude", "longitude", "name", "uf", "whatsapp"}
	if got := violatedFields(errs); !reflect.DeepEqual(got, want) {
		t.Fatalf("violated fields = %v, want %v", got, want)
	}
}

func TestParseCreatePointFieldRules(t *testing.T) {
	cases := []struct {
		name      string
		mutate    map[string]string
		wantField string
	}{
		{"malformed email", map[string]string{"email": "not-an-address"}, "email"},
		{"uf too long", map[string]string{"uf": "São Paulo"}, "uf"},
		{"latitude not a number", map[string]string{"latitude": "abc"}, "latitude"},
		{"longitude not a number", map[string]string{"longitude": ""}, "longitude"},
		{"items not numeric", map[string]string{"items": "1,x"}, "items"},
		{"items negative id", map[string]string{"items": "-1"}, "items"},
		{"items empty", map[string]string{"items": ""}, "items"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			for k, v := range tc.mutate {
				form[k] = v
			}

			in, errs := parseCreatePoint(form)
			if in != nil {
				t.Fatal("expected rejection")
			}
			if got := violatedFields(errs); !reflect.DeepEqual(got, []string{tc.wantField}) {
				t.Fatalf("violated fields = %v, want only %q", got, tc.wantField)
			}
		})
	}
}

func TestParseCreatePointDeduplicatesItems(t *testing.T) {
	form := validForm()
	form["items"] = "2,1,2,1"

	in, errs := parseCreatePoint(form)
	if errs != nil {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if !reflect.DeepEqual(in.ItemIDs, []int64{2, 1}) {
		t.Fatalf("item ids = %v, want deduplicated [2 1]", in.ItemIDs)
	}
}

func TestParseItemFilterSkipsBadEntries(t *testing.T) {
	if got := parseItemFilter("1,x,3,-2"); !reflect.DeepEqual(got, []int64{1, 3}) {
		t.Fatalf("filter ids = %v", got)
	}
	if got := parseItemFilter(""); got != nil {
		t.Fatalf("filter ids = %v, want none", got)
	}
}
