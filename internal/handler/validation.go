package handler

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance used for format rules.
var validate = validator.New()

// FieldError describes one violated field in a request payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorResponse is the 400 body returned for invalid payloads. It
// enumerates every violation, not just the first.
type ValidationErrorResponse struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

// CreatePointInput is the parsed and validated POST /points payload.
type CreatePointInput struct {
	Name      string
	Email     string
	Whatsapp  string
	Latitude  float64
	Longitude float64
	City      string
	UF        string
	ItemIDs   []int64
}

// fields collects violations while parsing a payload field by field.
type fieldErrors struct {
	errs []FieldError
}

func (f *fieldErrors) add(field, message string) {
	f.errs = append(f.errs, FieldError{Field: field, Message: message})
}

// parseCreatePoint validates the creation form values and returns either a
// fully parsed input or the complete list of violations. Fields are checked
// one by one so a single bad value never hides the others.
func parseCreatePoint(form map[string]string) (*CreatePointInput, []FieldError) {
	var errs fieldErrors
	in := &CreatePointInput{}

	in.Name = strings.TrimSpace(form["name"])
	if in.Name == "" {
		errs.add("name", "name is required")
	}

	in.Email = strings.TrimSpace(form["email"])
	if in.Email == "" {
		errs.add("email", "email is required")
	} else if err := validate.Var(in.Email, "email"); err != nil {
		errs.add("email", "email must be a valid address")
	}

	in.Whatsapp = strings.TrimSpace(form["whatsapp"])
	if in.Whatsapp == "" {
		errs.add("whatsapp", "whatsapp is required")
	}

	in.Latitude = parseCoordinate(form["latitude"], "latitude", &errs)
	in.Longitude = parseCoordinate(form["longitude"], "longitude", &errs)

	in.City = strings.TrimSpace(form["city"])
	if in.City == "" {
		errs.add("city", "city is required")
	}

	in.UF = strings.TrimSpace(form["uf"])
	switch {
	case in.UF == "":
		errs.add("uf", "uf is required")
	case len([]rune(in.UF)) > 2:
		errs.add("uf", "uf must be at most 2 characters")
	}

	in.ItemIDs = parseItemIDs(form["items"], &errs)

	if len(errs.errs) > 0 {
		return nil, errs.errs
	}
	return in, nil
}

// parseCoordinate parses a required numeric form value.
func parseCoordinate(raw, field string, errs *fieldErrors) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		errs.add(field, field+" is required")
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		errs.add(field, field+" must be a number")
		return 0
	}
	return v
}

// parseItemIDs parses the comma-joined item id list. Duplicates collapse so
// a point never links the same item twice.
func parseItemIDs(raw string, errs *fieldErrors) []int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		errs.add("items", "items is required")
		return nil
	}

	seen := make(map[int64]bool)
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			errs.add("items", "items must be a comma-separated list of item ids")
			return nil
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// parseItemFilter parses the items query parameter of the listing endpoint.
// Unlike the creation payload, malformed entries are skipped rather than
// rejected; the filter is best-effort.
func parseItemFilter(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		if id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64); err == nil && id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
