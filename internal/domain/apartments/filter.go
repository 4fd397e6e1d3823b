package apartments

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"aptcatalog/internal/domain/shared/faults"
)

// Filter holds the optional constraints of a catalog request. A nil field
// imposes no constraint.
type Filter struct {
	MinPrice     *float64
	MaxPrice     *float64
	MinBedrooms  *float64
	MaxBedrooms  *float64
	MinBathrooms *float64
	MaxBathrooms *float64
	MinSize      *float64
	MaxSize      *float64
	Location     *string
	Project      *string
	IsAvailable  *bool
	Amenities    []string
}

// IsZero reports whether no constraint is set.
func (f *Filter) IsZero() bool {
	if f == nil {
		return true
	}
	return f.MinPrice == nil && f.MaxPrice == nil &&
		f.MinBedrooms == nil && f.MaxBedrooms == nil &&
		f.MinBathrooms == nil && f.MaxBathrooms == nil &&
		f.MinSize == nil && f.MaxSize == nil &&
		f.Location == nil && f.Project == nil &&
		f.IsAvailable == nil && len(f.Amenities) == 0
}

const invalidTextMessage = "must be valid UTF-8 text"

// ParseSearch trims the free-text search term and rejects undecodable input.
func ParseSearch(raw string) (string, error) {
	term := strings.TrimSpace(raw)
	if !utf8.ValidString(term) {
		return "", faults.NewValidation("apartments.ParseSearch", "Invalid search term",
			faults.FieldError{Field: "search", Message: invalidTextMessage})
	}
	return term, nil
}

// ParseFilter turns raw query parameters into a Filter holding only the keys
// that were present and non-empty. It returns nil when nothing was set.
func ParseFilter(raw map[string][]string) (*Filter, error) {
	f := &Filter{}
	var fields []faults.FieldError

	numeric := []struct {
		key string
		dst **float64
	}{
		{"minPrice", &f.MinPrice},
		{"maxPrice", &f.MaxPrice},
		{"minBedrooms", &f.MinBedrooms},
		{"maxBedrooms", &f.MaxBedrooms},
		{"minBathrooms", &f.MinBathrooms},
		{"maxBathrooms", &f.MaxBathrooms},
		{"minSize", &f.MinSize},
		{"maxSize", &f.MaxSize},
	}
	for _, n := range numeric {
		value, ok := firstValue(raw, n.key)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			fields = append(fields, faults.FieldError{Field: n.key, Message: "must be a number"})
			continue
		}
		*n.dst = &parsed
	}

	for _, t := range []struct {
		key string
		dst **string
	}{
		{"location", &f.Location},
		{"project", &f.Project},
	} {
		value, ok := firstValue(raw, t.key)
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if !utf8.ValidString(value) {
			fields = append(fields, faults.FieldError{Field: t.key, Message: invalidTextMessage})
			continue
		}
		if value != "" {
			*t.dst = &value
		}
	}
	if len(fields) > 0 {
		return nil, faults.NewValidation("apartments.ParseFilter", "Invalid filter parameters", fields...)
	}

	if values, present := raw["isAvailable"]; present {
		available := len(values) > 0 && (values[0] == "true" || values[0] == "1")
		f.IsAvailable = &available
	}
	f.Amenities = amenityValues(raw)

	if f.IsZero() {
		return nil, nil
	}
	return f, nil
}

func firstValue(raw map[string][]string, key string) (string, bool) {
	values := raw[key]
	if len(values) == 0 || values[0] == "" {
		return "", false
	}
	return values[0], true
}

// amenityValues accepts both repeated keys and the bracket form axios emits.
func amenityValues(raw map[string][]string) []string {
	var out []string
	for _, key := range []string{"amenities", "amenities[]"} {
		for _, value := range raw[key] {
			if value == "" {
				continue
			}
			out = append(out, value)
		}
	}
	return out
}
