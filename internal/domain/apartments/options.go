package apartments

import (
	"sort"
)

// NumericStats is the projection of one apartment's range-filterable fields.
// A nil value means the stored document lacks the field.
type NumericStats struct {
	Price     *float64
	Bedrooms  *float64
	Bathrooms *float64
	Size      *float64
}

// FilterOptionsSource is the raw material read from storage. Amenities may
// already be flattened and may contain duplicates.
type FilterOptionsSource struct {
	Locations []string
	Projects  []string
	Amenities []string
	Stats     []NumericStats
}

// FilterOptions populates the client filter UI.
type FilterOptions struct {
	Locations    []string `json:"locations"`
	Projects     []string `json:"projects"`
	Amenities    []string `json:"amenities"`
	MinPrice     float64  `json:"minPrice"`
	MaxPrice     float64  `json:"maxPrice"`
	MinBedrooms  float64  `json:"minBedrooms"`
	MaxBedrooms  float64  `json:"maxBedrooms"`
	MinBathrooms float64  `json:"minBathrooms"`
	MaxBathrooms float64  `json:"maxBathrooms"`
	MinSize      float64  `json:"minSize"`
	MaxSize      float64  `json:"maxSize"`
}

func AggregateFilterOptions(src FilterOptionsSource) FilterOptions {
	opts := FilterOptions{
		Locations: distinctSorted(src.Locations),
		Projects:  distinctSorted(src.Projects),
		Amenities: distinctSorted(src.Amenities),
	}
	var price, bedrooms, bathrooms, size span
	for _, row := range src.Stats {
		price.add(row.Price)
		bedrooms.add(row.Bedrooms)
		bathrooms.add(row.Bathrooms)
		size.add(row.Size)
	}
	opts.MinPrice, opts.MaxPrice = price.min, price.max
	opts.MinBedrooms, opts.MaxBedrooms = bedrooms.min, bedrooms.max
	opts.MinBathrooms, opts.MaxBathrooms = bathrooms.min, bathrooms.max
	opts.MinSize, opts.MaxSize = size.min, size.max
	return opts
}

type span struct {
	min, max float64
	seen     bool
}

func (s *span) add(v *float64) {
	if v == nil {
		return
	}
	if !s.seen {
		s.min, s.max, s.seen = *v, *v, true
		return
	}
	if *v < s.min {
		s.min = *v
	}
	if *v > s.max {
		s.max = *v
	}
}

func distinctSorted(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}

// SourceFromApartments builds the aggregation input from loaded apartments.
func SourceFromApartments(items []*Apartment) FilterOptionsSource {
	src := FilterOptionsSource{Stats: make([]NumericStats, 0, len(items))}
	for _, a := range items {
		if a == nil {
			continue
		}
		src.Locations = append(src.Locations, a.Location)
		src.Projects = append(src.Projects, a.Project)
		src.Amenities = append(src.Amenities, a.Amenities...)
		price, bedrooms, bathrooms, size := a.Price, float64(a.Bedrooms), float64(a.Bathrooms), a.Size
		src.Stats = append(src.Stats, NumericStats{Price: &price, Bedrooms: &bedrooms, Bathrooms: &bathrooms, Size: &size})
	}
	return src
}
