package apartments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateFilterOptionsEmpty(t *testing.T) {
	opts := AggregateFilterOptions(FilterOptionsSource{})
	assert.Empty(t, opts.Locations)
	assert.NotNil(t, opts.Locations)
	assert.NotNil(t, opts.Amenities)
	assert.Zero(t, opts.MinPrice)
	assert.Zero(t, opts.MaxPrice)
	assert.Zero(t, opts.MaxSize)
}

func TestAggregateFilterOptionsDistinctSorted(t *testing.T) {
	opts := AggregateFilterOptions(FilterOptionsSource{
		Locations: []string{"Zamalek", "", "Maadi", "Zamalek"},
		Projects:  []string{"B", "A"},
		Amenities: []string{"Pool", "Gym", "Pool"},
		Stats: []NumericStats{
			{Price: fptr(500), Bedrooms: fptr(2), Bathrooms: fptr(1), Size: fptr(70)},
			{Price: fptr(1500), Bedrooms: fptr(4), Bathrooms: fptr(3), Size: nil},
			{Price: nil, Bedrooms: fptr(1), Bathrooms: fptr(1), Size: fptr(45)},
		},
	})
	assert.Equal(t, []string{"Maadi", "Zamalek"}, opts.Locations)
	assert.Equal(t, []string{"A", "B"}, opts.Projects)
	assert.Equal(t, []string{"Gym", "Pool"}, opts.Amenities)
	assert.Equal(t, 500.0, opts.MinPrice)
	assert.Equal(t, 1500.0, opts.MaxPrice)
	assert.Equal(t, 1.0, opts.MinBedrooms)
	assert.Equal(t, 4.0, opts.MaxBedrooms)
	assert.Equal(t, 45.0, opts.MinSize)
	assert.Equal(t, 70.0, opts.MaxSize)
}

func TestSourceFromApartments(t *testing.T) {
	a := sampleApartment()
	b := sampleApartment()
	b.Location = "Maadi"
	b.Price = 900
	b.Amenities = []string{"Gym", "Garden"}

	opts := AggregateFilterOptions(SourceFromApartments([]*Apartment{a, nil, b}))
	assert.Equal(t, []string{"Maadi", "New Cairo"}, opts.Locations)
	assert.Equal(t, []string{"Garden", "Gym", "Parking", "Pool"}, opts.Amenities)
	assert.Equal(t, 900.0, opts.MinPrice)
	assert.Equal(t, 2000.0, opts.MaxPrice)
}
