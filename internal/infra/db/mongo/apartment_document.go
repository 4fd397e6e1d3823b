package mongo

import (
	"time"

	domainapartments "aptcatalog/internal/domain/apartments"
)

type apartmentDocument struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Location    string    `bson:"location"`
	Price       float64   `bson:"price"`
	Size        float64   `bson:"size"`
	Bedrooms    int       `bson:"bedrooms"`
	Bathrooms   int       `bson:"bathrooms"`
	Floor       int       `bson:"floor"`
	YearBuilt   int       `bson:"yearBuilt"`
	ImageURL    string    `bson:"imageUrl"`
	Project     string    `bson:"project"`
	UnitNumber  string    `bson:"unitNumber"`
	Amenities   []string  `bson:"amenities"`
	IsAvailable bool      `bson:"isAvailable"`
	SearchText  string    `bson:"searchText"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func newApartmentDocument(a *domainapartments.Apartment) apartmentDocument {
	amenities := a.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return apartmentDocument{
		ID:          string(a.ID),
		Title:       a.Title,
		Description: a.Description,
		Location:    a.Location,
		Price:       a.Price,
		Size:        a.Size,
		Bedrooms:    a.Bedrooms,
		Bathrooms:   a.Bathrooms,
		Floor:       a.Floor,
		YearBuilt:   a.YearBuilt,
		ImageURL:    a.ImageURL,
		Project:     a.Project,
		UnitNumber:  a.UnitNumber,
		Amenities:   amenities,
		IsAvailable: a.IsAvailable,
		SearchText:  a.SearchText,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (d apartmentDocument) toAggregate() *domainapartments.Apartment {
	return &domainapartments.Apartment{
		ID:          domainapartments.ApartmentID(d.ID),
		Title:       d.Title,
		Description: d.Description,
		Location:    d.Location,
		Price:       d.Price,
		Size:        d.Size,
		Bedrooms:    d.Bedrooms,
		Bathrooms:   d.Bathrooms,
		Floor:       d.Floor,
		YearBuilt:   d.YearBuilt,
		ImageURL:    d.ImageURL,
		Project:     d.Project,
		UnitNumber:  d.UnitNumber,
		Amenities:   append([]string(nil), d.Amenities...),
		IsAvailable: d.IsAvailable,
		SearchText:  d.SearchText,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// statsDocument is the numeric projection; pointers stay nil for missing fields.
type statsDocument struct {
	Price     *float64 `bson:"price"`
	Bedrooms  *float64 `bson:"bedrooms"`
	Bathrooms *float64 `bson:"bathrooms"`
	Size      *float64 `bson:"size"`
}

func (d statsDocument) toStats() domainapartments.NumericStats {
	return domainapartments.NumericStats{
		Price:     d.Price,
		Bedrooms:  d.Bedrooms,
		Bathrooms: d.Bathrooms,
		Size:      d.Size,
	}
}
