package dto

import (
	"time"

	domainapartments "aptcatalog/internal/domain/apartments"
)

// ApartmentSummary is the list-view shape.
type ApartmentSummary struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Project     string  `json:"project"`
	ImageURL    string  `json:"imageUrl"`
	Bedrooms    int     `json:"bedrooms"`
	Bathrooms   int     `json:"bathrooms"`
	Size        float64 `json:"size"`
	IsAvailable bool    `json:"isAvailable"`
	UnitNumber  string  `json:"unitNumber"`
}

// ApartmentDetail is the single-record shape: the summary plus heavier fields.
type ApartmentDetail struct {
	ApartmentSummary
	Amenities  []string  `json:"amenities"`
	Floor      int       `json:"floor"`
	YearBuilt  int       `json:"yearBuilt"`
	SearchText string    `json:"searchText"`
	Location   string    `json:"location"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ApartmentPage is the list response envelope.
type ApartmentPage struct {
	Data       []ApartmentSummary        `json:"data"`
	Pagination domainapartments.PageMeta `json:"pagination"`
}

// ApartmentCreated is the create response envelope.
type ApartmentCreated struct {
	Message   string          `json:"message"`
	Apartment ApartmentDetail `json:"apartment"`
}

// FormatApartment projects a stored apartment into the summary or detailed shape.
func FormatApartment(a *domainapartments.Apartment, withDetails bool) any {
	if withDetails {
		return MapDetail(a)
	}
	return MapSummary(a)
}

func MapSummary(a *domainapartments.Apartment) ApartmentSummary {
	if a == nil {
		return ApartmentSummary{}
	}
	return ApartmentSummary{
		ID:          string(a.ID),
		Title:       a.Title,
		Description: a.Description,
		Price:       a.Price,
		Project:     a.Project,
		ImageURL:    a.ImageURL,
		Bedrooms:    a.Bedrooms,
		Bathrooms:   a.Bathrooms,
		Size:        a.Size,
		IsAvailable: a.IsAvailable,
		UnitNumber:  a.UnitNumber,
	}
}

func MapDetail(a *domainapartments.Apartment) ApartmentDetail {
	if a == nil {
		return ApartmentDetail{}
	}
	amenities := append([]string{}, a.Amenities...)
	return ApartmentDetail{
		ApartmentSummary: MapSummary(a),
		Amenities:        amenities,
		Floor:            a.Floor,
		YearBuilt:        a.YearBuilt,
		SearchText:       a.SearchText,
		Location:         a.Location,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

// MapPage builds the list envelope for one window of results.
func MapPage(result domainapartments.SearchResult, window domainapartments.Window) ApartmentPage {
	items := make([]ApartmentSummary, 0, len(result.Items))
	for _, a := range result.Items {
		items = append(items, MapSummary(a))
	}
	return ApartmentPage{
		Data:       items,
		Pagination: window.Meta(result.Total),
	}
}
