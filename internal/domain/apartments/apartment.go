package apartments

import (
	"context"
	"errors"
	"strings"
	"time"

	"aptcatalog/internal/domain/shared/events"
	"aptcatalog/internal/domain/shared/faults"
)

var (
	ErrIDRequired       = errors.New("apartments: id is required")
	ErrTitleRequired    = errors.New("apartments: title is required")
	ErrProjectRequired  = errors.New("apartments: project is required")
	ErrLocationRequired = errors.New("apartments: location is required")
	ErrNegativePrice    = errors.New("apartments: price must be non-negative")
	ErrNegativeSize     = errors.New("apartments: size must be non-negative")
	ErrNegativeRooms    = errors.New("apartments: bedrooms and bathrooms must be non-negative")
	ErrInvalidFloor     = errors.New("apartments: floor must be >= 0")
	ErrYearBuilt        = errors.New("apartments: year built must be between 1800 and the current year")
)

type ApartmentID string

// MinYearBuilt is the earliest construction year accepted.
const MinYearBuilt = 1800

const (
	NotFoundMessage      = "Apartment not found"
	DuplicateUnitMessage = "An apartment with this unit number already exists in this project"
)

// NotFoundError is returned by repositories when no apartment has the id.
func NotFoundError(id ApartmentID) error {
	return faults.NewNotFound("apartments.ByID", NotFoundMessage)
}

// DuplicateUnitError is returned by repositories when (project, unitNumber) is taken.
func DuplicateUnitError(cause error) error {
	return faults.NewConflict("apartments.Insert", DuplicateUnitMessage, cause)
}

type Apartment struct {
	ID          ApartmentID
	Title       string
	Description string
	Location    string
	Price       float64
	Size        float64
	Bedrooms    int
	Bathrooms   int
	Floor       int
	YearBuilt   int
	ImageURL    string
	Project     string
	UnitNumber  string
	Amenities   []string
	IsAvailable bool
	SearchText  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	events.EventRecorder
}

// Repository is the storage port for apartments.
type Repository interface {
	// Insert persists a new apartment, stamping CreatedAt/UpdatedAt. It returns a
	// conflict fault when (project, unitNumber) is already taken.
	Insert(ctx context.Context, apartment *Apartment) error
	ByID(ctx context.Context, id ApartmentID) (*Apartment, error)
	// Find returns one window of matches, newest first, together with the total match count.
	Find(ctx context.Context, predicate Predicate, window Window) (SearchResult, error)
	FilterOptionsSource(ctx context.Context) (FilterOptionsSource, error)
}

// SearchResult wraps one page of hits with the overall match count.
type SearchResult struct {
	Items []*Apartment
	Total int64
}

type CreateApartmentParams struct {
	ID          ApartmentID
	Title       string
	Description string
	Location    string
	Price       float64
	Size        float64
	Bedrooms    int
	Bathrooms   int
	Floor       int
	YearBuilt   int
	ImageURL    string
	Project     string
	UnitNumber  string
	Amenities   []string
	IsAvailable bool
	Now         time.Time
}

func NewApartment(params CreateApartmentParams) (*Apartment, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(params.Project) == "" {
		return nil, ErrProjectRequired
	}
	if strings.TrimSpace(params.Location) == "" {
		return nil, ErrLocationRequired
	}
	if params.Price < 0 {
		return nil, ErrNegativePrice
	}
	if params.Size < 0 {
		return nil, ErrNegativeSize
	}
	if params.Bedrooms < 0 || params.Bathrooms < 0 {
		return nil, ErrNegativeRooms
	}
	if params.Floor < 0 {
		return nil, ErrInvalidFloor
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	if params.YearBuilt < MinYearBuilt || params.YearBuilt > now.Year() {
		return nil, ErrYearBuilt
	}

	apartment := &Apartment{
		ID:          params.ID,
		Title:       strings.TrimSpace(params.Title),
		Description: params.Description,
		Location:    params.Location,
		Price:       params.Price,
		Size:        params.Size,
		Bedrooms:    params.Bedrooms,
		Bathrooms:   params.Bathrooms,
		Floor:       params.Floor,
		YearBuilt:   params.YearBuilt,
		ImageURL:    params.ImageURL,
		Project:     strings.TrimSpace(params.Project),
		UnitNumber:  strings.ToUpper(strings.TrimSpace(params.UnitNumber)),
		Amenities:   normalizeAmenities(params.Amenities),
		IsAvailable: params.IsAvailable,
	}
	apartment.SearchText = BuildSearchText(apartment)
	apartment.Record(newApartmentCreatedEvent(apartment, now.UTC()))
	return apartment, nil
}

// BuildSearchText derives the free-text field matched by the search term.
func BuildSearchText(a *Apartment) string {
	return strings.Join([]string{a.Title, a.Description, a.Location, a.Project, a.UnitNumber}, "-")
}

// Stamp sets the audit timestamps on insert.
func (a *Apartment) Stamp(now time.Time) {
	now = now.UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
}

// UniqueKey identifies the (project, unitNumber) slot the apartment occupies.
func (a *Apartment) UniqueKey() string {
	return a.Project + "\x00" + a.UnitNumber
}

func normalizeAmenities(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
