package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	domainapartments "aptcatalog/internal/domain/apartments"
)

// ErrDuplicateUnit mirrors the unique (project, unitNumber) index of the document store.
var ErrDuplicateUnit = errors.New("memory: duplicate project/unit number")

// ApartmentRepository keeps apartments in process; used for local runs and tests.
type ApartmentRepository struct {
	mu     sync.RWMutex
	items  map[domainapartments.ApartmentID]*domainapartments.Apartment
	units  map[string]domainapartments.ApartmentID
	now    func() time.Time
	failOn error
}

func NewApartmentRepository() *ApartmentRepository {
	return &ApartmentRepository{
		items: make(map[domainapartments.ApartmentID]*domainapartments.Apartment),
		units: make(map[string]domainapartments.ApartmentID),
		now:   time.Now,
	}
}

// WithClock overrides the timestamp source used on insert.
func (r *ApartmentRepository) WithClock(now func() time.Time) *ApartmentRepository {
	r.now = now
	return r
}

// FailWith makes every subsequent read and write return err. Passing nil restores normal operation.
func (r *ApartmentRepository) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failOn = err
}

func (r *ApartmentRepository) Insert(ctx context.Context, apartment *domainapartments.Apartment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn != nil {
		return r.failOn
	}
	key := apartment.UniqueKey()
	if _, taken := r.units[key]; taken {
		return domainapartments.DuplicateUnitError(ErrDuplicateUnit)
	}
	apartment.Stamp(r.now())
	stored := clone(apartment)
	r.items[stored.ID] = stored
	r.units[key] = stored.ID
	return nil
}

func (r *ApartmentRepository) ByID(ctx context.Context, id domainapartments.ApartmentID) (*domainapartments.Apartment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.failOn != nil {
		return nil, r.failOn
	}
	apartment, ok := r.items[id]
	if !ok {
		return nil, domainapartments.NotFoundError(id)
	}
	return clone(apartment), nil
}

func (r *ApartmentRepository) Find(ctx context.Context, predicate domainapartments.Predicate, window domainapartments.Window) (domainapartments.SearchResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.failOn != nil {
		return domainapartments.SearchResult{}, r.failOn
	}

	matches := make([]*domainapartments.Apartment, 0, len(r.items))
	for _, apartment := range r.items {
		select {
		case <-ctx.Done():
			return domainapartments.SearchResult{}, ctx.Err()
		default:
		}
		if predicate.Matches(apartment) {
			matches = append(matches, apartment)
		}
	}
	sortNewestFirst(matches)

	total := int64(len(matches))
	start := window.Skip()
	if start < 0 || start > total {
		start = total
	}
	end := start + int64(window.Limit)
	if end > total {
		end = total
	}
	items := make([]*domainapartments.Apartment, 0, end-start)
	for _, apartment := range matches[start:end] {
		items = append(items, clone(apartment))
	}
	return domainapartments.SearchResult{Items: items, Total: total}, nil
}

func (r *ApartmentRepository) FilterOptionsSource(ctx context.Context) (domainapartments.FilterOptionsSource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.failOn != nil {
		return domainapartments.FilterOptionsSource{}, r.failOn
	}
	all := make([]*domainapartments.Apartment, 0, len(r.items))
	for _, apartment := range r.items {
		all = append(all, apartment)
	}
	return domainapartments.SourceFromApartments(all), nil
}

// Len reports the number of stored apartments.
func (r *ApartmentRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func sortNewestFirst(items []*domainapartments.Apartment) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func clone(a *domainapartments.Apartment) *domainapartments.Apartment {
	out := &domainapartments.Apartment{
		ID:          a.ID,
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
		Amenities:   append([]string(nil), a.Amenities...),
		IsAvailable: a.IsAvailable,
		SearchText:  a.SearchText,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	return out
}

var _ domainapartments.Repository = (*ApartmentRepository)(nil)
