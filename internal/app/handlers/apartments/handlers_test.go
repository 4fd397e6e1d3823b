package apartments

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainapartments "aptcatalog/internal/domain/apartments"
	"aptcatalog/internal/domain/shared/events"
	"aptcatalog/internal/domain/shared/faults"
	"aptcatalog/internal/infra/storage/memory"
)

type recordingPublisher struct {
	published []events.DomainEvent
	err       error
}

func (p *recordingPublisher) Publish(_ context.Context, evs []events.DomainEvent) error {
	p.published = append(p.published, evs...)
	return p.err
}

type stubCache struct {
	stored      *domainapartments.FilterOptions
	generation  int64
	getErr      error
	gets        int
	invalidated int
	// onMiss runs after a miss is reported, before the handler fills.
	onMiss func()
}

func (c *stubCache) Get(context.Context) (domainapartments.FilterOptions, int64, bool, error) {
	c.gets++
	if c.getErr != nil {
		return domainapartments.FilterOptions{}, 0, false, c.getErr
	}
	if c.stored == nil {
		gen := c.generation
		if c.onMiss != nil {
			c.onMiss()
		}
		return domainapartments.FilterOptions{}, gen, false, nil
	}
	return *c.stored, c.generation, true, nil
}

func (c *stubCache) Set(_ context.Context, generation int64, opts domainapartments.FilterOptions) error {
	if generation != c.generation {
		return nil
	}
	c.stored = &opts
	return nil
}

func (c *stubCache) Invalidate(context.Context) error {
	c.invalidated++
	c.generation++
	c.stored = nil
	return nil
}

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }
func bptr(v bool) *bool       { return &v }

func validCommand(project, unit string) CreateApartmentCommand {
	return CreateApartmentCommand{
		Title:       "Penthouse with terrace",
		Description: "Top floor unit with a private terrace",
		Price:       fptr(2500000),
		Bedrooms:    iptr(3),
		Bathrooms:   iptr(2),
		Size:        fptr(180),
		Location:    "New Cairo",
		Project:     project,
		UnitNumber:  unit,
		Amenities:   []string{"Pool", "Gym"},
		Floor:       iptr(5),
		YearBuilt:   iptr(2020),
		ImageURL:    "https://img.example.com/p.jpg",
	}
}

type fixture struct {
	repo      *memory.ApartmentRepository
	cache     *stubCache
	publisher *recordingPublisher
	create    *CreateApartmentHandler
	ids       int
}

func newFixture() *fixture {
	f := &fixture{
		repo:      memory.NewApartmentRepository(),
		cache:     &stubCache{},
		publisher: &recordingPublisher{},
	}
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	f.repo.WithClock(func() time.Time {
		f.ids++
		return base.Add(time.Duration(f.ids) * time.Second)
	})
	seq := 0
	f.create = &CreateApartmentHandler{
		Repo:      f.repo,
		Publisher: f.publisher,
		Cache:     f.cache,
		Now:       func() time.Time { return base },
		NewID: func() string {
			seq++
			return fmt.Sprintf("apt-%03d", seq)
		},
	}
	return f
}

func TestCreateApartment(t *testing.T) {
	f := newFixture()
	out, err := f.create.Handle(context.Background(), validCommand("Seaside Villas", "d-502"))
	require.NoError(t, err)

	assert.Equal(t, "Apartment created successfully", out.Message)
	assert.Equal(t, "apt-001", out.Apartment.ID)
	assert.Equal(t, "D-502", out.Apartment.UnitNumber)
	assert.True(t, out.Apartment.IsAvailable)
	assert.Contains(t, out.Apartment.SearchText, "Seaside Villas")
	assert.False(t, out.Apartment.CreatedAt.IsZero())

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, "apartment.created", f.publisher.published[0].EventName())
	assert.Equal(t, 1, f.cache.invalidated)
}

func TestCreateApartmentRespectsIsAvailable(t *testing.T) {
	f := newFixture()
	cmd := validCommand("Seaside Villas", "A-1")
	cmd.IsAvailable = bptr(false)
	out, err := f.create.Handle(context.Background(), cmd)
	require.NoError(t, err)
	assert.False(t, out.Apartment.IsAvailable)
}

func TestCreateApartmentDuplicateUnit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	first, err := f.create.Handle(ctx, validCommand("Seaside Villas", "D-502"))
	require.NoError(t, err)

	_, err = f.create.Handle(ctx, validCommand("Seaside Villas", "D-502"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, faults.Conflict))
	assert.Equal(t, domainapartments.DuplicateUnitMessage, faults.Public(err))
	assert.Len(t, f.publisher.published, 1)

	get := &GetApartmentHandler{Repo: f.repo}
	detail, err := get.Handle(ctx, GetApartmentQuery{ID: first.Apartment.ID})
	require.NoError(t, err)
	assert.Equal(t, first.Apartment.Title, detail.Title)
}

func TestCreateApartmentStorageFailure(t *testing.T) {
	f := newFixture()
	f.repo.FailWith(errors.New("connection reset"))

	_, err := f.create.Handle(context.Background(), validCommand("P", "U"))
	require.Error(t, err)
	assert.Equal(t, faults.KindStorage, faults.KindOf(err))
	assert.Equal(t, "Failed to create apartment: connection reset", faults.Public(err))
	assert.Zero(t, f.cache.invalidated)
}

func TestCreateApartmentPublishFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.publisher.err = errors.New("kafka unavailable")
	_, err := f.create.Handle(context.Background(), validCommand("P", "U"))
	assert.NoError(t, err)
}

func TestCreateApartmentInvariantMapsToField(t *testing.T) {
	f := newFixture()
	cmd := validCommand("P", "U")
	cmd.Price = fptr(-5)
	_, err := f.create.Handle(context.Background(), cmd)
	require.Error(t, err)
	assert.True(t, errors.Is(err, faults.Validation))
	require.Len(t, faults.FieldsOf(err), 1)
	assert.Equal(t, "price", faults.FieldsOf(err)[0].Field)
}

func TestListApartmentsPaginates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		_, err := f.create.Handle(ctx, validCommand("Palm Residences", fmt.Sprintf("U-%d", i)))
		require.NoError(t, err)
	}
	list := &ListApartmentsHandler{Repo: f.repo}

	page, err := list.Handle(ctx, ListApartmentsQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page.Data, 10)
	assert.Equal(t, int64(25), page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNext)
	assert.False(t, page.Pagination.HasPrev)
	assert.Equal(t, "apt-025", page.Data[0].ID)

	last, err := list.Handle(ctx, ListApartmentsQuery{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, last.Data, 5)
	assert.False(t, last.Pagination.HasNext)

	clamped, err := list.Handle(ctx, ListApartmentsQuery{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 100, clamped.Pagination.Limit)
	assert.Len(t, clamped.Data, 25)
}

func TestListApartmentsFilters(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cheap := validCommand("Palm Residences", "C-1")
	cheap.Price = fptr(500000)
	_, err := f.create.Handle(ctx, cheap)
	require.NoError(t, err)
	_, err = f.create.Handle(ctx, validCommand("Seaside Villas", "S-1"))
	require.NoError(t, err)

	list := &ListApartmentsHandler{Repo: f.repo}
	page, err := list.Handle(ctx, ListApartmentsQuery{Search: "palm", Filter: &domainapartments.Filter{MaxPrice: fptr(600000)}})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "C-1", page.Data[0].UnitNumber)

	none, err := list.Handle(ctx, ListApartmentsQuery{Filter: &domainapartments.Filter{MinPrice: fptr(10), MaxPrice: fptr(1)}})
	require.NoError(t, err)
	assert.Empty(t, none.Data)
	assert.Equal(t, 0, none.Pagination.TotalPages)
}

func TestListApartmentsStorageFailure(t *testing.T) {
	f := newFixture()
	f.repo.FailWith(errors.New("timeout"))
	_, err := (&ListApartmentsHandler{Repo: f.repo}).Handle(context.Background(), ListApartmentsQuery{})
	assert.Equal(t, "Failed to fetch apartments: timeout", faults.Public(err))
}

func TestGetApartment(t *testing.T) {
	f := newFixture()
	get := &GetApartmentHandler{Repo: f.repo}

	_, err := get.Handle(context.Background(), GetApartmentQuery{ID: " "})
	assert.True(t, errors.Is(err, faults.Validation))

	_, err = get.Handle(context.Background(), GetApartmentQuery{ID: "missing"})
	assert.True(t, errors.Is(err, faults.NotFound))
	assert.Equal(t, "Apartment not found", faults.Public(err))
}

func TestFilterOptionsUsesCacheUntilCreate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	options := &FilterOptionsHandler{Repo: f.repo, Cache: f.cache}

	empty, err := options.Handle(ctx, FilterOptionsQuery{})
	require.NoError(t, err)
	assert.Empty(t, empty.Locations)
	assert.Zero(t, empty.MaxPrice)
	require.NotNil(t, f.cache.stored)

	_, err = f.create.Handle(ctx, validCommand("Seaside Villas", "A-1"))
	require.NoError(t, err)
	assert.Nil(t, f.cache.stored)

	fresh, err := options.Handle(ctx, FilterOptionsQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"New Cairo"}, fresh.Locations)
	assert.Equal(t, []string{"Gym", "Pool"}, fresh.Amenities)
	assert.Equal(t, 2500000.0, fresh.MaxPrice)

	f.repo.FailWith(errors.New("down"))
	cached, err := options.Handle(ctx, FilterOptionsQuery{})
	require.NoError(t, err)
	assert.Equal(t, fresh, cached)
}

func TestFilterOptionsIgnoresCacheErrors(t *testing.T) {
	f := newFixture()
	f.cache.getErr = errors.New("redis down")
	options := &FilterOptionsHandler{Repo: f.repo, Cache: f.cache}

	_, err := options.Handle(context.Background(), FilterOptionsQuery{})
	assert.NoError(t, err)
	assert.Nil(t, f.cache.stored)
}

func TestFilterOptionsDropsFillRacingCreate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	options := &FilterOptionsHandler{Repo: f.repo, Cache: f.cache}

	f.cache.onMiss = func() {
		f.cache.onMiss = nil
		_, err := f.create.Handle(ctx, validCommand("Seaside Villas", "A-1"))
		require.NoError(t, err)
	}
	_, err := options.Handle(ctx, FilterOptionsQuery{})
	require.NoError(t, err)
	assert.Nil(t, f.cache.stored)

	fresh, err := options.Handle(ctx, FilterOptionsQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"New Cairo"}, fresh.Locations)
	require.NotNil(t, f.cache.stored)
	assert.Equal(t, fresh, *f.cache.stored)
}

func TestFilterOptionsStorageFailure(t *testing.T) {
	f := newFixture()
	f.repo.FailWith(errors.New("down"))
	_, err := (&FilterOptionsHandler{Repo: f.repo}).Handle(context.Background(), FilterOptionsQuery{})
	assert.Equal(t, "Failed to get filter options: down", faults.Public(err))
}
