package apartments

import (
	"context"

	"aptcatalog/internal/app/dto"
	"aptcatalog/internal/app/queries"
	domainapartments "aptcatalog/internal/domain/apartments"
	"aptcatalog/internal/domain/shared/faults"
)

const listApartmentsKey = "apartments.list"

// ListApartmentsQuery describes a search/filter/pagination request. Zero Page
// or Limit means the caller did not supply one.
type ListApartmentsQuery struct {
	Search string
	Filter *domainapartments.Filter
	Page   int
	Limit  int
}

func (ListApartmentsQuery) Key() string { return listApartmentsKey }

type ListApartmentsHandler struct {
	Repo domainapartments.Repository
}

func (h *ListApartmentsHandler) Handle(ctx context.Context, q ListApartmentsQuery) (dto.ApartmentPage, error) {
	window := domainapartments.NewWindow(q.Page, q.Limit)
	predicate := domainapartments.BuildPredicate(q.Search, q.Filter)

	result, err := h.Repo.Find(ctx, predicate, window)
	if err != nil {
		return dto.ApartmentPage{}, faults.WrapStorage("apartments.List", "Failed to fetch apartments", err)
	}
	return dto.MapPage(result, window), nil
}

var _ queries.Handler[ListApartmentsQuery, dto.ApartmentPage] = (*ListApartmentsHandler)(nil)
