package apartments

import (
	"context"
	"log/slog"

	"aptcatalog/internal/app/policies"
	"aptcatalog/internal/app/queries"
	domainapartments "aptcatalog/internal/domain/apartments"
	"aptcatalog/internal/domain/shared/faults"
)

const filterOptionsKey = "apartments.filter_options"

type FilterOptionsQuery struct{}

func (FilterOptionsQuery) Key() string { return filterOptionsKey }

// FilterOptionsHandler aggregates filter metadata over the whole collection,
// serving from Cache when one is configured. Cache errors are never surfaced.
type FilterOptionsHandler struct {
	Repo   domainapartments.Repository
	Cache  policies.FilterOptionsCache
	Logger *slog.Logger
}

func (h *FilterOptionsHandler) Handle(ctx context.Context, _ FilterOptionsQuery) (domainapartments.FilterOptions, error) {
	var (
		generation int64
		fill       bool
	)
	if h.Cache != nil {
		cached, gen, ok, err := h.Cache.Get(ctx)
		switch {
		case err != nil:
			h.warn(ctx, "filter options cache read failed", err)
		case ok:
			return cached, nil
		default:
			generation, fill = gen, true
		}
	}

	src, err := h.Repo.FilterOptionsSource(ctx)
	if err != nil {
		return domainapartments.FilterOptions{}, faults.WrapStorage("apartments.FilterOptions", "Failed to get filter options", err)
	}
	opts := domainapartments.AggregateFilterOptions(src)

	if fill {
		if err := h.Cache.Set(ctx, generation, opts); err != nil {
			h.warn(ctx, "filter options cache write failed", err)
		}
	}
	return opts, nil
}

func (h *FilterOptionsHandler) warn(ctx context.Context, msg string, err error) {
	if h.Logger != nil {
		h.Logger.WarnContext(ctx, msg, "error", err)
	}
}

var _ queries.Handler[FilterOptionsQuery, domainapartments.FilterOptions] = (*FilterOptionsHandler)(nil)
