package policies

import (
	"context"

	domainapartments "aptcatalog/internal/domain/apartments"
)

// FilterOptionsCache memoizes the aggregated filter options between writes.
// Get reports the generation it observed. Set stores only while that
// generation is still current, so a fill that raced an Invalidate is dropped.
type FilterOptionsCache interface {
	Get(ctx context.Context) (opts domainapartments.FilterOptions, generation int64, ok bool, err error)
	Set(ctx context.Context, generation int64, opts domainapartments.FilterOptions) error
	Invalidate(ctx context.Context) error
}
