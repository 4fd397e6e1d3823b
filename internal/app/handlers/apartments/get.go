package apartments

import (
	"context"
	"strings"

	"aptcatalog/internal/app/dto"
	"aptcatalog/internal/app/queries"
	domainapartments "aptcatalog/internal/domain/apartments"
	"aptcatalog/internal/domain/shared/faults"
)

const getApartmentKey = "apartments.get"

type GetApartmentQuery struct {
	ID string `json:"id" validate:"required,notblank"`
}

func (GetApartmentQuery) Key() string { return getApartmentKey }

type GetApartmentHandler struct {
	Repo domainapartments.Repository
}

func (h *GetApartmentHandler) Handle(ctx context.Context, q GetApartmentQuery) (dto.ApartmentDetail, error) {
	id := strings.TrimSpace(q.ID)
	if id == "" {
		return dto.ApartmentDetail{}, faults.NewValidation("apartments.Get", "Apartment ID is required",
			faults.FieldError{Field: "id", Message: "is required"})
	}
	apartment, err := h.Repo.ByID(ctx, domainapartments.ApartmentID(id))
	if err != nil {
		return dto.ApartmentDetail{}, faults.WrapStorage("apartments.Get", "Failed to fetch apartment", err)
	}
	return dto.MapDetail(apartment), nil
}

var _ queries.Handler[GetApartmentQuery, dto.ApartmentDetail] = (*GetApartmentHandler)(nil)
