package apartments

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"aptcatalog/internal/app/commands"
	"aptcatalog/internal/app/dto"
	"aptcatalog/internal/app/policies"
	domainapartments "aptcatalog/internal/domain/apartments"
	"aptcatalog/internal/domain/shared/faults"
)

const (
	createApartmentKey = "apartments.create"

	createdMessage = "Apartment created successfully"
)

// CreateApartmentCommand carries a validated create request.
type CreateApartmentCommand struct {
	Title       string   `json:"title" validate:"required,notblank,min=3,max=100"`
	Description string   `json:"description" validate:"required,min=10,max=1000"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Bedrooms    *int     `json:"bedrooms" validate:"required,gte=0"`
	Bathrooms   *int     `json:"bathrooms" validate:"required,gte=0"`
	Size        *float64 `json:"size" validate:"required,gte=0"`
	Location    string   `json:"location" validate:"required,min=2,max=100"`
	Project     string   `json:"project" validate:"required,notblank,max=100"`
	UnitNumber  string   `json:"unitNumber" validate:"max=50"`
	Amenities   []string `json:"amenities" validate:"omitempty,max=50,dive,max=60"`
	Floor       *int     `json:"floor" validate:"required,gte=0"`
	YearBuilt   *int     `json:"yearBuilt" validate:"required,gte=1800,notfuture"`
	IsAvailable *bool    `json:"isAvailable"`
	ImageURL    string   `json:"imageUrl" validate:"required,url"`
}

func (CreateApartmentCommand) Key() string { return createApartmentKey }

// Trim strips surrounding whitespace from the free-text fields.
func (c *CreateApartmentCommand) Trim() {
	c.Title = strings.TrimSpace(c.Title)
	c.Description = strings.TrimSpace(c.Description)
	c.Location = strings.TrimSpace(c.Location)
	c.Project = strings.TrimSpace(c.Project)
	c.UnitNumber = strings.TrimSpace(c.UnitNumber)
	c.ImageURL = strings.TrimSpace(c.ImageURL)
}

type CreateApartmentHandler struct {
	Repo      domainapartments.Repository
	Publisher policies.EventPublisher
	Cache     policies.FilterOptionsCache
	Logger    *slog.Logger
	Now       func() time.Time
	NewID     func() string
}

func (h *CreateApartmentHandler) Handle(ctx context.Context, cmd CreateApartmentCommand) (*dto.ApartmentCreated, error) {
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	newID := uuid.NewString
	if h.NewID != nil {
		newID = h.NewID
	}
	available := true
	if cmd.IsAvailable != nil {
		available = *cmd.IsAvailable
	}

	apartment, err := domainapartments.NewApartment(domainapartments.CreateApartmentParams{
		ID:          domainapartments.ApartmentID(newID()),
		Title:       cmd.Title,
		Description: cmd.Description,
		Location:    cmd.Location,
		Price:       derefFloat(cmd.Price),
		Size:        derefFloat(cmd.Size),
		Bedrooms:    derefInt(cmd.Bedrooms),
		Bathrooms:   derefInt(cmd.Bathrooms),
		Floor:       derefInt(cmd.Floor),
		YearBuilt:   derefInt(cmd.YearBuilt),
		ImageURL:    cmd.ImageURL,
		Project:     cmd.Project,
		UnitNumber:  cmd.UnitNumber,
		Amenities:   cmd.Amenities,
		IsAvailable: available,
		Now:         now,
	})
	if err != nil {
		return nil, invariantFault(err)
	}

	if err := h.Repo.Insert(ctx, apartment); err != nil {
		// conflicts arrive tagged and pass through unchanged
		return nil, faults.WrapStorage("apartments.Create", "Failed to create apartment", err)
	}

	if h.Cache != nil {
		if err := h.Cache.Invalidate(ctx); err != nil {
			h.log().WarnContext(ctx, "filter options cache invalidation failed", "error", err)
		}
	}
	if h.Publisher != nil {
		if err := h.Publisher.Publish(ctx, apartment.PendingEvents()); err != nil {
			h.log().WarnContext(ctx, "apartment events not published", "apartment_id", apartment.ID, "error", err)
		}
	}
	apartment.ClearEvents()

	h.log().InfoContext(ctx, "apartment created", "apartment_id", apartment.ID, "project", apartment.Project, "unit_number", apartment.UnitNumber)
	return &dto.ApartmentCreated{
		Message:   createdMessage,
		Apartment: dto.MapDetail(apartment),
	}, nil
}

func (h *CreateApartmentHandler) log() *slog.Logger {
	if h.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return h.Logger
}

var invariantFields = map[error]string{
	domainapartments.ErrIDRequired:       "id",
	domainapartments.ErrTitleRequired:    "title",
	domainapartments.ErrProjectRequired:  "project",
	domainapartments.ErrLocationRequired: "location",
	domainapartments.ErrNegativePrice:    "price",
	domainapartments.ErrNegativeSize:     "size",
	domainapartments.ErrNegativeRooms:    "bedrooms",
	domainapartments.ErrInvalidFloor:     "floor",
	domainapartments.ErrYearBuilt:        "yearBuilt",
}

func invariantFault(err error) error {
	for sentinel, field := range invariantFields {
		if errors.Is(err, sentinel) {
			return faults.NewValidation("apartments.Create", "Validation failed", faults.FieldError{Field: field, Message: err.Error()})
		}
	}
	return faults.NewValidation("apartments.Create", err.Error())
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

var _ commands.Handler[CreateApartmentCommand, *dto.ApartmentCreated] = (*CreateApartmentHandler)(nil)
