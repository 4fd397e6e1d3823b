package ginserver

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"aptcatalog/internal/app/commands"
	"aptcatalog/internal/app/dto"
	apartmentsapp "aptcatalog/internal/app/handlers/apartments"
	"aptcatalog/internal/app/queries"
	domainapartments "aptcatalog/internal/domain/apartments"
	"aptcatalog/internal/domain/shared/faults"
)

// ApartmentHandler wires the apartment buses to HTTP.
type ApartmentHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

func (h ApartmentHandler) Create(c *gin.Context) {
	var cmd apartmentsapp.CreateApartmentCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respondError(c, h.Logger, faults.NewValidation("http.CreateApartment", "Invalid request body",
			faults.FieldError{Field: "body", Message: err.Error()}))
		return
	}
	cmd.Trim()
	result, err := commands.Dispatch[apartmentsapp.CreateApartmentCommand, *dto.ApartmentCreated](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ApartmentHandler) List(c *gin.Context) {
	raw := c.Request.URL.Query()
	filter, err := domainapartments.ParseFilter(raw)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	search, err := domainapartments.ParseSearch(raw.Get("search"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	query := apartmentsapp.ListApartmentsQuery{
		Search: search,
		Filter: filter,
		Page:   parseInt(raw.Get("page")),
		Limit:  parseInt(raw.Get("limit")),
	}
	result, err := queries.Ask[apartmentsapp.ListApartmentsQuery, dto.ApartmentPage](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ApartmentHandler) Get(c *gin.Context) {
	query := apartmentsapp.GetApartmentQuery{ID: c.Param("id")}
	result, err := queries.Ask[apartmentsapp.GetApartmentQuery, dto.ApartmentDetail](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ApartmentHandler) FilterOptions(c *gin.Context) {
	result, err := queries.Ask[apartmentsapp.FilterOptionsQuery, domainapartments.FilterOptions](c.Request.Context(), h.Queries, apartmentsapp.FilterOptionsQuery{})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ ApartmentHTTP = ApartmentHandler{}

// parseInt reads an optional integer parameter; malformed input counts as absent.
func parseInt(value string) int {
	if value == "" {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return v
}
