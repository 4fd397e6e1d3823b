package ginserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	gin "github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aptcatalog/internal/app/commands"
	"aptcatalog/internal/app/dto"
	apartmentsapp "aptcatalog/internal/app/handlers/apartments"
	"aptcatalog/internal/app/middleware"
	"aptcatalog/internal/app/queries"
	domainapartments "aptcatalog/internal/domain/apartments"
	"aptcatalog/internal/infra/obs"
	"aptcatalog/internal/infra/storage/memory"
)

func newTestRouter(t *testing.T) (*gin.Engine, *memory.ApartmentRepository) {
	t.Helper()
	repo := memory.NewApartmentRepository()

	commandBus := commands.NewInMemoryBus()
	commands.Register[apartmentsapp.CreateApartmentCommand, *dto.ApartmentCreated](commandBus, &apartmentsapp.CreateApartmentHandler{Repo: repo})
	queryBus := queries.NewInMemoryBus()
	queries.Register[apartmentsapp.ListApartmentsQuery, dto.ApartmentPage](queryBus, &apartmentsapp.ListApartmentsHandler{Repo: repo})
	queries.Register[apartmentsapp.GetApartmentQuery, dto.ApartmentDetail](queryBus, &apartmentsapp.GetApartmentHandler{Repo: repo})
	queries.Register[apartmentsapp.FilterOptionsQuery, domainapartments.FilterOptions](queryBus, &apartmentsapp.FilterOptionsHandler{Repo: repo})

	validator := middleware.NewStructValidator()
	router := NewRouter("test", obs.Middleware{Metrics: obs.NewMetrics()}, obs.HealthHandlers{}, Handlers{
		Apartments: ApartmentHandler{
			Commands: middleware.ChainCommands(commandBus, middleware.Validation(validator)),
			Queries:  middleware.ChainQueries(queryBus, middleware.QueryValidation(validator)),
		},
	})
	return router, repo
}

func createBody(project, unit string) map[string]any {
	return map[string]any{
		"title":       "Sea view apartment",
		"description": "Corner unit with a wide balcony",
		"price":       1850000,
		"bedrooms":    2,
		"bathrooms":   2,
		"size":        130,
		"location":    "New Cairo",
		"project":     project,
		"unitNumber":  unit,
		"amenities":   []string{"Pool", "Gym"},
		"floor":       5,
		"yearBuilt":   2019,
		"imageUrl":    "https://img.example.com/a.jpg",
	}
}

func do(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestCreateThenGet(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/apartments", createBody("Seaside Villas", "d-502"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Apartment created successfully", body["message"])
	apartment := body["apartment"].(map[string]any)
	assert.Equal(t, "D-502", apartment["unitNumber"])
	assert.Equal(t, true, apartment["isAvailable"])
	id := apartment["id"].(string)

	rec = do(t, router, http.MethodGet, "/api/apartments/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode(t, rec)
	assert.Equal(t, id, detail["id"])
	assert.Contains(t, detail, "searchText")
	assert.Contains(t, detail, "createdAt")
}

func TestCreateDuplicateUnitConflicts(t *testing.T) {
	router, repo := newTestRouter(t)

	first := do(t, router, http.MethodPost, "/api/apartments", createBody("Seaside Villas", "D-502"))
	require.Equal(t, http.StatusCreated, first.Code)

	rec := do(t, router, http.MethodPost, "/api/apartments", createBody("Seaside Villas", "D-502"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "An apartment with this unit number already exists in this project", decode(t, rec)["error"])
	assert.Equal(t, 1, repo.Len())

	id := decode(t, first)["apartment"].(map[string]any)["id"].(string)
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/api/apartments/"+id, nil).Code)
}

func TestCreateValidationDetails(t *testing.T) {
	router, _ := newTestRouter(t)
	body := createBody("Seaside Villas", "A-1")
	body["title"] = "ab"
	delete(body, "imageUrl")

	rec := do(t, router, http.MethodPost, "/api/apartments", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, "Validation failed", out["error"])

	fields := map[string]bool{}
	for _, d := range out["details"].([]any) {
		fields[d.(map[string]any)["field"].(string)] = true
	}
	assert.True(t, fields["title"])
	assert.True(t, fields["imageUrl"])
}

func TestCreateMalformedJSON(t *testing.T) {
	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/apartments", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decode(t, rec)["error"])
}

func TestListPaginationAndFilters(t *testing.T) {
	router, _ := newTestRouter(t)
	for i := 0; i < 25; i++ {
		body := createBody("Palm Residences", fmt.Sprintf("P-%d", i))
		body["price"] = 1000 * (i + 1)
		require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/apartments", body).Code)
	}

	rec := do(t, router, http.MethodGet, "/api/apartments?page=3&limit=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Len(t, out["data"], 5)
	pagination := out["pagination"].(map[string]any)
	assert.Equal(t, 25.0, pagination["total"])
	assert.Equal(t, 3.0, pagination["totalPages"])
	assert.Equal(t, false, pagination["hasNext"])
	assert.Equal(t, true, pagination["hasPrev"])

	summary := out["data"].([]any)[0].(map[string]any)
	assert.NotContains(t, summary, "searchText")
	assert.NotContains(t, summary, "amenities")

	rec = do(t, router, http.MethodGet, "/api/apartments?minPrice=5000&maxPrice=7000&amenities[]=Pool&amenities[]=Gym", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3.0, decode(t, rec)["pagination"].(map[string]any)["total"])

	rec = do(t, router, http.MethodGet, "/api/apartments?limit=abc&page=-2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	pagination = decode(t, rec)["pagination"].(map[string]any)
	assert.Equal(t, 1.0, pagination["page"])
	assert.Equal(t, 10.0, pagination["limit"])
}

func TestListRejectsNonNumericFilter(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := do(t, router, http.MethodGet, "/api/apartments?minPrice=cheap", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid filter parameters", decode(t, rec)["error"])
}

func TestGetMissingApartment(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := do(t, router, http.MethodGet, "/api/apartments/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Apartment not found", decode(t, rec)["error"])
}

func TestFilterOptionsRoute(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := do(t, router, http.MethodGet, "/api/apartments/filter-options", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, []any{}, out["locations"])
	assert.Equal(t, 0.0, out["maxPrice"])
}

func TestStorageFailureIs500(t *testing.T) {
	router, repo := newTestRouter(t)
	repo.FailWith(errors.New("socket closed"))
	rec := do(t, router, http.MethodGet, "/api/apartments", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch apartments: socket closed", decode(t, rec)["error"])
}

func TestHealthAndUnknownRoute(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"status": "OK", "message": "Server is running"}, decode(t, rec))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = do(t, router, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decode(t, rec)["error"])

	rec = do(t, router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "aptcatalog_http_requests_total")

	rec = do(t, router, http.MethodGet, "/swagger/doc.json", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListRejectsUndecodableText(t *testing.T) {
	router, _ := newTestRouter(t)
	for _, target := range []string{
		"/api/apartments?search=%FF",
		"/api/apartments?location=%FF",
		"/api/apartments?project=%FE%FF",
	} {
		rec := do(t, router, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestListTrimsTextFiltersAndToleratesHugePages(t *testing.T) {
	router, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/apartments", createBody("Seaside Villas", "A-1")).Code)

	rec := do(t, router, http.MethodGet, "/api/apartments?location=New%20Cairo%20&project=%20", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, decode(t, rec)["pagination"].(map[string]any)["total"])

	rec = do(t, router, http.MethodGet, "/api/apartments?page=1152921504606846977", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Empty(t, out["data"])
	assert.Equal(t, 1.0, out["pagination"].(map[string]any)["total"])
}
