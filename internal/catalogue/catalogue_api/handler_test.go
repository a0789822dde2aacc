package catalogue_api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spirit-hunts/internal/catalogue"
	"spirit-hunts/internal/catalogue/catalogue_api"
	"spirit-hunts/internal/logger"
	"spirit-hunts/internal/models"
	"spirit-hunts/internal/store/storetest"
)

type listingResponse struct {
	Success bool              `json:"success"`
	Data    catalogue.Listing `json:"data"`
}

func newRouter(t *testing.T) (http.Handler, *models.Event) {
	tables := storetest.NewTables(t, nil)
	horror := storetest.Event("Ancient Ram Inn", "Gloucestershire", 3, 65)
	horror.EventType = models.EventTypeHorror
	storetest.MustInsert(t, tables.Events, horror)
	storetest.MustInsert(t, tables.Events, storetest.Event("Pendle Hill", "Lancashire", 1, 30))

	h := catalogue_api.NewHandler(catalogue.NewService(tables.Events, tables.Reviews, nil), logger.Discard())
	r := chi.NewRouter()
	r.Route("/api", h.RegisterRoutes)
	return r, horror
}

func TestListEventsAppliesQueryFilters(t *testing.T) {
	router, horror := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events?type=horror", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body listingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data.Events, 1)
	assert.Equal(t, horror.ID, body.Data.Events[0].ID)
	assert.Equal(t, 2, body.Data.Total)
	assert.ElementsMatch(t, []string{"Gloucestershire", "Lancashire"}, body.Data.Locations)
}

func TestGetEventNotFoundRedirectsToCatalogue(t *testing.T) {
	router, _ := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events/missing", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "/events", body["redirect"])
}

func TestGetEventReturnsDetails(t *testing.T) {
	router, horror := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events/"+horror.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data models.EventDetails `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Ancient Ram Inn", body.Data.Event.Title)
	assert.Empty(t, body.Data.Reviews)
}
