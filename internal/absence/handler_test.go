package absence

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(repo *mockRepository) http.Handler {
	svc := NewService(repo, staticClosedDays{})
	h := NewHandler(slog.New(slog.DiscardHandler), svc)
	r := chi.NewRouter()
	r.Route("/api", h.MountRoutes)
	return r
}

func TestHandlerCreate(t *testing.T) {
	repo := newMockRepository()
	router := newTestRouter(repo)

	body := `{"userId":"u-1","startDate":"2025-01-13","endDate":"2025-01-17","type":"ABSENCE"}`
	req := httptest.NewRequest(http.MethodPost, "/api/absences", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"startPeriod":"MORNING"`)
	assert.Len(t, repo.absences, 1)
}

func TestHandlerCreateValidation(t *testing.T) {
	router := newTestRouter(newMockRepository())

	body := `{"userId":"u-1","startDate":"2025-01-13","endDate":"2025-01-17","type":"HOLIDAY"}`
	req := httptest.NewRequest(http.MethodPost, "/api/absences", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Type"`)
}

func TestHandlerCreateContradictoryPeriods(t *testing.T) {
	router := newTestRouter(newMockRepository())

	body := `{"userId":"u-1","startDate":"2025-01-13","endDate":"2025-01-13","type":"ABSENCE","startPeriod":"AFTERNOON","endPeriod":"MORNING"}`
	req := httptest.NewRequest(http.MethodPost, "/api/absences", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandlerList(t *testing.T) {
	repo := newMockRepository()
	repo.absences["a-1"] = Absence{
		ID: "a-1", UserID: "u-1",
		StartDate: "2025-01-13", EndDate: "2025-01-14",
		Type: TypeTeletravail, StartPeriod: PeriodMorning, EndPeriod: PeriodAfternoon,
	}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/absences?from=2025-01-01&to=2025-01-31", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"segments"`)
	assert.Contains(t, rec.Body.String(), `"TELETRAVAIL"`)
}

func TestHandlerListBadWindow(t *testing.T) {
	router := newTestRouter(newMockRepository())

	req := httptest.NewRequest(http.MethodGet, "/api/absences?from=x&to=y", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandlerDeleteMissing(t *testing.T) {
	router := newTestRouter(newMockRepository())

	req := httptest.NewRequest(http.MethodDelete, "/api/absences/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
