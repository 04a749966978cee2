package timelinehttp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadboard/squadboard/internal/timeline"
)

type staticSprints []timeline.Sprint

func (s staticSprints) Overlay(context.Context) ([]timeline.Sprint, error) { return s, nil }

type staticClosedDays map[string]struct{}

func (s staticClosedDays) ClosedSet(context.Context) (map[string]struct{}, error) { return s, nil }

func newTestHandler(t *testing.T) (*Handler, *Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCache(client, time.Hour)

	sprints := staticSprints{
		{ID: "s1", Name: "2025.01", StartDate: "2025-01-06", EndDate: "2025-01-17", CodeFreezeDate: "2025-01-15"},
	}
	closed := staticClosedDays{"2025-01-24": {}}

	h := NewHandler(slog.New(slog.DiscardHandler), sprints, closed, cache, 40)
	h.now = func() time.Time { return time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC) }
	return h, cache
}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Route("/api", h.MountRoutes)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestSnapshotEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := serve(h, "/api/timeline?from=2025-01-06&to=2025-01-31")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap timeline.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Len(t, snap.Days, 26)
	assert.Equal(t, 26*40, snap.PixelWidth)

	byISO := map[string]timeline.DayMetadata{}
	for _, d := range snap.Days {
		byISO[d.ISO] = d
	}
	assert.True(t, byISO["2025-01-13"].IsToday)
	assert.True(t, byISO["2025-01-15"].IsCodeFreeze)
	assert.True(t, byISO["2025-01-24"].IsHoliday)
}

func TestSnapshotBadWindow(t *testing.T) {
	h, _ := newTestHandler(t)

	assert.Equal(t, http.StatusUnprocessableEntity, serve(h, "/api/timeline?from=x&to=y").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, serve(h, "/api/timeline?from=2025-02-01&to=2025-01-01").Code)
}

func TestSnapshotServedFromCache(t *testing.T) {
	h, cache := newTestHandler(t)
	ctx := context.Background()

	rec := serve(h, "/api/timeline?from=2025-01-06&to=2025-01-10")
	require.Equal(t, http.StatusOK, rec.Code)

	cached, err := cache.Get(ctx, "2025-01-06", "2025-01-10")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Len(t, cached.Days, 5)

	// a version bump orphans the cached window
	require.NoError(t, cache.Bump(ctx))
	gone, err := cache.Get(ctx, "2025-01-06", "2025-01-10")
	require.NoError(t, err)
	assert.Nil(t, gone)
}
