package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/squadboard/squadboard/internal/absence"
	"github.com/squadboard/squadboard/internal/auth"
	"github.com/squadboard/squadboard/internal/closedday"
	"github.com/squadboard/squadboard/internal/event"
	"github.com/squadboard/squadboard/internal/observability"
	"github.com/squadboard/squadboard/internal/release"
	"github.com/squadboard/squadboard/internal/shared"
	"github.com/squadboard/squadboard/internal/sprint"
	timelinehttp "github.com/squadboard/squadboard/internal/timeline/http"
	"github.com/squadboard/squadboard/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager

	AuthHandler      *auth.Handler
	TimelineHandler  *timelinehttp.Handler
	AbsenceHandler   *absence.Handler
	SprintHandler    *sprint.Handler
	ClosedDayHandler *closedday.Handler
	EventHandler     *event.Handler
	ReleaseHandler   *release.Handler
	JobHandler       *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults. All
// API routes except login sit behind the auth guard.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth)
			params.TimelineHandler.MountRoutes(r)
			params.AbsenceHandler.MountRoutes(r)
			params.SprintHandler.MountRoutes(r)
			params.ClosedDayHandler.MountRoutes(r)
			params.EventHandler.MountRoutes(r)
			params.ReleaseHandler.MountRoutes(r)
			if params.JobHandler != nil {
				r.Route("/jobs", params.JobHandler.MountRoutes)
			}
		})
	})

	return r
}
