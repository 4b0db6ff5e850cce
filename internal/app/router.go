package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/crewdesk/crewdesk/internal/auth"
	"github.com/crewdesk/crewdesk/internal/capability"
	"github.com/crewdesk/crewdesk/internal/checklist"
	"github.com/crewdesk/crewdesk/internal/directory"
	"github.com/crewdesk/crewdesk/internal/observability"
	"github.com/crewdesk/crewdesk/internal/scoring"
	"github.com/crewdesk/crewdesk/internal/shared"
	"github.com/crewdesk/crewdesk/internal/submissions"
	"github.com/crewdesk/crewdesk/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	AuthHandler        *auth.Handler
	PermissionsHandler *capability.Handler
	ChecklistHandler   *checklist.Handler
	SubmissionsHandler *submissions.Handler
	LeaderboardHandler *scoring.Handler
	DirectoryHandler   *directory.Handler
	JobHandler         *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with Crewdesk defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
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

	r.Route("/auth", params.AuthHandler.MountRoutes)
	if params.PermissionsHandler != nil {
		r.Route("/permissions", params.PermissionsHandler.MountRoutes)
	}
	if params.ChecklistHandler != nil {
		r.Route("/checklist", params.ChecklistHandler.MountEmployeeRoutes)
		r.Route("/checklists", params.ChecklistHandler.MountAdminRoutes)
	}
	if params.SubmissionsHandler != nil {
		r.Route("/submissions", func(r chi.Router) {
			params.SubmissionsHandler.MountEmployeeRoutes(r)
			params.SubmissionsHandler.MountAdminRoutes(r)
		})
	}
	if params.LeaderboardHandler != nil {
		r.Route("/leaderboard", params.LeaderboardHandler.MountRoutes)
	}
	if params.DirectoryHandler != nil {
		r.Route("/employees", params.DirectoryHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
