package directory

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crewdesk/crewdesk/internal/capability"
	"github.com/crewdesk/crewdesk/internal/platform/httpx"
)

// Handler exposes the employee directory to admin screens.
type Handler struct {
	logger *slog.Logger
	repo   *Repository
	mw     capability.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, repo *Repository, mw capability.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, repo: repo, mw: mw}
}

// MountRoutes registers directory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.mw.Require(capability.ManageEmployees))
		r.Get("/", h.listEmployees)
	})
}

func (h *Handler) listEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.repo.ListEmployees(r.Context())
	if err != nil {
		h.logger.Error("list employees", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"employees": employees})
}
