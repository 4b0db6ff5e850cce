package submissions

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/crewdesk/crewdesk/internal/capability"
	"github.com/crewdesk/crewdesk/internal/platform/httpx"
	"github.com/crewdesk/crewdesk/internal/shared"
)

// Handler exposes submission intake and review endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	mw       capability.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw capability.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
		mw:       mw,
	}
}

// MountEmployeeRoutes registers the employee-facing submission routes.
func (h *Handler) MountEmployeeRoutes(r chi.Router) {
	r.Post("/", h.submit)
	r.Get("/", h.history)
}

// MountAdminRoutes registers review routes.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.mw.Require(capability.ReviewDailyUpdates))
		r.Get("/pending", h.pending)
		r.Post("/{submissionID}/approve", h.approve)
	})
}

type submitRequest struct {
	Checks map[string]bool `json:"checks" validate:"required"`
	Notes  string          `json:"notes" validate:"max=2000"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	sub, ok := h.mw.CurrentSubject(r)
	if !ok {
		httpx.RespondError(w, shared.ErrForbidden)
		return
	}
	var req submitRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	created, err := h.service.Submit(r.Context(), sub.ID, req.Checks, req.Notes)
	if err != nil {
		if errors.Is(err, ErrAlreadySubmitted) {
			httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
			return
		}
		h.logger.Error("create submission", slog.Int64("employee_id", sub.ID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	sub, ok := h.mw.CurrentSubject(r)
	if !ok {
		httpx.RespondError(w, shared.ErrForbidden)
		return
	}
	items, err := h.service.History(r.Context(), sub.ID)
	if err != nil {
		h.logger.Error("list submissions", slog.Int64("employee_id", sub.ID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"submissions": items})
}

func (h *Handler) pending(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Pending(r.Context())
	if err != nil {
		h.logger.Error("list pending submissions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"submissions": items})
}

type approveRequest struct {
	AdminScore *float64 `json:"admin_score"`
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	reviewer, ok := h.mw.CurrentSubject(r)
	if !ok {
		httpx.RespondError(w, shared.ErrForbidden)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "submissionID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "submission id must be numeric")
		return
	}
	var req approveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	approved, err := h.service.Approve(r.Context(), id, reviewer.ID, req.AdminScore)
	if err != nil {
		if errors.Is(err, ErrInvalidScore) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		h.logger.Error("approve submission", slog.Int64("submission_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, approved)
}
