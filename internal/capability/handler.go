package capability

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/crewdesk/crewdesk/internal/platform/httpx"
	"github.com/crewdesk/crewdesk/internal/shared"
)

// Handler exposes the permissions admin API.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	mw       Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw Middleware) *Handler {
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

// MountRoutes registers permission routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.mw.Require(ManagePermissions))
		r.Get("/", h.listRegistry)
		r.Get("/employees/{employeeID}", h.getGrant)
		r.Put("/employees/{employeeID}", h.putGrant)
		r.Delete("/employees/{employeeID}", h.deleteGrant)
	})
}

func (h *Handler) listRegistry(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{"categories": Categories()})
}

func (h *Handler) getGrant(w http.ResponseWriter, r *http.Request) {
	employeeID, err := employeeIDParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "employee id must be numeric")
		return
	}
	grant, err := h.service.EffectiveGrant(r.Context(), employeeID)
	if err != nil {
		h.logger.Error("load grant", slog.Int64("employee_id", employeeID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, grant)
}

type grantRequest struct {
	Capabilities []string `json:"capabilities" validate:"required,dive,required"`
}

func (h *Handler) putGrant(w http.ResponseWriter, r *http.Request) {
	employeeID, err := employeeIDParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "employee id must be numeric")
		return
	}

	var req grantRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	grantor, ok := h.mw.CurrentSubject(r)
	if !ok {
		httpx.RespondError(w, shared.ErrForbidden)
		return
	}

	requested := make([]Capability, len(req.Capabilities))
	for i, c := range req.Capabilities {
		requested[i] = Capability(c)
	}

	grant, err := h.service.Grant(r.Context(), grantor, employeeID, requested)
	if err != nil {
		var invalid *InvalidCapabilityError
		if errors.As(err, &invalid) {
			httpx.JSON(w, http.StatusBadRequest, httpx.ProblemDetail{
				Title:  "Invalid Capability",
				Status: http.StatusBadRequest,
				Detail: invalid.Error(),
				Names:  invalid.Names,
			})
			return
		}
		if !errors.Is(err, shared.ErrForbidden) {
			h.logger.Error("grant capabilities", slog.Int64("employee_id", employeeID), slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, grant)
}

func (h *Handler) deleteGrant(w http.ResponseWriter, r *http.Request) {
	employeeID, err := employeeIDParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "employee id must be numeric")
		return
	}

	grantor, ok := h.mw.CurrentSubject(r)
	if !ok {
		httpx.RespondError(w, shared.ErrForbidden)
		return
	}

	if err := h.service.RevokeAll(r.Context(), grantor, employeeID); err != nil {
		if !errors.Is(err, shared.ErrForbidden) {
			h.logger.Error("revoke capabilities", slog.Int64("employee_id", employeeID), slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func employeeIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "employeeID"), 10, 64)
}
