package checklist

import (
	"context"
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

// SkillDirectory supplies the identity and skill tags resolution needs for
// the logged-in user.
type SkillDirectory interface {
	ChecklistEmployee(ctx context.Context, userID int64) (Employee, error)
}

// Handler exposes checklist resolution and definition management.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	directory SkillDirectory
	validate  *validator.Validate
	mw        capability.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, directory SkillDirectory, mw capability.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		directory: directory,
		validate:  validator.New(),
		mw:        mw,
	}
}

// MountEmployeeRoutes registers the employee-facing checklist view.
func (h *Handler) MountEmployeeRoutes(r chi.Router) {
	r.Get("/", h.resolveOwn)
}

// MountAdminRoutes registers definition management routes.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.mw.Require(capability.ManageChecklists))
		r.Get("/", h.listDefinitions)
		r.Post("/", h.createDefinition)
		r.Get("/{definitionID}", h.getDefinition)
		r.Put("/{definitionID}", h.updateDefinition)
		r.Delete("/{definitionID}", h.deleteDefinition)
	})
}

func (h *Handler) resolveOwn(w http.ResponseWriter, r *http.Request) {
	sub, ok := h.mw.CurrentSubject(r)
	if !ok {
		httpx.RespondError(w, shared.ErrForbidden)
		return
	}
	emp, err := h.directory.ChecklistEmployee(r.Context(), sub.ID)
	if err != nil {
		h.logger.Error("load employee profile", slog.Int64("user_id", sub.ID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	resolution, err := h.service.Resolve(r.Context(), emp)
	if err != nil {
		h.logger.Error("resolve checklist", slog.Int64("employee_id", emp.ID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, resolution)
}

type definitionRequest struct {
	Type        string   `json:"type" validate:"required,oneof=custom skill global"`
	Name        string   `json:"name" validate:"max=120"`
	Skills      []string `json:"skills"`
	EmployeeIDs []int64  `json:"employee_ids"`
	Items       []Item   `json:"items" validate:"required,dive"`
}

func (h *Handler) listDefinitions(w http.ResponseWriter, r *http.Request) {
	tier := SourceType(r.URL.Query().Get("type"))
	defs, err := h.service.List(r.Context(), tier)
	if err != nil {
		h.logger.Error("list checklist definitions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"definitions": defs})
}

func (h *Handler) createDefinition(w http.ResponseWriter, r *http.Request) {
	def, ok := h.decodeDefinition(w, r)
	if !ok {
		return
	}
	created, err := h.service.Create(r.Context(), def)
	if err != nil {
		h.respondWriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) getDefinition(w http.ResponseWriter, r *http.Request) {
	id, err := definitionIDParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "definition id must be numeric")
		return
	}
	def, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, def)
}

func (h *Handler) updateDefinition(w http.ResponseWriter, r *http.Request) {
	id, err := definitionIDParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "definition id must be numeric")
		return
	}
	def, ok := h.decodeDefinition(w, r)
	if !ok {
		return
	}
	def.ID = id
	updated, err := h.service.Update(r.Context(), def)
	if err != nil {
		h.respondWriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteDefinition(w http.ResponseWriter, r *http.Request) {
	id, err := definitionIDParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "definition id must be numeric")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeDefinition(w http.ResponseWriter, r *http.Request) (Definition, bool) {
	var req definitionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return Definition{}, false
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return Definition{}, false
	}
	return Definition{
		Type:        SourceType(req.Type),
		Name:        req.Name,
		Skills:      req.Skills,
		EmployeeIDs: req.EmployeeIDs,
		Items:       req.Items,
	}, true
}

func (h *Handler) respondWriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidDefinition):
		httpx.Problem(w, http.StatusBadRequest, "Invalid Definition", err.Error())
	case errors.Is(err, ErrGlobalExists):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	default:
		h.logger.Error("write checklist definition", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

func definitionIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "definitionID"), 10, 64)
}
