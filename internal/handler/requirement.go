package handler

import (
	"log/slog"
	"net/http"

	"allmanager/internal/domain/models"
	"allmanager/internal/domain/services"
	"allmanager/internal/httputil"
)

// RequirementHandler handles requirement requests (admin only)
type RequirementHandler struct {
	requirementService services.RequirementService
	logger             *slog.Logger
}

func NewRequirementHandler(requirementService services.RequirementService, logger *slog.Logger) *RequirementHandler {
	return &RequirementHandler{requirementService: requirementService, logger: logger}
}

type createRequirementBody struct {
	Title       string                    `json:"title"`
	Description *string                   `json:"description"`
	Status      *models.RequirementStatus `json:"status"`
}

type updateRequirementBody struct {
	Title       httputil.OptionalString                     `json:"title"`
	Description httputil.OptionalString                     `json:"description"`
	Status      httputil.Optional[models.RequirementStatus] `json:"status"`
}

func (h *RequirementHandler) ListRequirements(w http.ResponseWriter, r *http.Request) {
	requirements, err := h.requirementService.ListRequirements(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, requirements)
}

func (h *RequirementHandler) CreateRequirement(w http.ResponseWriter, r *http.Request) {
	var body createRequirementBody
	if !readJSON(w, r, h.logger, &body) {
		return
	}

	requirement, err := h.requirementService.CreateRequirement(r.Context(), &services.CreateRequirementRequest{
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		CreatedBy:   principal(r).UserID,
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, requirement)
}

func (h *RequirementHandler) GetRequirement(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, h.logger)
	if !ok {
		return
	}

	requirement, err := h.requirementService.GetRequirement(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, requirement)
}

func (h *RequirementHandler) UpdateRequirement(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, h.logger)
	if !ok {
		return
	}

	var body updateRequirementBody
	if !readJSON(w, r, h.logger, &body) {
		return
	}

	requirement, err := h.requirementService.UpdateRequirement(r.Context(), id, &services.UpdateRequirementRequest{
		Title:       body.Title.Domain(),
		Description: body.Description.Domain(),
		Status:      body.Status.Domain(),
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, requirement)
}

func (h *RequirementHandler) DeleteRequirement(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.requirementService.DeleteRequirement(r.Context(), id); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondNoContent(w)
}
