package handler

import (
	"log/slog"
	"net/http"

	"allmanager/internal/domain/models"
	"allmanager/internal/domain/services"
	"allmanager/internal/httputil"
)

// LeadHandler handles sales lead requests
type LeadHandler struct {
	leadService services.LeadService
	logger      *slog.Logger
}

func NewLeadHandler(leadService services.LeadService, logger *slog.Logger) *LeadHandler {
	return &LeadHandler{leadService: leadService, logger: logger}
}

type createLeadBody struct {
	Name   string             `json:"name"`
	Email  *string            `json:"email"`
	Phone  *string            `json:"phone"`
	Status *models.LeadStatus `json:"status"`
	Notes  *string            `json:"notes"`
}

type updateLeadBody struct {
	Name   httputil.OptionalString              `json:"name"`
	Email  httputil.OptionalString              `json:"email"`
	Phone  httputil.OptionalString              `json:"phone"`
	Status httputil.Optional[models.LeadStatus] `json:"status"`
	Notes  httputil.OptionalString              `json:"notes"`
}

func (h *LeadHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.leadService.ListLeads(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var body createLeadBody
	if !readJSON(w, r, h.logger, &body) {
		return
	}

	lead, err := h.leadService.CreateLead(r.Context(), &services.CreateLeadRequest{
		Name:   body.Name,
		Email:  body.Email,
		Phone:  body.Phone,
		Status: body.Status,
		Notes:  body.Notes,
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) GetLead(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, h.logger)
	if !ok {
		return
	}

	lead, err := h.leadService.GetLead(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, h.logger)
	if !ok {
		return
	}

	var body updateLeadBody
	if !readJSON(w, r, h.logger, &body) {
		return
	}

	lead, err := h.leadService.UpdateLead(r.Context(), id, &services.UpdateLeadRequest{
		Name:   body.Name.Domain(),
		Email:  body.Email.Domain(),
		Phone:  body.Phone.Domain(),
		Status: body.Status.Domain(),
		Notes:  body.Notes.Domain(),
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.leadService.DeleteLead(r.Context(), id); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondNoContent(w)
}
