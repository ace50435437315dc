package services

import (
	"context"

	"allmanager/internal/domain/models"
)

type CreateLeadRequest struct {
	Name   string
	Email  *string
	Phone  *string
	Status *models.LeadStatus
	Notes  *string
}

// UpdateLeadRequest represents a partial lead update. Null or empty
// email, phone and notes clear the column.
type UpdateLeadRequest struct {
	Name   models.Optional[string]
	Email  models.Optional[string]
	Phone  models.Optional[string]
	Status models.Optional[models.LeadStatus]
	Notes  models.Optional[string]
}

type LeadService interface {
	CreateLead(ctx context.Context, req *CreateLeadRequest) (*models.Lead, error)
	GetLead(ctx context.Context, id int64) (*models.Lead, error)
	ListLeads(ctx context.Context) ([]models.Lead, error)
	UpdateLead(ctx context.Context, id int64, req *UpdateLeadRequest) (*models.Lead, error)
	DeleteLead(ctx context.Context, id int64) error
}
