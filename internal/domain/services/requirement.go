package services

import (
	"context"

	"allmanager/internal/domain/models"
)

type CreateRequirementRequest struct {
	Title       string
	Description *string
	Status      *models.RequirementStatus
	CreatedBy   int64
}

type UpdateRequirementRequest struct {
	Title       models.Optional[string]
	Description models.Optional[string]
	Status      models.Optional[models.RequirementStatus]
}

type RequirementService interface {
	CreateRequirement(ctx context.Context, req *CreateRequirementRequest) (*models.Requirement, error)
	GetRequirement(ctx context.Context, id int64) (*models.Requirement, error)
	ListRequirements(ctx context.Context) ([]models.Requirement, error)
	UpdateRequirement(ctx context.Context, id int64, req *UpdateRequirementRequest) (*models.Requirement, error)
	DeleteRequirement(ctx context.Context, id int64) error
}
