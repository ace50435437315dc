package repositories

import (
	"context"

	"allmanager/internal/domain/models"
)

type RequirementRepository interface {
	Create(ctx context.Context, req *models.Requirement) error
	GetByID(ctx context.Context, id int64) (*models.Requirement, error)
	List(ctx context.Context) ([]models.Requirement, error)
	Update(ctx context.Context, id int64, patch *models.RequirementPatch) (*models.Requirement, error)
	Delete(ctx context.Context, id int64) error
}
