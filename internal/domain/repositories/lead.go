package repositories

import (
	"context"

	"allmanager/internal/domain/models"
)

// LeadRepository defines data access operations for sales leads
type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	GetByID(ctx context.Context, id int64) (*models.Lead, error)
	List(ctx context.Context) ([]models.Lead, error)
	Update(ctx context.Context, id int64, patch *models.LeadPatch) (*models.Lead, error)
	Delete(ctx context.Context, id int64) error
}
