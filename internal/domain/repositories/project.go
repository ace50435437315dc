package repositories

import (
	"context"

	"allmanager/internal/domain/models"
)

// ProjectRepository defines data access operations for projects
type ProjectRepository interface {
	// Create inserts a project and fills in its generated ID and timestamps
	Create(ctx context.Context, project *models.Project) error

	// GetByID retrieves a project by ID
	GetByID(ctx context.Context, id int64) (*models.Project, error)

	// List retrieves all projects, newest first
	List(ctx context.Context) ([]models.Project, error)

	// Update applies the patch and returns the updated row
	Update(ctx context.Context, id int64, patch *models.ProjectPatch) (*models.Project, error)

	// Delete deletes a project; its tasks cascade
	Delete(ctx context.Context, id int64) error
}
