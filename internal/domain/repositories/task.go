package repositories

import (
	"context"

	"allmanager/internal/domain/models"
)

// TaskRepository defines data access operations for tasks.
// Unknown project or assignee references return a validation error.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	List(ctx context.Context) ([]models.Task, error)
	ListByProject(ctx context.Context, projectID int64) ([]models.Task, error)
	Update(ctx context.Context, id int64, patch *models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, id int64) error
}
