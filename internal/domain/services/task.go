package services

import (
	"context"

	"allmanager/internal/domain/models"
)

// CreateTaskRequest represents a request to create a task
type CreateTaskRequest struct {
	ProjectID   int64
	Title       string
	Description *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	AssignedTo  *int64
	DueDate     *string
}

// UpdateTaskRequest represents a partial task update
type UpdateTaskRequest struct {
	Title       models.Optional[string]
	Description models.Optional[string]
	Status      models.Optional[models.TaskStatus]
	Priority    models.Optional[models.TaskPriority]
	AssignedTo  models.Optional[int64]
	DueDate     models.Optional[string]
}

// TaskService defines business logic operations for tasks
type TaskService interface {
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*models.Task, error)
	GetTask(ctx context.Context, id int64) (*models.Task, error)
	ListTasks(ctx context.Context) ([]models.Task, error)

	// ListProjectTasks returns ErrNotFound if the project does not exist
	ListProjectTasks(ctx context.Context, projectID int64) ([]models.Task, error)

	UpdateTask(ctx context.Context, id int64, req *UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}
