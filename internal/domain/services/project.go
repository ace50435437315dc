package services

import (
	"context"

	"allmanager/internal/domain/models"
)

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	Name        string
	Description *string
	Status      *models.ProjectStatus
	CreatedBy   int64
}

// UpdateProjectRequest represents a partial project update
type UpdateProjectRequest struct {
	Name        models.Optional[string]
	Description models.Optional[string]
	Status      models.Optional[models.ProjectStatus]
}

// ProjectService defines business logic operations for projects
type ProjectService interface {
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*models.Project, error)
	GetProject(ctx context.Context, id int64) (*models.Project, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	UpdateProject(ctx context.Context, id int64, req *UpdateProjectRequest) (*models.Project, error)

	// DeleteProject deletes a project together with its tasks
	DeleteProject(ctx context.Context, id int64) error
}
