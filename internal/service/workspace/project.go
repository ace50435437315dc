package workspace

import (
	"context"
	"log/slog"

	"allmanager/internal/config"
	"allmanager/internal/domain"
	"allmanager/internal/domain/models"
	"allmanager/internal/domain/repositories"
	"allmanager/internal/domain/services"
	"allmanager/internal/service/fields"
)

var errNoChanges = &domain.ValidationError{Message: "No changes provided"}

// projectService implements the ProjectService interface
type projectService struct {
	projectRepo repositories.ProjectRepository
	logger      *slog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo repositories.ProjectRepository,
	logger *slog.Logger,
) services.ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		logger:      logger,
	}
}

// CreateProject creates a new project owned by the acting user
func (s *projectService) CreateProject(ctx context.Context, req *services.CreateProjectRequest) (*models.Project, error) {
	name, err := fields.Text(req.Name, config.MaxProjectNameLength, "name is required")
	if err != nil {
		return nil, err
	}
	description, err := fields.OptionalText(req.Description, config.MaxDescriptionLength, "Invalid description")
	if err != nil {
		return nil, err
	}
	status, err := fields.Enum(req.Status, models.ProjectActive, models.ProjectStatuses, "Invalid status")
	if err != nil {
		return nil, err
	}

	createdBy := req.CreatedBy
	project := &models.Project{
		Name:        name,
		Description: description,
		Status:      status,
		CreatedBy:   &createdBy,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"id", project.ID,
		"name", project.Name,
		"user_id", req.CreatedBy,
	)

	return project, nil
}

// GetProject retrieves a project by ID
func (s *projectService) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	return s.projectRepo.GetByID(ctx, id)
}

// ListProjects retrieves all projects, newest first
func (s *projectService) ListProjects(ctx context.Context) ([]models.Project, error) {
	return s.projectRepo.List(ctx)
}

// UpdateProject applies the fields present in req
func (s *projectService) UpdateProject(ctx context.Context, id int64, req *services.UpdateProjectRequest) (*models.Project, error) {
	patch := &models.ProjectPatch{}
	var err error

	if patch.Name, err = fields.PatchRequiredText(req.Name, config.MaxProjectNameLength, "Invalid name"); err != nil {
		return nil, err
	}
	if patch.SetDescription, patch.Description, err = fields.PatchText(req.Description, config.MaxDescriptionLength, "Invalid description"); err != nil {
		return nil, err
	}
	if patch.Status, err = fields.PatchEnum(req.Status, models.ProjectStatuses, "Invalid status"); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, errNoChanges
	}

	project, err := s.projectRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("project updated",
		"id", project.ID,
		"status", project.Status,
	)

	return project, nil
}

// DeleteProject deletes a project; its tasks go with it
func (s *projectService) DeleteProject(ctx context.Context, id int64) error {
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("project deleted", "id", id)
	return nil
}
