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

var errTaskRequired = &domain.ValidationError{Message: "project_id and title are required"}

// taskService implements the TaskService interface
type taskService struct {
	taskRepo    repositories.TaskRepository
	projectRepo repositories.ProjectRepository
	logger      *slog.Logger
}

// NewTaskService creates a new task service
func NewTaskService(
	taskRepo repositories.TaskRepository,
	projectRepo repositories.ProjectRepository,
	logger *slog.Logger,
) services.TaskService {
	return &taskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		logger:      logger,
	}
}

// CreateTask creates a task. The repository rejects unknown project and
// assignee references.
func (s *taskService) CreateTask(ctx context.Context, req *services.CreateTaskRequest) (*models.Task, error) {
	if req.ProjectID <= 0 {
		return nil, errTaskRequired
	}
	title, err := fields.Text(req.Title, config.MaxTitleLength, errTaskRequired.Message)
	if err != nil {
		return nil, err
	}

	task := &models.Task{ProjectID: req.ProjectID, Title: title}

	if task.Description, err = fields.OptionalText(req.Description, config.MaxDescriptionLength, "Invalid description"); err != nil {
		return nil, err
	}
	if task.Status, err = fields.Enum(req.Status, models.TaskTodo, models.TaskStatuses, "Invalid status"); err != nil {
		return nil, err
	}
	if task.Priority, err = fields.Enum(req.Priority, models.PriorityMedium, models.TaskPriorities, "Invalid priority"); err != nil {
		return nil, err
	}
	if task.AssignedTo, err = fields.OptionalID(req.AssignedTo, "Invalid assigned_to"); err != nil {
		return nil, err
	}
	if task.DueDate, err = fields.OptionalDate(req.DueDate); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("task created",
		"id", task.ID,
		"project_id", task.ProjectID,
		"assigned_to", task.AssignedTo,
	)

	return task, nil
}

func (s *taskService) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	return s.taskRepo.GetByID(ctx, id)
}

func (s *taskService) ListTasks(ctx context.Context) ([]models.Task, error) {
	return s.taskRepo.List(ctx)
}

// ListProjectTasks lists the tasks of an existing project, newest first
func (s *taskService) ListProjectTasks(ctx context.Context, projectID int64) ([]models.Task, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.taskRepo.ListByProject(ctx, projectID)
}

// UpdateTask applies the fields present in req
func (s *taskService) UpdateTask(ctx context.Context, id int64, req *services.UpdateTaskRequest) (*models.Task, error) {
	patch := &models.TaskPatch{}
	var err error

	if patch.Title, err = fields.PatchRequiredText(req.Title, config.MaxTitleLength, "Invalid title"); err != nil {
		return nil, err
	}
	if patch.SetDescription, patch.Description, err = fields.PatchText(req.Description, config.MaxDescriptionLength, "Invalid description"); err != nil {
		return nil, err
	}
	if patch.Status, err = fields.PatchEnum(req.Status, models.TaskStatuses, "Invalid status"); err != nil {
		return nil, err
	}
	if patch.Priority, err = fields.PatchEnum(req.Priority, models.TaskPriorities, "Invalid priority"); err != nil {
		return nil, err
	}
	if patch.SetAssignedTo, patch.AssignedTo, err = fields.PatchID(req.AssignedTo, "Invalid assigned_to"); err != nil {
		return nil, err
	}
	if patch.SetDueDate, patch.DueDate, err = fields.PatchDate(req.DueDate); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, errNoChanges
	}

	task, err := s.taskRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("task updated",
		"id", task.ID,
		"status", task.Status,
		"assigned_to", task.AssignedTo,
	)

	return task, nil
}

func (s *taskService) DeleteTask(ctx context.Context, id int64) error {
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("task deleted", "id", id)
	return nil
}
