package handler

import (
	"log/slog"
	"net/http"

	"allmanager/internal/domain/models"
	"allmanager/internal/domain/services"
	"allmanager/internal/httputil"
)

// ProjectHandler handles project HTTP requests
type ProjectHandler struct {
	projectService services.ProjectService
	taskService    services.TaskService
	logger         *slog.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService services.ProjectService, taskService services.TaskService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		taskService:    taskService,
		logger:         logger,
	}
}

type createProjectBody struct {
	Name        string                `json:"name"`
	Description *string               `json:"description"`
	Status      *models.ProjectStatus `json:"status"`
}

type updateProjectBody struct {
	Name        httputil.OptionalString                 `json:"name"`
	Description httputil.OptionalString                 `json:"description"`
	Status      httputil.Optional[models.ProjectStatus] `json:"status"`
}

// ListProjects retrieves all projects
// GET /api/projects
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.ListProjects(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, projects)
}

// CreateProject creates a new project
// POST /api/projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var body createProjectBody
	if !readJSON(w, r, h.logger, &body) {
		return
	}

	project, err := h.projectService.CreateProject(r.Context(), &services.CreateProjectRequest{
		Name:        body.Name,
		Description: body.Description,
		Status:      body.Status,
		CreatedBy:   principal(r).UserID,
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, project)
}

// GetProject retrieves a project by ID
// GET /api/projects/{id}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, h.logger)
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, project)
}

// UpdateProject updates a project
// PUT|PATCH /api/projects/{id}
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, h.logger)
	if !ok {
		return
	}

	var body updateProjectBody
	if !readJSON(w, r, h.logger, &body) {
		return
	}

	project, err := h.projectService.UpdateProject(r.Context(), id, &services.UpdateProjectRequest{
		Name:        body.Name.Domain(),
		Description: body.Description.Domain(),
		Status:      body.Status.Domain(),
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, project)
}

// DeleteProject deletes a project and its tasks
// DELETE /api/projects/{id}
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(r.Context(), id); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondNoContent(w)
}

// ListProjectTasks lists the tasks of a project
// GET /api/projects/{id}/tasks
func (h *ProjectHandler) ListProjectTasks(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, h.logger)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListProjectTasks(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, tasks)
}
