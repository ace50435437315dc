package handler

import (
	"log/slog"
	"net/http"

	"allmanager/internal/domain/models"
	"allmanager/internal/domain/services"
	"allmanager/internal/httputil"
)

// TaskHandler handles task HTTP requests
type TaskHandler struct {
	taskService services.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService services.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

type createTaskBody struct {
	ProjectID   int64                `json:"project_id"`
	Title       string               `json:"title"`
	Description *string              `json:"description"`
	Status      *models.TaskStatus   `json:"status"`
	Priority    *models.TaskPriority `json:"priority"`
	AssignedTo  *int64               `json:"assigned_to"`
	DueDate     *string              `json:"due_date"`
}

type updateTaskBody struct {
	Title       httputil.OptionalString                `json:"title"`
	Description httputil.OptionalString                `json:"description"`
	Status      httputil.Optional[models.TaskStatus]   `json:"status"`
	Priority    httputil.Optional[models.TaskPriority] `json:"priority"`
	AssignedTo  httputil.OptionalInt64                 `json:"assigned_to"`
	DueDate     httputil.OptionalString                `json:"due_date"`
}

// ListTasks retrieves all tasks
// GET /api/tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListTasks(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, tasks)
}

// CreateTask creates a task in an existing project
// POST /api/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var body createTaskBody
	if !readJSON(w, r, h.logger, &body) {
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), &services.CreateTaskRequest{
		ProjectID:   body.ProjectID,
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		Priority:    body.Priority,
		AssignedTo:  body.AssignedTo,
		DueDate:     body.DueDate,
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, task)
}

// GetTask retrieves a task by ID
// GET /api/tasks/{id}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, h.logger)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, task)
}

// UpdateTask updates a task
// PUT|PATCH /api/tasks/{id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, h.logger)
	if !ok {
		return
	}

	var body updateTaskBody
	if !readJSON(w, r, h.logger, &body) {
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), id, &services.UpdateTaskRequest{
		Title:       body.Title.Domain(),
		Description: body.Description.Domain(),
		Status:      body.Status.Domain(),
		Priority:    body.Priority.Domain(),
		AssignedTo:  body.AssignedTo.Domain(),
		DueDate:     body.DueDate.Domain(),
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, task)
}

// DeleteTask deletes a task
// DELETE /api/tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), id); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondNoContent(w)
}
