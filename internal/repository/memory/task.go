package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"allmanager/internal/domain"
	"allmanager/internal/domain/models"
	"allmanager/internal/domain/repositories"
)

// TaskRepository implements repositories.TaskRepository
type TaskRepository struct {
	store *Store
}

func NewTaskRepository(store *Store) repositories.TaskRepository {
	return &TaskRepository{store: store}
}

func cloneTask(t *models.Task) *models.Task {
	c := *t
	c.Description = clonePtr(t.Description)
	c.AssignedTo = clonePtr(t.AssignedTo)
	c.DueDate = clonePtr(t.DueDate)
	return &c
}

// checkRefs mirrors the FK constraints. Caller holds mu.
func (r *TaskRepository) checkRefs(projectID int64, assignedTo *int64, dueDate *string) error {
	if _, ok := r.store.projects[projectID]; !ok {
		return domain.NewValidationError("Project not found")
	}
	if assignedTo != nil {
		if _, ok := r.store.users[*assignedTo]; !ok {
			return domain.NewValidationError("Assignee not found")
		}
	}
	if dueDate != nil {
		if _, err := time.Parse(models.DateLayout, *dueDate); err != nil {
			return fmt.Errorf("due date %q: %w", *dueDate, domain.ErrValidation)
		}
	}
	return nil
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := r.checkRefs(task.ProjectID, task.AssignedTo, task.DueDate); err != nil {
		return err
	}

	now := s.now()
	task.ID = s.id("tasks")
	task.CreatedAt, task.UpdatedAt = now, now
	s.tasks[task.ID] = cloneTask(task)
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %d: %w", id, domain.ErrNotFound)
	}
	return cloneTask(t), nil
}

func (r *TaskRepository) List(ctx context.Context) ([]models.Task, error) {
	return r.filter(func(*models.Task) bool { return true }), nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID int64) ([]models.Task, error) {
	return r.filter(func(t *models.Task) bool { return t.ProjectID == projectID }), nil
}

func (r *TaskRepository) filter(keep func(*models.Task) bool) []models.Task {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := []models.Task{}
	for _, t := range s.tasks {
		if keep(t) {
			tasks = append(tasks, *cloneTask(t))
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID > tasks[j].ID })
	return tasks
}

func (r *TaskRepository) Update(ctx context.Context, id int64, patch *models.TaskPatch) (*models.Task, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %d: %w", id, domain.ErrNotFound)
	}

	assignedTo, dueDate := t.AssignedTo, t.DueDate
	if patch.SetAssignedTo {
		assignedTo = patch.AssignedTo
	}
	if patch.SetDueDate {
		dueDate = patch.DueDate
	}
	if err := r.checkRefs(t.ProjectID, assignedTo, dueDate); err != nil {
		return nil, err
	}

	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.SetDescription {
		t.Description = clonePtr(patch.Description)
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	t.AssignedTo = clonePtr(assignedTo)
	t.DueDate = clonePtr(dueDate)
	if !patch.Empty() {
		t.UpdatedAt = s.now()
	}
	return cloneTask(t), nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return fmt.Errorf("task %d: %w", id, domain.ErrNotFound)
	}
	delete(s.tasks, id)
	return nil
}
