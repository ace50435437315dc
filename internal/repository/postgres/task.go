package postgres

import (
	"context"
	"fmt"

	"allmanager/internal/domain"
	"allmanager/internal/domain/models"
	"allmanager/internal/domain/repositories"
)

const taskColumns = `id, project_id, title, description, status, priority, assigned_to,
	to_char(due_date, 'YYYY-MM-DD'), created_at, updated_at`

// PostgresTaskRepository implements the TaskRepository interface
type PostgresTaskRepository struct {
	pool   Pool
	tables *TableNames
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(config *RepositoryConfig) repositories.TaskRepository {
	return &PostgresTaskRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func scanTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.AssignedTo, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// referenceError turns an FK violation into a validation error naming the column.
func (r *PostgresTaskRepository) referenceError(err error) error {
	switch pgConstraint(err) {
	case r.tables.Prefix + "tasks_assigned_to_fkey":
		return domain.NewValidationError("Assignee not found")
	default:
		return domain.NewValidationError("Project not found")
	}
}

// Create creates a new task
func (r *PostgresTaskRepository) Create(ctx context.Context, task *models.Task) error {
	dueDate, err := parseDate(task.DueDate)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (project_id, title, description, status, priority, assigned_to, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, r.tables.Tasks)

	err = GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		task.ProjectID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.AssignedTo,
		dueDate,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return r.referenceError(err)
		}
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

// GetByID retrieves a task by ID
func (r *PostgresTaskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, taskColumns, r.tables.Tasks)

	task, err := scanTask(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("task %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get task: %w", err)
	}

	return task, nil
}

// List retrieves all tasks, newest first
func (r *PostgresTaskRepository) List(ctx context.Context) ([]models.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id DESC`, taskColumns, r.tables.Tasks)
	return r.query(ctx, query)
}

// ListByProject retrieves the tasks of one project, newest first
func (r *PostgresTaskRepository) ListByProject(ctx context.Context, projectID int64) ([]models.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE project_id = $1 ORDER BY id DESC`, taskColumns, r.tables.Tasks)
	return r.query(ctx, query, projectID)
}

func (r *PostgresTaskRepository) query(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks, err := collect(rows, scanTask)
	if err != nil {
		return nil, fmt.Errorf("scan tasks: %w", err)
	}
	return tasks, nil
}

// Update applies the present fields of patch
func (r *PostgresTaskRepository) Update(ctx context.Context, id int64, patch *models.TaskPatch) (*models.Task, error) {
	var b updateBuilder
	if patch.Title != nil {
		b.set("title", *patch.Title)
	}
	if patch.SetDescription {
		b.set("description", patch.Description)
	}
	if patch.Status != nil {
		b.set("status", *patch.Status)
	}
	if patch.Priority != nil {
		b.set("priority", *patch.Priority)
	}
	if patch.SetAssignedTo {
		b.set("assigned_to", patch.AssignedTo)
	}
	if patch.SetDueDate {
		dueDate, err := parseDate(patch.DueDate)
		if err != nil {
			return nil, err
		}
		b.set("due_date", dueDate)
	}
	if b.empty() {
		return r.GetByID(ctx, id)
	}

	query, args := b.build(r.tables.Tasks, id, taskColumns)
	task, err := scanTask(GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("task %d: %w", id, domain.ErrNotFound)
		}
		if IsPgForeignKeyError(err) {
			return nil, r.referenceError(err)
		}
		return nil, fmt.Errorf("update task: %w", err)
	}

	return task, nil
}

// Delete deletes a task
func (r *PostgresTaskRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Tasks)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("task %d: %w", id, domain.ErrNotFound)
	}

	return nil
}
