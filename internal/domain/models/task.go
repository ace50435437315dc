package models

import "time"

type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskReview     TaskStatus = "REVIEW"
	TaskDone       TaskStatus = "DONE"
)

var TaskStatuses = []any{TaskTodo, TaskInProgress, TaskReview, TaskDone}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

var TaskPriorities = []any{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// DateLayout is the wire format of calendar dates such as a task's due date.
const DateLayout = "2006-01-02"

type Task struct {
	ID          int64        `json:"id" db:"id"`
	ProjectID   int64        `json:"project_id" db:"project_id"`
	Title       string       `json:"title" db:"title"`
	Description *string      `json:"description" db:"description"`
	Status      TaskStatus   `json:"status" db:"status"`
	Priority    TaskPriority `json:"priority" db:"priority"`
	AssignedTo  *int64       `json:"assigned_to" db:"assigned_to"`
	DueDate     *string      `json:"due_date" db:"due_date"` // YYYY-MM-DD
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

type TaskPatch struct {
	Title          *string
	SetDescription bool
	Description    *string
	Status         *TaskStatus
	Priority       *TaskPriority
	SetAssignedTo  bool
	AssignedTo     *int64
	SetDueDate     bool
	DueDate        *string
}

func (p *TaskPatch) Empty() bool {
	return p.Title == nil && !p.SetDescription && p.Status == nil && p.Priority == nil &&
		!p.SetAssignedTo && !p.SetDueDate
}
