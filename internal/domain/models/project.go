package models

import "time"

type ProjectStatus string

const (
	ProjectPlanned ProjectStatus = "PLANNED"
	ProjectActive  ProjectStatus = "ACTIVE"
	ProjectOnHold  ProjectStatus = "ON_HOLD"
	ProjectDone    ProjectStatus = "DONE"
)

// ProjectStatuses lists the accepted project statuses.
var ProjectStatuses = []any{ProjectPlanned, ProjectActive, ProjectOnHold, ProjectDone}

type Project struct {
	ID          int64         `json:"id" db:"id"`
	Name        string        `json:"name" db:"name"`
	Description *string       `json:"description" db:"description"`
	Status      ProjectStatus `json:"status" db:"status"`
	CreatedBy   *int64        `json:"created_by" db:"created_by"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// ProjectPatch holds the columns to change on a project.
// SetDescription distinguishes "clear" (Description nil) from "leave alone".
type ProjectPatch struct {
	Name           *string
	SetDescription bool
	Description    *string
	Status         *ProjectStatus
}

func (p *ProjectPatch) Empty() bool {
	return p.Name == nil && !p.SetDescription && p.Status == nil
}
