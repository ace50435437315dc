package models

import "time"

type RequirementStatus string

const (
	RequirementOpen       RequirementStatus = "OPEN"
	RequirementInProgress RequirementStatus = "IN_PROGRESS"
	RequirementDone       RequirementStatus = "DONE"
)

var RequirementStatuses = []any{RequirementOpen, RequirementInProgress, RequirementDone}

type Requirement struct {
	ID          int64             `json:"id" db:"id"`
	Title       string            `json:"title" db:"title"`
	Description *string           `json:"description" db:"description"`
	Status      RequirementStatus `json:"status" db:"status"`
	CreatedBy   *int64            `json:"created_by" db:"created_by"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}

type RequirementPatch struct {
	Title          *string
	SetDescription bool
	Description    *string
	Status         *RequirementStatus
}

func (p *RequirementPatch) Empty() bool {
	return p.Title == nil && !p.SetDescription && p.Status == nil
}
