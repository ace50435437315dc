package models

import "time"

type LeadStatus string

const (
	LeadNew       LeadStatus = "NEW"
	LeadQualified LeadStatus = "QUALIFIED"
	LeadWon       LeadStatus = "WON"
	LeadLost      LeadStatus = "LOST"
)

var LeadStatuses = []any{LeadNew, LeadQualified, LeadWon, LeadLost}

type Lead struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Email     *string    `json:"email" db:"email"`
	Phone     *string    `json:"phone" db:"phone"`
	Status    LeadStatus `json:"status" db:"status"`
	Notes     *string    `json:"notes" db:"notes"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

type LeadPatch struct {
	Name     *string
	SetEmail bool
	Email    *string
	SetPhone bool
	Phone    *string
	Status   *LeadStatus
	SetNotes bool
	Notes    *string
}

func (p *LeadPatch) Empty() bool {
	return p.Name == nil && !p.SetEmail && !p.SetPhone && p.Status == nil && !p.SetNotes
}
