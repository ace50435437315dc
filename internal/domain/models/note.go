package models

import "time"

type Note struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	CreatedBy *int64    `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type NotePatch struct {
	Title   *string
	Content *string
}

func (p *NotePatch) Empty() bool {
	return p.Title == nil && p.Content == nil
}
