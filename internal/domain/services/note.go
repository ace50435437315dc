package services

import (
	"context"

	"allmanager/internal/domain/models"
)

type CreateNoteRequest struct {
	Title     string
	Content   string
	CreatedBy int64
}

type UpdateNoteRequest struct {
	Title   models.Optional[string]
	Content models.Optional[string]
}

type NoteService interface {
	CreateNote(ctx context.Context, req *CreateNoteRequest) (*models.Note, error)
	GetNote(ctx context.Context, id int64) (*models.Note, error)
	ListNotes(ctx context.Context) ([]models.Note, error)
	UpdateNote(ctx context.Context, id int64, req *UpdateNoteRequest) (*models.Note, error)
	DeleteNote(ctx context.Context, id int64) error
}
