package repositories

import (
	"context"

	"allmanager/internal/domain/models"
)

type NoteRepository interface {
	Create(ctx context.Context, note *models.Note) error
	GetByID(ctx context.Context, id int64) (*models.Note, error)
	List(ctx context.Context) ([]models.Note, error)
	Update(ctx context.Context, id int64, patch *models.NotePatch) (*models.Note, error)
	Delete(ctx context.Context, id int64) error
}
