package workspace

import (
	"context"
	"log/slog"

	"allmanager/internal/config"
	"allmanager/internal/domain/models"
	"allmanager/internal/domain/repositories"
	"allmanager/internal/domain/services"
	"allmanager/internal/service/fields"
)

type noteService struct {
	noteRepo repositories.NoteRepository
	logger   *slog.Logger
}

func NewNoteService(noteRepo repositories.NoteRepository, logger *slog.Logger) services.NoteService {
	return &noteService{noteRepo: noteRepo, logger: logger}
}

func (s *noteService) CreateNote(ctx context.Context, req *services.CreateNoteRequest) (*models.Note, error) {
	const required = "title and content are required"

	title, err := fields.Text(req.Title, config.MaxTitleLength, required)
	if err != nil {
		return nil, err
	}
	content, err := fields.Text(req.Content, config.MaxNoteContentLength, required)
	if err != nil {
		return nil, err
	}

	createdBy := req.CreatedBy
	note := &models.Note{
		Title:     title,
		Content:   content,
		CreatedBy: &createdBy,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, err
	}

	s.logger.Info("note created",
		"id", note.ID,
		"user_id", createdBy,
	)

	return note, nil
}

func (s *noteService) GetNote(ctx context.Context, id int64) (*models.Note, error) {
	return s.noteRepo.GetByID(ctx, id)
}

func (s *noteService) ListNotes(ctx context.Context) ([]models.Note, error) {
	return s.noteRepo.List(ctx)
}

func (s *noteService) UpdateNote(ctx context.Context, id int64, req *services.UpdateNoteRequest) (*models.Note, error) {
	patch := &models.NotePatch{}
	var err error

	if patch.Title, err = fields.PatchRequiredText(req.Title, config.MaxTitleLength, "Invalid title"); err != nil {
		return nil, err
	}
	if patch.Content, err = fields.PatchRequiredText(req.Content, config.MaxNoteContentLength, "Invalid content"); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, errNoChanges
	}

	note, err := s.noteRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("note updated", "id", note.ID)
	return note, nil
}

func (s *noteService) DeleteNote(ctx context.Context, id int64) error {
	if err := s.noteRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("note deleted", "id", id)
	return nil
}
