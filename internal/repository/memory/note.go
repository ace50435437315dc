package memory

import (
	"context"
	"fmt"
	"sort"

	"allmanager/internal/domain"
	"allmanager/internal/domain/models"
	"allmanager/internal/domain/repositories"
)

// NoteRepository implements repositories.NoteRepository
type NoteRepository struct {
	store *Store
}

func NewNoteRepository(store *Store) repositories.NoteRepository {
	return &NoteRepository{store: store}
}

func cloneNote(n *models.Note) *models.Note {
	c := *n
	c.CreatedBy = clonePtr(n.CreatedBy)
	return &c
}

func (r *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if note.CreatedBy != nil {
		if _, ok := s.users[*note.CreatedBy]; !ok {
			return fmt.Errorf("creator no longer exists: %w", domain.ErrUnauthorized)
		}
	}

	now := s.now()
	note.ID = s.id("notes")
	note.CreatedAt, note.UpdatedAt = now, now
	s.notes[note.ID] = cloneNote(note)
	return nil
}

func (r *NoteRepository) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notes[id]
	if !ok {
		return nil, fmt.Errorf("note %d: %w", id, domain.ErrNotFound)
	}
	return cloneNote(n), nil
}

func (r *NoteRepository) List(ctx context.Context) ([]models.Note, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	notes := make([]models.Note, 0, len(s.notes))
	for _, n := range s.notes {
		notes = append(notes, *cloneNote(n))
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID > notes[j].ID })
	return notes, nil
}

func (r *NoteRepository) Update(ctx context.Context, id int64, patch *models.NotePatch) (*models.Note, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok {
		return nil, fmt.Errorf("note %d: %w", id, domain.ErrNotFound)
	}
	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Content != nil {
		n.Content = *patch.Content
	}
	if !patch.Empty() {
		n.UpdatedAt = s.now()
	}
	return cloneNote(n), nil
}

func (r *NoteRepository) Delete(ctx context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[id]; !ok {
		return fmt.Errorf("note %d: %w", id, domain.ErrNotFound)
	}
	delete(s.notes, id)
	return nil
}
