package postgres

import (
	"context"
	"fmt"

	"allmanager/internal/domain"
	"allmanager/internal/domain/models"
	"allmanager/internal/domain/repositories"
)

const noteColumns = "id, title, content, created_by, created_at, updated_at"

// PostgresNoteRepository implements the NoteRepository interface
type PostgresNoteRepository struct {
	pool   Pool
	tables *TableNames
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(config *RepositoryConfig) repositories.NoteRepository {
	return &PostgresNoteRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func scanNote(row rowScanner) (*models.Note, error) {
	var n models.Note
	if err := row.Scan(&n.ID, &n.Title, &n.Content, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *PostgresNoteRepository) Create(ctx context.Context, note *models.Note) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (title, content, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, r.tables.Notes)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		note.Title,
		note.Content,
		note.CreatedBy,
	).Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("creator no longer exists: %w", domain.ErrUnauthorized)
		}
		return fmt.Errorf("create note: %w", err)
	}

	return nil
}

func (r *PostgresNoteRepository) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, noteColumns, r.tables.Notes)

	note, err := scanNote(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("note %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get note: %w", err)
	}

	return note, nil
}

func (r *PostgresNoteRepository) List(ctx context.Context) ([]models.Note, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id DESC`, noteColumns, r.tables.Notes)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	notes, err := collect(rows, scanNote)
	if err != nil {
		return nil, fmt.Errorf("scan notes: %w", err)
	}
	return notes, nil
}

func (r *PostgresNoteRepository) Update(ctx context.Context, id int64, patch *models.NotePatch) (*models.Note, error) {
	var b updateBuilder
	if patch.Title != nil {
		b.set("title", *patch.Title)
	}
	if patch.Content != nil {
		b.set("content", *patch.Content)
	}
	if b.empty() {
		return r.GetByID(ctx, id)
	}

	query, args := b.build(r.tables.Notes, id, noteColumns)
	note, err := scanNote(GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("note %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("update note: %w", err)
	}

	return note, nil
}

func (r *PostgresNoteRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Notes)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("note %d: %w", id, domain.ErrNotFound)
	}

	return nil
}
