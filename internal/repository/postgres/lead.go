package postgres

import (
	"context"
	"fmt"

	"allmanager/internal/domain"
	"allmanager/internal/domain/models"
	"allmanager/internal/domain/repositories"
)

const leadColumns = "id, name, email, phone, status, notes, created_at, updated_at"

// PostgresLeadRepository implements the LeadRepository interface
type PostgresLeadRepository struct {
	pool   Pool
	tables *TableNames
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(config *RepositoryConfig) repositories.LeadRepository {
	return &PostgresLeadRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func scanLead(row rowScanner) (*models.Lead, error) {
	var l models.Lead
	if err := row.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Status, &l.Notes, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *PostgresLeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, email, phone, status, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, r.tables.Leads)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.Status,
		lead.Notes,
	).Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create lead: %w", err)
	}

	return nil
}

func (r *PostgresLeadRepository) GetByID(ctx context.Context, id int64) (*models.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, leadColumns, r.tables.Leads)

	lead, err := scanLead(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("lead %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}

	return lead, nil
}

func (r *PostgresLeadRepository) List(ctx context.Context) ([]models.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id DESC`, leadColumns, r.tables.Leads)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}

	leads, err := collect(rows, scanLead)
	if err != nil {
		return nil, fmt.Errorf("scan leads: %w", err)
	}
	return leads, nil
}

func (r *PostgresLeadRepository) Update(ctx context.Context, id int64, patch *models.LeadPatch) (*models.Lead, error) {
	var b updateBuilder
	if patch.Name != nil {
		b.set("name", *patch.Name)
	}
	if patch.SetEmail {
		b.set("email", patch.Email)
	}
	if patch.SetPhone {
		b.set("phone", patch.Phone)
	}
	if patch.Status != nil {
		b.set("status", *patch.Status)
	}
	if patch.SetNotes {
		b.set("notes", patch.Notes)
	}
	if b.empty() {
		return r.GetByID(ctx, id)
	}

	query, args := b.build(r.tables.Leads, id, leadColumns)
	lead, err := scanLead(GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("lead %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("update lead: %w", err)
	}

	return lead, nil
}

func (r *PostgresLeadRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Leads)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("lead %d: %w", id, domain.ErrNotFound)
	}

	return nil
}
