package postgres

import (
	"context"
	"fmt"

	"allmanager/internal/domain"
	"allmanager/internal/domain/models"
	"allmanager/internal/domain/repositories"
)

const requirementColumns = "id, title, description, status, created_by, created_at, updated_at"

// PostgresRequirementRepository implements the RequirementRepository interface
type PostgresRequirementRepository struct {
	pool   Pool
	tables *TableNames
}

// NewRequirementRepository creates a new requirement repository
func NewRequirementRepository(config *RepositoryConfig) repositories.RequirementRepository {
	return &PostgresRequirementRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func scanRequirement(row rowScanner) (*models.Requirement, error) {
	var q models.Requirement
	if err := row.Scan(&q.ID, &q.Title, &q.Description, &q.Status, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *PostgresRequirementRepository) Create(ctx context.Context, req *models.Requirement) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (title, description, status, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, r.tables.Requirements)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		req.Title,
		req.Description,
		req.Status,
		req.CreatedBy,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("creator no longer exists: %w", domain.ErrUnauthorized)
		}
		return fmt.Errorf("create requirement: %w", err)
	}

	return nil
}

func (r *PostgresRequirementRepository) GetByID(ctx context.Context, id int64) (*models.Requirement, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, requirementColumns, r.tables.Requirements)

	req, err := scanRequirement(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("requirement %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get requirement: %w", err)
	}

	return req, nil
}

func (r *PostgresRequirementRepository) List(ctx context.Context) ([]models.Requirement, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id DESC`, requirementColumns, r.tables.Requirements)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}

	reqs, err := collect(rows, scanRequirement)
	if err != nil {
		return nil, fmt.Errorf("scan requirements: %w", err)
	}
	return reqs, nil
}

func (r *PostgresRequirementRepository) Update(ctx context.Context, id int64, patch *models.RequirementPatch) (*models.Requirement, error) {
	var b updateBuilder
	if patch.Title != nil {
		b.set("title", *patch.Title)
	}
	if patch.SetDescription {
		b.set("description", patch.Description)
	}
	if patch.Status != nil {
		b.set("status", *patch.Status)
	}
	if b.empty() {
		return r.GetByID(ctx, id)
	}

	query, args := b.build(r.tables.Requirements, id, requirementColumns)
	req, err := scanRequirement(GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("requirement %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("update requirement: %w", err)
	}

	return req, nil
}

func (r *PostgresRequirementRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Requirements)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete requirement: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("requirement %d: %w", id, domain.ErrNotFound)
	}

	return nil
}
