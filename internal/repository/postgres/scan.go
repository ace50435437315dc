package postgres

import (
	"fmt"
	"time"

	"allmanager/internal/domain"
	"allmanager/internal/domain/models"
)

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// collect scans every row with scan and returns a non-nil slice.
func collect[T any](rows interface {
	rowScanner
	Next() bool
	Err() error
	Close()
}, scan func(rowScanner) (*T, error)) ([]T, error) {
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// parseDate converts a YYYY-MM-DD wire date for a DATE column.
func parseDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(models.DateLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("due date %q: %w", *s, domain.ErrValidation)
	}
	return &t, nil
}
