package repositories

import (
	"context"

	"allmanager/internal/domain/models"
)

// UserRepository defines data access operations for user accounts
type UserRepository interface {
	// Create inserts a user. A taken email returns *domain.ConflictError.
	Create(ctx context.Context, user *models.User) error

	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByEmail looks up by normalized (lowercase) email
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// List retrieves all users, newest first
	List(ctx context.Context) ([]models.User, error)

	// Update applies the patch. A taken email returns *domain.ConflictError.
	Update(ctx context.Context, id int64, patch *models.UserPatch) (*models.User, error)

	Delete(ctx context.Context, id int64) error

	// CountAdmins counts ADMIN accounts. Inside a transaction the admin rows
	// stay locked until commit.
	CountAdmins(ctx context.Context) (int, error)
}
