package services

import (
	"context"

	"allmanager/internal/domain/models"
)

// CreateUserRequest represents a request to create a user account
type CreateUserRequest struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

// UpdateUserRequest carries optional changes. Absent fields are left alone.
type UpdateUserRequest struct {
	Name     models.Optional[string]
	Email    models.Optional[string]
	Password models.Optional[string]
	Role     models.Optional[models.Role]
}

// UserService manages user accounts. Every method is admin-only at the route level.
type UserService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	CreateUser(ctx context.Context, req *CreateUserRequest) (*models.User, error)

	// UpdateUser refuses to demote the last ADMIN.
	UpdateUser(ctx context.Context, id int64, req *UpdateUserRequest) (*models.User, error)

	// DeleteUser refuses to delete the acting user or the last ADMIN.
	DeleteUser(ctx context.Context, actorID, id int64) error
}
