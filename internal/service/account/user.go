package account

import (
	"context"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"allmanager/internal/auth"
	"allmanager/internal/config"
	"allmanager/internal/domain"
	"allmanager/internal/domain/models"
	"allmanager/internal/domain/repositories"
	"allmanager/internal/domain/services"
	"allmanager/internal/service/fields"
)

var roles = []any{models.RoleAdmin, models.RoleUser}

var (
	errLastAdmin  = &domain.ValidationError{Message: "At least one admin account is required"}
	errDeleteSelf = &domain.ValidationError{Message: "Cannot delete your own account"}
	errNoChanges  = &domain.ValidationError{Message: "No changes provided"}
)

// userService implements the UserService interface
type userService struct {
	users     repositories.UserRepository
	txManager repositories.TransactionManager
	hasher    *auth.PasswordHasher
	logger    *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(
	users repositories.UserRepository,
	txManager repositories.TransactionManager,
	hasher *auth.PasswordHasher,
	logger *slog.Logger,
) services.UserService {
	return &userService{
		users:     users,
		txManager: txManager,
		hasher:    hasher,
		logger:    logger,
	}
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *userService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// CreateUser creates an account with a hashed password
func (s *userService) CreateUser(ctx context.Context, req *services.CreateUserRequest) (*models.User, error) {
	in := services.CreateUserRequest{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: req.Password,
		Role:     req.Role,
	}
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.RuneLength(1, config.MaxUserNameLength)),
		validation.Field(&in.Email, fields.EmailRules...),
		validation.Field(&in.Password, validation.Required, auth.StrongPassword),
		validation.Field(&in.Role, validation.Required, validation.In(roles...)),
	)
	if err != nil {
		return nil, &domain.ValidationError{Message: "Invalid payload: name, email, strong password and role are required"}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		"id", user.ID,
		"role", user.Role,
	)

	return user, nil
}

// UpdateUser applies the present fields. Demoting the last ADMIN is refused.
func (s *userService) UpdateUser(ctx context.Context, id int64, req *services.UpdateUserRequest) (*models.User, error) {
	patch, err := s.buildPatch(req)
	if err != nil {
		return nil, err
	}

	var updated *models.User
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if patch.Role != nil && *patch.Role != models.RoleAdmin {
			if err := s.ensureNotLastAdmin(ctx, id); err != nil {
				return err
			}
		}

		var err error
		updated, err = s.users.Update(ctx, id, patch)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user updated",
		"id", updated.ID,
		"role", updated.Role,
		"password_changed", patch.PasswordHash != nil,
	)

	return updated, nil
}

func (s *userService) buildPatch(req *services.UpdateUserRequest) (*models.UserPatch, error) {
	patch := &models.UserPatch{}

	name, err := fields.PatchRequiredText(req.Name, config.MaxUserNameLength, "Invalid name")
	if err != nil {
		return nil, err
	}
	patch.Name = name

	if req.Email.Present {
		if req.Email.Value == nil {
			return nil, &domain.ValidationError{Message: "Invalid email"}
		}
		email, err := fields.Email(*req.Email.Value)
		if err != nil {
			return nil, err
		}
		patch.Email = &email
	}

	role, err := fields.PatchEnum(req.Role, roles, "Invalid role")
	if err != nil {
		return nil, err
	}
	patch.Role = role

	if req.Password.Present {
		if req.Password.Value == nil || auth.CheckPasswordPolicy(*req.Password.Value) != nil {
			return nil, &domain.ValidationError{Message: "Password does not meet policy"}
		}
		hash, err := s.hasher.Hash(*req.Password.Value)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}

	if patch.Empty() {
		return nil, errNoChanges
	}
	return patch, nil
}

// DeleteUser removes an account. The admin count and the delete share one
// transaction so two concurrent deletes cannot remove the last two admins.
func (s *userService) DeleteUser(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return errDeleteSelf
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.ensureNotLastAdmin(ctx, id); err != nil {
			return err
		}
		return s.users.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("user deleted",
		"id", id,
		"actor_id", actorID,
	)

	return nil
}

// ensureNotLastAdmin fails when id is the only remaining ADMIN.
// Returns the repository's not-found error for unknown ids.
func (s *userService) ensureNotLastAdmin(ctx context.Context, id int64) error {
	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if target.Role != models.RoleAdmin {
		return nil
	}

	admins, err := s.users.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if admins <= 1 {
		s.logger.Warn("refused to remove last admin", "id", id)
		return errLastAdmin
	}
	return nil
}
