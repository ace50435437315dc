package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"allmanager/internal/auth"
	"allmanager/internal/domain"
	"allmanager/internal/domain/models"
	"allmanager/internal/domain/repositories"
	"allmanager/internal/domain/services"
	"allmanager/internal/service/fields"
)

var (
	errCredentialsRequired = &domain.ValidationError{Message: "Email and password are required"}
	errInvalidCredentials  = &domain.UnauthorizedError{Message: "Invalid credentials"}
)

// authService implements the AuthService interface
type authService struct {
	users   repositories.UserRepository
	hasher  *auth.PasswordHasher
	tokens  auth.TokenIssuer
	limiter auth.LoginLimiter
	logger  *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	users repositories.UserRepository,
	hasher *auth.PasswordHasher,
	tokens auth.TokenIssuer,
	limiter auth.LoginLimiter,
	logger *slog.Logger,
) services.AuthService {
	return &authService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		limiter: limiter,
		logger:  logger,
	}
}

// Login checks credentials for one (client ip, email) pair. Unknown emails
// and wrong passwords fail the same way and both count against the limiter.
func (s *authService) Login(ctx context.Context, req *services.LoginRequest) (*services.LoginResult, error) {
	email, err := fields.Email(req.Email)
	if err != nil || req.Password == "" {
		return nil, errCredentialsRequired
	}

	key := auth.LoginKey(req.ClientIP, email)
	retryAfter, err := s.limiter.Check(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("check login limiter: %w", err)
	}
	if retryAfter > 0 {
		s.logger.Warn("login blocked",
			"client_ip", req.ClientIP,
			"retry_after", retryAfter,
		)
		return nil, &domain.RateLimitError{
			Message:    "Too many failed attempts. Try again later.",
			RetryAfter: retryAfter,
		}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		s.hasher.DummyCompare(req.Password)
		return nil, s.fail(ctx, key, req.ClientIP, "unknown email")
	}

	if !s.hasher.Compare(user.PasswordHash, req.Password) {
		return nil, s.fail(ctx, key, req.ClientIP, "wrong password")
	}

	if err := s.limiter.Reset(ctx, key); err != nil {
		s.logger.Error("failed to reset login limiter", "error", err)
	}

	token, expiresAt, err := s.tokens.Sign(models.Principal{UserID: user.ID, Role: user.Role})
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	s.logger.Info("user logged in",
		"user_id", user.ID,
		"role", user.Role,
		"client_ip", req.ClientIP,
	)

	return &services.LoginResult{
		User:      user.Summary(),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// fail records a failed attempt and returns the generic credentials error.
func (s *authService) fail(ctx context.Context, key, clientIP, reason string) error {
	s.logger.Warn("login failed",
		"reason", reason,
		"client_ip", clientIP,
	)
	if err := s.limiter.RecordFailure(ctx, key); err != nil {
		return fmt.Errorf("record failed login: %w", err)
	}
	return errInvalidCredentials
}

// Session loads the account behind the principal
func (s *authService) Session(ctx context.Context, principal *models.Principal) (*models.User, error) {
	if principal == nil || principal.UserID <= 0 {
		return nil, &domain.UnauthorizedError{Message: "Unauthorized"}
	}

	user, err := s.users.GetByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{Message: "User not found"}
		}
		return nil, err
	}
	return user, nil
}
