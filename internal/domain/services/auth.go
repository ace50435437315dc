package services

import (
	"context"
	"time"

	"allmanager/internal/domain/models"
)

// LoginRequest carries the credentials and the limiter identity of the caller.
type LoginRequest struct {
	Email    string
	Password string
	ClientIP string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	User      models.UserSummary
	Token     string
	ExpiresAt time.Time
}

// AuthService handles credential checks and session lookups.
type AuthService interface {
	// Login verifies credentials under the login rate limiter.
	// Returns *domain.RateLimitError while the caller is blocked and
	// *domain.UnauthorizedError for bad credentials, whether or not the
	// email exists.
	Login(ctx context.Context, req *LoginRequest) (*LoginResult, error)

	// Session loads the account behind an authenticated principal.
	Session(ctx context.Context, principal *models.Principal) (*models.User, error)
}
