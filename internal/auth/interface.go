package auth

import (
	"context"
	"time"

	"allmanager/internal/domain/models"
)

// TokenVerifier validates session tokens.
// This abstraction keeps the middleware agnostic to the signing details.
type TokenVerifier interface {
	// Verify validates a token string and returns the caller it identifies.
	// Returns *domain.UnauthorizedError if the token is malformed, expired or
	// signed with anything but the configured HS256 secret.
	Verify(token string) (*models.Principal, error)
}

// TokenIssuer signs session tokens at login.
type TokenIssuer interface {
	Sign(p models.Principal) (token string, expiresAt time.Time, err error)
}

// LoginLimiter tracks failed logins per key (client ip + email).
type LoginLimiter interface {
	// Check returns the remaining block time, or zero if attempts are allowed.
	Check(ctx context.Context, key string) (time.Duration, error)

	// RecordFailure counts a failed attempt and blocks the key when the
	// window's budget is exhausted.
	RecordFailure(ctx context.Context, key string) error

	// Reset forgets the key after a successful login.
	Reset(ctx context.Context, key string) error
}
