package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"allmanager/internal/domain"
	"allmanager/internal/domain/models"
)

var errInvalidToken = &domain.UnauthorizedError{Message: "Invalid token"}

// TokenManager signs and verifies HS256 session tokens.
type TokenManager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewTokenManager creates a token manager for the given shared secret.
func NewTokenManager(secret, issuer, audience string, ttl time.Duration, logger *slog.Logger) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	return &TokenManager{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}, nil
}

// TTL is the lifetime of issued tokens.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Sign issues a token carrying the user id and role.
func (m *TokenManager) Sign(p models.Principal) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := models.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(p.UserID, 10),
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: p.UserID,
		Role:   p.Role,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Verify parses the token and checks signature, issuer, audience, expiry and payload.
func (m *TokenManager) Verify(tokenString string) (*models.Principal, error) {
	var claims models.SessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (interface{}, error) {
			return m.secret, nil
		},
		// Prevent algorithm confusion attacks
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		m.logger.Debug("token rejected", "error", err)
		return nil, errInvalidToken
	}

	if claims.UserID <= 0 || !claims.Role.Valid() {
		m.logger.Warn("token has invalid payload", "user_id", claims.UserID, "role", claims.Role)
		return nil, errInvalidToken
	}

	return &models.Principal{UserID: claims.UserID, Role: claims.Role}, nil
}
