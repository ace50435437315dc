package auth

import (
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allmanager/internal/domain"
	"allmanager/internal/domain/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestTokenManager(t *testing.T) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(testSecret, "allmanager", "allmanager-app", 8*time.Hour, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	return m
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := newTestTokenManager(t)

	token, expiresAt, err := m.Sign(models.Principal{UserID: 12, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(8*time.Hour), expiresAt, time.Minute)

	p, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(12), p.UserID)
	assert.Equal(t, models.RoleAdmin, p.Role)
}

func TestTokenManager_SetsRegisteredClaims(t *testing.T) {
	m := newTestTokenManager(t)
	token, _, err := m.Sign(models.Principal{UserID: 3, Role: models.RoleUser})
	require.NoError(t, err)

	var claims models.SessionClaims
	_, _, err = jwt.NewParser().ParseUnverified(token, &claims)
	require.NoError(t, err)

	assert.Equal(t, "3", claims.Subject)
	assert.Equal(t, "allmanager", claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"allmanager-app"}, claims.Audience)
	assert.NotNil(t, claims.IssuedAt)
}

func TestTokenManager_Rejects(t *testing.T) {
	m := newTestTokenManager(t)
	valid := func() models.SessionClaims {
		now := time.Now()
		return models.SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "1",
				Issuer:    "allmanager",
				Audience:  jwt.ClaimStrings{"allmanager-app"},
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
			UserID: 1,
			Role:   models.RoleUser,
		}
	}
	sign := func(method jwt.SigningMethod, key any, claims models.SessionClaims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "wrong secret", token: sign(jwt.SigningMethodHS256, []byte("another-secret-another-secret-xx"), valid())},
		{name: "wrong algorithm", token: sign(jwt.SigningMethodHS384, []byte(testSecret), valid())},
		{name: "none algorithm", token: sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid())},
		{name: "expired", token: func() string {
			c := valid()
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
			return sign(jwt.SigningMethodHS256, []byte(testSecret), c)
		}()},
		{name: "wrong issuer", token: func() string {
			c := valid()
			c.Issuer = "someone-else"
			return sign(jwt.SigningMethodHS256, []byte(testSecret), c)
		}()},
		{name: "wrong audience", token: func() string {
			c := valid()
			c.Audience = jwt.ClaimStrings{"other-app"}
			return sign(jwt.SigningMethodHS256, []byte(testSecret), c)
		}()},
		{name: "non-positive user id", token: func() string {
			c := valid()
			c.UserID = 0
			return sign(jwt.SigningMethodHS256, []byte(testSecret), c)
		}()},
		{name: "unknown role", token: func() string {
			c := valid()
			c.Role = "ROOT"
			return sign(jwt.SigningMethodHS256, []byte(testSecret), c)
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := m.Verify(tt.token)
			assert.Nil(t, p)
			require.ErrorIs(t, err, domain.ErrUnauthorized)
			assert.Equal(t, "Invalid token", err.Error())
		})
	}
}

func TestTokenManager_ExpiresAfterTTL(t *testing.T) {
	m := newTestTokenManager(t)
	token, _, err := m.Sign(models.Principal{UserID: 1, Role: models.RoleUser})
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(8*time.Hour + time.Minute) }

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestNewTokenManager_RequiresSecret(t *testing.T) {
	_, err := NewTokenManager("", "i", "a", time.Hour, slog.Default())
	assert.Error(t, err)
}
