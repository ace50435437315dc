package account

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"allmanager/internal/auth"
	"allmanager/internal/config"
	"allmanager/internal/domain"
	"allmanager/internal/domain/models"
	"allmanager/internal/domain/repositories"
	"allmanager/internal/domain/services"
	"allmanager/internal/repository/memory"
)

const strongPassword = "Correct-Horse-42"

type fixture struct {
	users   repositories.UserRepository
	hasher  *auth.PasswordHasher
	tokens  *auth.TokenManager
	now     time.Time
	auth    services.AuthService
	service services.UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	store := memory.NewStore()

	hasher, err := auth.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := auth.NewTokenManager("0123456789abcdef0123456789abcdef", "allmanager", "allmanager-app", time.Hour, logger)
	require.NoError(t, err)

	f := &fixture{
		users:  memory.NewUserRepository(store),
		hasher: hasher,
		tokens: tokens,
		now:    time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	limiter := auth.NewMemoryLimiterWithClock(auth.DefaultLimiterPolicy(), func() time.Time { return f.now })
	f.auth = NewAuthService(f.users, hasher, tokens, limiter, logger)
	f.service = NewUserService(f.users, memory.NewTransactionManager(store), hasher, logger)
	return f
}

func (f *fixture) seedUser(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()
	hash, err := f.hasher.Hash(strongPassword)
	require.NoError(t, err)
	u := &models.User{Name: "Seed", Email: email, PasswordHash: hash, Role: role}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func login(f *fixture, email, password string) (*services.LoginResult, error) {
	return f.auth.Login(context.Background(), &services.LoginRequest{
		Email:    email,
		Password: password,
		ClientIP: "203.0.113.7",
	})
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t)
	u := f.seedUser(t, "ada@example.com", models.RoleAdmin)

	res, err := login(f, "  Ada@Example.com ", strongPassword)
	require.NoError(t, err)
	assert.Equal(t, u.Summary(), res.User)
	assert.NotEmpty(t, res.Token)

	p, err := f.tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.UserID)
	assert.Equal(t, models.RoleAdmin, p.Role)
}

func TestLogin_InvalidCredentialsLookTheSame(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "ada@example.com", models.RoleUser)

	_, errWrong := login(f, "ada@example.com", "wrong-password")
	_, errUnknown := login(f, "nobody@example.com", strongPassword)

	for _, err := range []error{errWrong, errUnknown} {
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrUnauthorized))
		assert.Equal(t, "Invalid credentials", err.Error())
	}
}

func TestLogin_RequiresEmailAndPassword(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", strongPassword},
		{"malformed email", "not-an-email", strongPassword},
		{"empty password", "ada@example.com", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := login(f, tt.email, tt.password)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))
			assert.Equal(t, "Email and password are required", err.Error())
		})
	}
}

func TestLogin_BlocksAfterFiveFailures(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "ada@example.com", models.RoleUser)

	for i := 0; i < 5; i++ {
		_, err := login(f, "ada@example.com", "wrong-password")
		require.True(t, errors.Is(err, domain.ErrUnauthorized), "attempt %d", i+1)
	}

	_, err := login(f, "ada@example.com", strongPassword)
	var rl *domain.RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, "Too many failed attempts. Try again later.", rl.Message)
	assert.Equal(t, int64(15*60), rl.RetryAfterSeconds())

	f.now = f.now.Add(15*time.Minute + time.Second)
	_, err = login(f, "ada@example.com", strongPassword)
	require.NoError(t, err)
}

func TestLogin_SuccessResetsFailures(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "ada@example.com", models.RoleUser)

	for i := 0; i < 4; i++ {
		_, _ = login(f, "ada@example.com", "wrong-password")
	}
	_, err := login(f, "ada@example.com", strongPassword)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		_, err := login(f, "ada@example.com", "wrong-password")
		require.True(t, errors.Is(err, domain.ErrUnauthorized))
	}
}

func TestSession(t *testing.T) {
	f := newFixture(t)
	u := f.seedUser(t, "ada@example.com", models.RoleUser)

	got, err := f.auth.Session(context.Background(), &models.Principal{UserID: u.ID, Role: u.Role})
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = f.auth.Session(context.Background(), &models.Principal{UserID: 999, Role: models.RoleUser})
	require.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, "User not found", err.Error())
}

func TestCreateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.service.CreateUser(ctx, &services.CreateUserRequest{
		Name:     "  Grace Hopper ",
		Email:    "Grace@Example.com",
		Password: strongPassword,
		Role:     models.RoleUser,
	})
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", u.Name)
	assert.Equal(t, "grace@example.com", u.Email)
	assert.True(t, f.hasher.Compare(u.PasswordHash, strongPassword))

	_, err = f.service.CreateUser(ctx, &services.CreateUserRequest{
		Name: "Other", Email: "GRACE@example.com", Password: strongPassword, Role: models.RoleUser,
	})
	require.True(t, errors.Is(err, domain.ErrConflict))
	assert.Equal(t, "Email already in use", err.Error())
}

func TestCreateUser_RejectsInvalidPayload(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  services.CreateUserRequest
	}{
		{"missing name", services.CreateUserRequest{Email: "a@b.co", Password: strongPassword, Role: models.RoleUser}},
		{"bad email", services.CreateUserRequest{Name: "A", Email: "a@b", Password: strongPassword, Role: models.RoleUser}},
		{"weak password", services.CreateUserRequest{Name: "A", Email: "a@b.co", Password: "short", Role: models.RoleUser}},
		{"unknown role", services.CreateUserRequest{Name: "A", Email: "a@b.co", Password: strongPassword, Role: "ROOT"}},
		{"missing role", services.CreateUserRequest{Name: "A", Email: "a@b.co", Password: strongPassword}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.CreateUser(context.Background(), &tt.req)
			require.True(t, errors.Is(err, domain.ErrValidation))
			assert.Equal(t, "Invalid payload: name, email, strong password and role are required", err.Error())
		})
	}
}

func TestCreateUser_NameLimitCountsCharacters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	name := strings.Repeat("é", config.MaxUserNameLength)
	u, err := f.service.CreateUser(ctx, &services.CreateUserRequest{
		Name: name, Email: "accent@example.com", Password: strongPassword, Role: models.RoleUser,
	})
	require.NoError(t, err)
	assert.Equal(t, name, u.Name)

	_, err = f.service.CreateUser(ctx, &services.CreateUserRequest{
		Name: name + "é", Email: "accent2@example.com", Password: strongPassword, Role: models.RoleUser,
	})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestUpdateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, "admin@example.com", models.RoleAdmin)
	user := f.seedUser(t, "user@example.com", models.RoleUser)

	updated, err := f.service.UpdateUser(ctx, user.ID, &services.UpdateUserRequest{
		Name:     models.Set("Renamed"),
		Password: models.Set("Another-Strong-99"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.True(t, f.hasher.Compare(updated.PasswordHash, "Another-Strong-99"))

	_, err = f.service.UpdateUser(ctx, user.ID, &services.UpdateUserRequest{Email: models.Set("ADMIN@example.com")})
	assert.True(t, errors.Is(err, domain.ErrConflict))

	_, err = f.service.UpdateUser(ctx, admin.ID, &services.UpdateUserRequest{Role: models.Set(models.RoleUser)})
	require.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, "At least one admin account is required", err.Error())

	_, err = f.service.UpdateUser(ctx, user.ID, &services.UpdateUserRequest{Role: models.Set(models.RoleAdmin)})
	require.NoError(t, err)
	_, err = f.service.UpdateUser(ctx, admin.ID, &services.UpdateUserRequest{Role: models.Set(models.RoleUser)})
	require.NoError(t, err)
}

func TestUpdateUser_Validation(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, "user@example.com", models.RoleUser)

	tests := []struct {
		name    string
		req     services.UpdateUserRequest
		wantMsg string
	}{
		{"nothing to change", services.UpdateUserRequest{}, "No changes provided"},
		{"blank name", services.UpdateUserRequest{Name: models.Set("  ")}, "Invalid name"},
		{"null email", services.UpdateUserRequest{Email: models.Null[string]()}, "Invalid email"},
		{"bad role", services.UpdateUserRequest{Role: models.Set(models.Role("OWNER"))}, "Invalid role"},
		{"weak password", services.UpdateUserRequest{Password: models.Set("password")}, "Password does not meet policy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.UpdateUser(context.Background(), user.ID, &tt.req)
			require.True(t, errors.Is(err, domain.ErrValidation))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}

	_, err := f.service.UpdateUser(context.Background(), 999, &services.UpdateUserRequest{Name: models.Set("x")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, "admin@example.com", models.RoleAdmin)
	other := f.seedUser(t, "other@example.com", models.RoleAdmin)

	err := f.service.DeleteUser(ctx, admin.ID, admin.ID)
	require.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, "Cannot delete your own account", err.Error())

	assert.True(t, errors.Is(f.service.DeleteUser(ctx, admin.ID, 999), domain.ErrNotFound))

	require.NoError(t, f.service.DeleteUser(ctx, admin.ID, other.ID))

	// The remaining admin can only be removed by someone else, and never while alone.
	err = f.service.DeleteUser(ctx, 0, admin.ID)
	require.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, "At least one admin account is required", err.Error())
}
