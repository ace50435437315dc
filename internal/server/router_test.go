package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"allmanager/internal/auth"
	"allmanager/internal/domain/models"
	"allmanager/internal/repository/memory"
)

const (
	testOrigin   = "http://app.example.com"
	testPassword = "Sup3r-Secret-Pass"
)

type testServer struct {
	handler http.Handler
	stores  Stores
	now     time.Time
	admin   *models.User
	user    *models.User
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)

	hasher, err := auth.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := auth.NewTokenManager("0123456789abcdef0123456789abcdef", "allmanager", "allmanager-app", time.Hour, logger)
	require.NoError(t, err)

	ts := &testServer{
		stores: MemoryStores(memory.NewStore()),
		now:    time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC),
	}
	limiter := auth.NewMemoryLimiterWithClock(auth.DefaultLimiterPolicy(), func() time.Time { return ts.now })

	ts.handler = NewRouter(Config{
		Stores:         ts.stores,
		Hasher:         hasher,
		Tokens:         tokens,
		Limiter:        limiter,
		CORSOrigins:    []string{testOrigin},
		RateLimitRPS:   0,
		RateLimitBurst: 0,
		Logger:         logger,
	})

	hash, err := hasher.Hash(testPassword)
	require.NoError(t, err)
	ts.admin = &models.User{Name: "Admin", Email: "admin@example.com", PasswordHash: hash, Role: models.RoleAdmin}
	ts.user = &models.User{Name: "User", Email: "user@example.com", PasswordHash: hash, Role: models.RoleUser}
	require.NoError(t, ts.stores.Users.Create(context.Background(), ts.admin))
	require.NoError(t, ts.stores.Users.Create(context.Background(), ts.user))
	return ts
}

// session is a browser-like client holding the cookies set at login.
type session struct {
	cookies []*http.Cookie
	csrf    string
}

type request struct {
	method  string
	path    string
	body    string
	session *session
	bearer  string
	noCSRF  bool
	headers map[string]string
}

func (ts *testServer) do(t *testing.T, req request) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if req.body != "" {
		body = strings.NewReader(req.body)
	}
	r := httptest.NewRequest(req.method, "http://app.example.com"+req.path, body)
	r.RemoteAddr = "198.51.100.10:5555"
	if req.body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	if req.session != nil {
		for _, c := range req.session.cookies {
			r.AddCookie(c)
		}
		r.Header.Set("Origin", testOrigin)
		if !req.noCSRF {
			r.Header.Set(auth.CSRFHeader, req.session.csrf)
		}
	}
	if req.bearer != "" {
		r.Header.Set("Authorization", "Bearer "+req.bearer)
	}
	for k, v := range req.headers {
		r.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, r)
	return rec
}

func (ts *testServer) login(t *testing.T, email string) *session {
	t.Helper()
	rec := ts.do(t, request{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   `{"email":"` + email + `","password":"` + testPassword + `"}`,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	s := &session{cookies: rec.Result().Cookies()}
	for _, c := range s.cookies {
		if c.Name == auth.CSRFCookieName {
			s.csrf = c.Value
		}
	}
	require.NotEmpty(t, s.csrf)
	return s
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	return decode[map[string]string](t, rec)["error"]
}

func TestLogin_SetsCookiesAndReturnsUser(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, request{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   `{"email":"ADMIN@example.com","password":"` + testPassword + `"}`,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]models.UserSummary](t, rec)
	assert.Equal(t, ts.admin.Summary(), body["user"])
	assert.NotContains(t, rec.Body.String(), "password")

	cookies := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		cookies[c.Name] = c
	}
	require.Contains(t, cookies, auth.AuthCookieName)
	require.Contains(t, cookies, auth.CSRFCookieName)
	assert.True(t, cookies[auth.AuthCookieName].HttpOnly)
	assert.False(t, cookies[auth.CSRFCookieName].HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookies[auth.AuthCookieName].SameSite)
	assert.Equal(t, 3600, cookies[auth.AuthCookieName].MaxAge)
	assert.Len(t, cookies[auth.CSRFCookieName].Value, 48)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ts := newTestServer(t)

	for _, body := range []string{
		`{"email":"admin@example.com","password":"Wrong-Password-1"}`,
		`{"email":"ghost@example.com","password":"Wrong-Password-1"}`,
	} {
		rec := ts.do(t, request{method: http.MethodPost, path: "/api/auth/login", body: body})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", errorMessage(t, rec))
	}
}

func TestLogin_BadRequests(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		headers    map[string]string
		wantStatus int
		wantError  string
	}{
		{"missing password", `{"email":"admin@example.com"}`, nil, 400, "Email and password are required"},
		{"non-string password", `{"email":"admin@example.com","password":12}`, nil, 400, "Email and password are required"},
		{"malformed json", `{"email":`, nil, 400, "Invalid JSON"},
		{"wrong content type", `{}`, map[string]string{"Content-Type": "text/plain"}, 415, "Content-Type must be application/json"},
		{"oversized body", `{"email":"` + strings.Repeat("a", 70<<10) + `"}`, nil, 413, "Payload too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, request{method: http.MethodPost, path: "/api/auth/login", body: tt.body, headers: tt.headers})
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantError, errorMessage(t, rec))
		})
	}
}

func TestLogin_RateLimited(t *testing.T) {
	ts := newTestServer(t)
	bad := request{method: http.MethodPost, path: "/api/auth/login", body: `{"email":"user@example.com","password":"nope"}`}

	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusUnauthorized, ts.do(t, bad).Code, "attempt %d", i+1)
	}

	rec := ts.do(t, request{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   `{"email":"user@example.com","password":"` + testPassword + `"}`,
	})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too many failed attempts. Try again later.", errorMessage(t, rec))
	assert.Equal(t, "900", rec.Header().Get("Retry-After"))

	// A different email from the same client is tracked separately.
	ts.login(t, "admin@example.com")

	ts.now = ts.now.Add(15*time.Minute + time.Second)
	ts.login(t, "user@example.com")
}

func TestSession(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, request{method: http.MethodGet, path: "/api/auth/session"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", errorMessage(t, rec))

	rec = ts.do(t, request{method: http.MethodGet, path: "/api/auth/session", bearer: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", errorMessage(t, rec))

	s := ts.login(t, "user@example.com")
	rec = ts.do(t, request{method: http.MethodGet, path: "/api/auth/session", session: s})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ts.user.Summary(), decode[map[string]models.UserSummary](t, rec)["user"])
	assert.Equal(t, "no-store, max-age=0", rec.Header().Get("Cache-Control"))
}

func TestCSRF(t *testing.T) {
	ts := newTestServer(t)
	s := ts.login(t, "user@example.com")

	rec := ts.do(t, request{method: http.MethodPost, path: "/api/projects", body: `{"name":"Alpha"}`, session: s, noCSRF: true})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "CSRF token missing", errorMessage(t, rec))

	rec = ts.do(t, request{
		method:  http.MethodPost,
		path:    "/api/projects",
		body:    `{"name":"Alpha"}`,
		session: s,
		headers: map[string]string{"Origin": "https://attacker.example"},
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Cross-origin request blocked", errorMessage(t, rec))

	rec = ts.do(t, request{method: http.MethodPost, path: "/api/projects", body: `{"name":"Alpha"}`, session: s})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	project := decode[models.Project](t, rec)
	assert.Equal(t, "Alpha", project.Name)
	assert.Equal(t, models.ProjectActive, project.Status)
	assert.Equal(t, ts.user.ID, *project.CreatedBy)

	rec = ts.do(t, request{method: http.MethodPost, path: "/api/auth/logout", session: s, noCSRF: true})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, request{method: http.MethodPost, path: "/api/auth/logout", session: s})
	require.Equal(t, http.StatusOK, rec.Code)
	for _, c := range rec.Result().Cookies() {
		assert.Equal(t, -1, c.MaxAge, c.Name)
	}
}

func TestBearerClientsSkipCSRF(t *testing.T) {
	ts := newTestServer(t)
	s := ts.login(t, "admin@example.com")

	var token string
	for _, c := range s.cookies {
		if c.Name == auth.AuthCookieName {
			token = c.Value
		}
	}

	rec := ts.do(t, request{method: http.MethodPost, path: "/api/requirements", body: `{"title":"SSO"}`, bearer: token})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestRoleChecks(t *testing.T) {
	ts := newTestServer(t)
	s := ts.login(t, "user@example.com")

	for _, req := range []request{
		{method: http.MethodGet, path: "/api/users", session: s},
		{method: http.MethodGet, path: "/api/notes", session: s},
		{method: http.MethodGet, path: "/api/requirements", session: s},
		{method: http.MethodPost, path: "/api/tasks", body: `{"project_id":1,"title":"x"}`, session: s},
	} {
		rec := ts.do(t, req)
		assert.Equal(t, http.StatusForbidden, rec.Code, req.path)
		assert.Equal(t, "Forbidden", errorMessage(t, rec))
	}

	rec := ts.do(t, request{method: http.MethodGet, path: "/api/tasks", session: s})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, request{method: http.MethodGet, path: "/api/leads", session: s})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUsers_LastAdminAndSelfDelete(t *testing.T) {
	ts := newTestServer(t)
	s := ts.login(t, "admin@example.com")

	rec := ts.do(t, request{method: http.MethodDelete, path: "/api/users/" + itoa(ts.admin.ID), session: s})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Cannot delete your own account", errorMessage(t, rec))

	rec = ts.do(t, request{method: http.MethodPatch, path: "/api/users/" + itoa(ts.admin.ID), body: `{"role":"USER"}`, session: s})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "At least one admin account is required", errorMessage(t, rec))

	rec = ts.do(t, request{method: http.MethodDelete, path: "/api/users/999", session: s})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", errorMessage(t, rec))

	rec = ts.do(t, request{method: http.MethodDelete, path: "/api/users/" + itoa(ts.user.ID), session: s})
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUsers_SecondAdminCanBeRemoved(t *testing.T) {
	ts := newTestServer(t)
	s := ts.login(t, "admin@example.com")

	rec := ts.do(t, request{
		method:  http.MethodPost,
		path:    "/api/users",
		body:    `{"name":"Second","email":"second@example.com","password":"` + testPassword + `","role":"ADMIN"}`,
		session: s,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	second := decode[models.User](t, rec)
	assert.Equal(t, models.RoleAdmin, second.Role)

	rec = ts.do(t, request{method: http.MethodDelete, path: "/api/users/" + itoa(second.ID), session: s})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	n, err := ts.stores.Users.CountAdmins(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUsers_CreateValidationAndConflict(t *testing.T) {
	ts := newTestServer(t)
	s := ts.login(t, "admin@example.com")

	rec := ts.do(t, request{
		method:  http.MethodPost,
		path:    "/api/users",
		body:    `{"name":"Weak","email":"weak@example.com","password":"password","role":"USER"}`,
		session: s,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid payload: name, email, strong password and role are required", errorMessage(t, rec))

	rec = ts.do(t, request{
		method:  http.MethodPost,
		path:    "/api/users",
		body:    `{"name":"Dup","email":"USER@example.com","password":"` + testPassword + `","role":"USER"}`,
		session: s,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Email already in use", errorMessage(t, rec))
}

func TestProjectsAndTasks(t *testing.T) {
	ts := newTestServer(t)
	s := ts.login(t, "admin@example.com")

	rec := ts.do(t, request{method: http.MethodPost, path: "/api/projects", body: `{"description":"no name"}`, session: s})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name is required", errorMessage(t, rec))

	rec = ts.do(t, request{method: http.MethodPost, path: "/api/projects", body: `{"name":"Alpha","status":"PAUSED"}`, session: s})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid status", errorMessage(t, rec))

	rec = ts.do(t, request{method: http.MethodPost, path: "/api/projects", body: `{"name":"Alpha"}`, session: s})
	require.Equal(t, http.StatusCreated, rec.Code)
	project := decode[models.Project](t, rec)
	pid := itoa(project.ID)

	rec = ts.do(t, request{method: http.MethodPost, path: "/api/tasks", body: `{"title":"no project"}`, session: s})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "project_id and title are required", errorMessage(t, rec))

	rec = ts.do(t, request{method: http.MethodPost, path: "/api/tasks", body: `{"project_id":` + pid + `,"title":"Draft","due_date":"2025-07-01","assigned_to":` + itoa(ts.user.ID) + `}`, session: s})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	task := decode[models.Task](t, rec)
	assert.Equal(t, models.PriorityMedium, task.Priority)

	rec = ts.do(t, request{method: http.MethodPatch, path: "/api/tasks/" + itoa(task.ID), body: `{"assigned_to":null,"status":"DONE"}`, session: s})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[models.Task](t, rec)
	assert.Nil(t, updated.AssignedTo)
	assert.Equal(t, models.TaskDone, updated.Status)

	rec = ts.do(t, request{method: http.MethodPut, path: "/api/tasks/" + itoa(task.ID), body: `{}`, session: s})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No changes provided", errorMessage(t, rec))

	rec = ts.do(t, request{method: http.MethodGet, path: "/api/projects/" + pid + "/tasks", session: s})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Task](t, rec), 1)

	rec = ts.do(t, request{method: http.MethodGet, path: "/api/projects/abc", session: s})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid id", errorMessage(t, rec))

	rec = ts.do(t, request{method: http.MethodDelete, path: "/api/projects/" + pid, session: s})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, request{method: http.MethodGet, path: "/api/tasks/" + itoa(task.ID), session: s})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, request{method: http.MethodGet, path: "/api/projects/" + pid + "/tasks", session: s})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLeadsNotesRequirements(t *testing.T) {
	ts := newTestServer(t)
	s := ts.login(t, "admin@example.com")

	rec := ts.do(t, request{method: http.MethodPost, path: "/api/leads", body: `{"name":"Acme","email":"bad"}`, session: s})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid email", errorMessage(t, rec))

	rec = ts.do(t, request{method: http.MethodPost, path: "/api/leads", body: `{"name":"Acme","phone":"555"}`, session: s})
	require.Equal(t, http.StatusCreated, rec.Code)
	lead := decode[models.Lead](t, rec)

	rec = ts.do(t, request{method: http.MethodPatch, path: "/api/leads/" + itoa(lead.ID), body: `{"phone":""}`, session: s})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[models.Lead](t, rec).Phone)

	rec = ts.do(t, request{method: http.MethodPost, path: "/api/notes", body: `{"title":"Kickoff"}`, session: s})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "title and content are required", errorMessage(t, rec))

	rec = ts.do(t, request{method: http.MethodPost, path: "/api/notes", body: `{"title":"Kickoff","content":"Agenda"}`, session: s})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, request{method: http.MethodPost, path: "/api/requirements", body: `{"title":"SSO","status":"OPEN"}`, session: s})
	require.Equal(t, http.StatusCreated, rec.Code)
	req := decode[models.Requirement](t, rec)

	rec = ts.do(t, request{method: http.MethodDelete, path: "/api/requirements/" + itoa(req.ID), session: s})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.do(t, request{method: http.MethodDelete, path: "/api/requirements/" + itoa(req.ID), session: s})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndHeaders(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, request{method: http.MethodGet, path: "/health"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ok", body["database"])
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = ts.do(t, request{method: http.MethodGet, path: "/api/nothing-here"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name    string
		method  string
		headers string
	}{
		{name: "csrf header", method: http.MethodPost, headers: "x-csrf-token"},
		{name: "json mutation", method: http.MethodPatch, headers: "content-type,x-csrf-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodOptions, "http://api.example.com/api/projects/1", nil)
			r.Header.Set("Origin", testOrigin)
			r.Header.Set("Access-Control-Request-Method", tt.method)
			r.Header.Set("Access-Control-Request-Headers", tt.headers)
			rec := httptest.NewRecorder()
			ts.handler.ServeHTTP(rec, r)

			assert.Equal(t, testOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
			assert.Equal(t, tt.method, rec.Header().Get("Access-Control-Allow-Methods"))
		})
	}

	r := httptest.NewRequest(http.MethodOptions, "http://api.example.com/api/projects", nil)
	r.Header.Set("Origin", "https://attacker.example")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, r)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
