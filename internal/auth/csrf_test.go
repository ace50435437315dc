package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allmanager/internal/domain"
)

func TestValidateCSRF(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		cookie  string
		wantMsg string
	}{
		{name: "match", header: "abc123", cookie: "abc123"},
		{name: "missing header", cookie: "abc123", wantMsg: "CSRF token missing"},
		{name: "missing cookie", header: "abc123", wantMsg: "CSRF token missing"},
		{name: "length mismatch", header: "abc", cookie: "abc123", wantMsg: "CSRF token invalid"},
		{name: "value mismatch", header: "abc124", cookie: "abc123", wantMsg: "CSRF token invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/projects", nil)
			if tt.header != "" {
				r.Header.Set(CSRFHeader, tt.header)
			}
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: tt.cookie})
			}

			err := ValidateCSRF(r)

			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, domain.ErrForbidden)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestValidateSameOrigin(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		origin  string
		wantErr error
		wantMsg string
	}{
		{name: "same origin", host: "app.example.com", origin: "https://app.example.com"},
		{name: "same origin with port", host: "localhost:8080", origin: "http://localhost:8080"},
		{name: "missing host", host: "", origin: "https://app.example.com", wantErr: domain.ErrValidation, wantMsg: "Invalid host"},
		{name: "missing origin", host: "app.example.com", wantErr: domain.ErrForbidden, wantMsg: "Missing origin"},
		{name: "unparseable origin", host: "app.example.com", origin: "::not a url", wantErr: domain.ErrForbidden, wantMsg: "Invalid origin"},
		{name: "cross origin", host: "app.example.com", origin: "https://evil.example.com", wantErr: domain.ErrForbidden, wantMsg: "Cross-origin request blocked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
			r.Host = tt.host
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}

			err := ValidateSameOrigin(r)

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestSessionCookies(t *testing.T) {
	w := httptest.NewRecorder()
	SetSessionCookies(w, "jwt-value", "csrf-value", 8*time.Hour, true)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)

	session, csrf := cookies[0], cookies[1]
	assert.Equal(t, AuthCookieName, session.Name)
	assert.True(t, session.HttpOnly)
	assert.True(t, session.Secure)
	assert.Equal(t, http.SameSiteStrictMode, session.SameSite)
	assert.Equal(t, 8*60*60, session.MaxAge)
	assert.Equal(t, "/", session.Path)

	assert.Equal(t, CSRFCookieName, csrf.Name)
	assert.Equal(t, "csrf-value", csrf.Value)
	assert.False(t, csrf.HttpOnly)

	w = httptest.NewRecorder()
	ClearSessionCookies(w, false)
	for _, c := range w.Result().Cookies() {
		assert.Empty(t, c.Value)
		assert.Equal(t, -1, c.MaxAge)
	}
}

func TestNewCSRFToken(t *testing.T) {
	a, err := NewCSRFToken()
	require.NoError(t, err)
	b, err := NewCSRFToken()
	require.NoError(t, err)

	assert.Len(t, a, 48)
	assert.NotEqual(t, a, b)
}
