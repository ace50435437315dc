package handler

import (
	"log/slog"
	"net/http"
	"time"

	"allmanager/internal/auth"
	"allmanager/internal/domain"
	"allmanager/internal/domain/models"
	"allmanager/internal/domain/services"
	"allmanager/internal/httputil"
)

// AuthHandler handles login, logout and session lookups
type AuthHandler struct {
	authService  services.AuthService
	sessionTTL   time.Duration
	secureAlways bool
	trustProxy   bool
	logger       *slog.Logger
}

// NewAuthHandler creates a new auth handler. secureAlways forces the Secure
// cookie attribute (prod); otherwise it follows the request scheme.
func NewAuthHandler(authService services.AuthService, sessionTTL time.Duration, secureAlways, trustProxy bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		sessionTTL:   sessionTTL,
		secureAlways: secureAlways,
		trustProxy:   trustProxy,
		logger:       logger,
	}
}

type loginBody struct {
	Email    any `json:"email"`
	Password any `json:"password"`
}

type sessionResponse struct {
	User models.UserSummary `json:"user"`
}

func (h *AuthHandler) secure(r *http.Request) bool {
	return h.secureAlways || httputil.IsHTTPS(r, h.trustProxy)
}

// Login verifies credentials and sets the session and CSRF cookies
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body loginBody
	if !readJSON(w, r, h.logger, &body) {
		return
	}
	email, _ := body.Email.(string)
	password, _ := body.Password.(string)
	if email == "" || password == "" {
		handleError(w, r, h.logger, &domain.ValidationError{Message: "Email and password are required"})
		return
	}

	result, err := h.authService.Login(r.Context(), &services.LoginRequest{
		Email:    email,
		Password: password,
		ClientIP: httputil.ClientIP(r, h.trustProxy),
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	csrfToken, err := auth.NewCSRFToken()
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	auth.SetSessionCookies(w, result.Token, csrfToken, h.sessionTTL, h.secure(r))
	httputil.RespondJSON(w, http.StatusOK, sessionResponse{User: result.User})
}

// Logout clears the session cookies. Origin and CSRF checks run in middleware.
// POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if p := principal(r); p != nil {
		h.logger.Info("user logged out", "user_id", p.UserID)
	}
	auth.ClearSessionCookies(w, h.secure(r))
	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Session returns the signed-in user
// GET /api/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.Session(r.Context(), principal(r))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, sessionResponse{User: user.Summary()})
}
