package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"allmanager/internal/auth"
	"allmanager/internal/domain"
	"allmanager/internal/domain/models"
	"allmanager/internal/httputil"
)

// bearerToken returns the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// Authenticate resolves the session token from the Authorization header or
// the session cookie. It never rejects a request; RequireAuth does that.
func Authenticate(verifier auth.TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, source := bearerToken(r), httputil.AuthSourceBearer
			if token == "" {
				if c, err := r.Cookie(auth.AuthCookieName); err == nil && c.Value != "" {
					token, source = c.Value, httputil.AuthSourceCookie
				}
			}
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := verifier.Verify(token)
			if err != nil {
				logger.Debug("rejected session token",
					"source", source,
					"request_id", httputil.RequestID(r.Context()),
					"error", err,
				)
				next.ServeHTTP(w, httputil.WithAuthError(r, err))
				return
			}

			setLoggedUser(r.Context(), principal.UserID)
			next.ServeHTTP(w, httputil.WithPrincipal(r, principal, source))
		})
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if httputil.GetPrincipal(r) == nil {
			msg := "Unauthorized"
			if httputil.GetAuthError(r) != nil {
				msg = "Invalid token"
			}
			httputil.RespondError(w, http.StatusUnauthorized, msg)
			return
		}
		next(w, r)
	}
}

// RequireAdmin rejects anonymous requests with 401 and non-admins with 403.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if httputil.GetPrincipal(r).Role != models.RoleAdmin {
			httputil.RespondError(w, http.StatusForbidden, "Forbidden")
			return
		}
		next(w, r)
	})
}

// respondDomainError writes err using its status code, falling back to 500.
func respondDomainError(w http.ResponseWriter, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}
	httputil.RespondError(w, http.StatusInternalServerError, "Internal server error")
}
