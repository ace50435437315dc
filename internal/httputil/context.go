package httputil

import (
	"context"
	"net/http"

	"allmanager/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	principalKey  contextKey = "principal"
	authSourceKey contextKey = "authSource"
	authErrorKey  contextKey = "authError"
	requestIDKey  contextKey = "requestID"
)

// AuthSource records where the session token was read from.
type AuthSource string

const (
	AuthSourceNone   AuthSource = ""
	AuthSourceBearer AuthSource = "bearer"
	AuthSourceCookie AuthSource = "cookie"
)

// WithPrincipal adds the authenticated caller to the request context.
func WithPrincipal(r *http.Request, p *models.Principal, source AuthSource) *http.Request {
	ctx := context.WithValue(r.Context(), principalKey, p)
	ctx = context.WithValue(ctx, authSourceKey, source)
	return r.WithContext(ctx)
}

// GetPrincipal retrieves the caller, or nil if the request is anonymous.
func GetPrincipal(r *http.Request) *models.Principal {
	p, _ := r.Context().Value(principalKey).(*models.Principal)
	return p
}

// GetAuthSource reports which credential authenticated the request.
func GetAuthSource(r *http.Request) AuthSource {
	s, _ := r.Context().Value(authSourceKey).(AuthSource)
	return s
}

// WithAuthError records that a token was presented but rejected.
func WithAuthError(r *http.Request, err error) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), authErrorKey, err))
}

// GetAuthError returns the token rejection recorded by WithAuthError.
func GetAuthError(r *http.Request) error {
	err, _ := r.Context().Value(authErrorKey).(error)
	return err
}

// WithRequestID stores the request id in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request id, or empty string if not set.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
