package auth

import (
	"crypto/subtle"
	"net/http"
	"net/url"

	"allmanager/internal/domain"
)

// ValidateCSRF checks the double-submit pair: the X-CSRF-Token header must
// equal the am_csrf cookie.
func ValidateCSRF(r *http.Request) error {
	header := r.Header.Get(CSRFHeader)
	var cookie string
	if c, err := r.Cookie(CSRFCookieName); err == nil {
		cookie = c.Value
	}

	if header == "" || cookie == "" {
		return &domain.ForbiddenError{Message: "CSRF token missing"}
	}
	if len(header) != len(cookie) ||
		subtle.ConstantTimeCompare([]byte(header), []byte(cookie)) != 1 {
		return &domain.ForbiddenError{Message: "CSRF token invalid"}
	}
	return nil
}

// ValidateSameOrigin requires an Origin header whose host matches the Host header.
func ValidateSameOrigin(r *http.Request) error {
	host := r.Host
	if host == "" {
		return &domain.ValidationError{Message: "Invalid host"}
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		return &domain.ForbiddenError{Message: "Missing origin"}
	}

	u, err := url.Parse(origin)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &domain.ForbiddenError{Message: "Invalid origin"}
	}

	if u.Host != host {
		return &domain.ForbiddenError{Message: "Cross-origin request blocked"}
	}
	return nil
}

// IsMutation reports whether method changes state.
func IsMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
