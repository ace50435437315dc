package auth

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"
)

const (
	// AuthCookieName holds the session token (HttpOnly).
	AuthCookieName = "am_auth"
	// CSRFCookieName holds the double-submit token, readable by scripts.
	CSRFCookieName = "am_csrf"
	// CSRFHeader must echo the CSRF cookie on mutating requests.
	CSRFHeader = "X-CSRF-Token"
)

// NewCSRFToken returns 24 random bytes, hex encoded.
func NewCSRFToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// SetSessionCookies writes the session and CSRF cookies.
func SetSessionCookies(w http.ResponseWriter, token, csrfToken string, ttl time.Duration, secure bool) {
	maxAge := int(ttl.Seconds())
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    csrfToken,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: false,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSessionCookies expires both cookies.
func ClearSessionCookies(w http.ResponseWriter, secure bool) {
	for _, c := range []struct {
		name     string
		httpOnly bool
	}{
		{AuthCookieName, true},
		{CSRFCookieName, false},
	} {
		http.SetCookie(w, &http.Cookie{
			Name:     c.name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
			HttpOnly: c.httpOnly,
			Secure:   secure,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
