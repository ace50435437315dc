package handler

import (
	"log/slog"
	"net/http"

	"allmanager/internal/domain/models"
	"allmanager/internal/httputil"
)

// readID parses the {id} path value, writing a 400 on failure.
func readID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (int64, bool) {
	id, err := httputil.PathID(r)
	if err != nil {
		handleError(w, r, logger, err)
		return 0, false
	}
	return id, true
}

// readJSON decodes the request body into dest, writing the error response on failure.
func readJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dest interface{}) bool {
	if err := httputil.ParseJSON(w, r, dest); err != nil {
		handleError(w, r, logger, err)
		return false
	}
	return true
}

// principal returns the caller. Routes are wrapped in RequireAuth, so it is never nil.
func principal(r *http.Request) *models.Principal {
	return httputil.GetPrincipal(r)
}
