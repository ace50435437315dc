package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"allmanager/internal/domain"
	"allmanager/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Typed domain errors
// carry their own message; bare sentinels get a generic one. Anything else
// is logged and reported as 500.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var rateErr *domain.RateLimitError
	if errors.As(err, &rateErr) {
		w.Header().Set("Retry-After", strconv.FormatInt(rateErr.RetryAfterSeconds(), 10))
		httputil.RespondError(w, http.StatusTooManyRequests, rateErr.Message)
		return
	}

	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrPayloadTooLarge):
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, "Payload too large")
	case errors.Is(err, domain.ErrUnsupportedMediaType):
		httputil.RespondError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request")
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, "Conflict")
	default:
		logger.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", httputil.RequestID(r.Context()),
		)
		httputil.RespondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
