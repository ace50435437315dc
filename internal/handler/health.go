package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"allmanager/internal/domain/repositories"
	"allmanager/internal/httputil"
)

const healthTimeout = 2 * time.Second

// HealthHandler reports process and database health
type HealthHandler struct {
	db     repositories.Pinger
	logger *slog.Logger
}

func NewHealthHandler(db repositories.Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// HealthCheck pings the store and answers 503 when it is unreachable
// GET /health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	status, database, code := "ok", "ok", http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("health check: database unavailable", "error", err)
		status, database, code = "degraded", "unavailable", http.StatusServiceUnavailable
	}

	httputil.RespondJSON(w, code, map[string]any{
		"status":   status,
		"database": database,
		"time":     time.Now().UTC(),
	})
}
