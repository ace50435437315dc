package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"runtime/debug"

	"allmanager/internal/httputil"
)

// Recovery turns a handler panic into a 500 JSON error.
//
// It sits outside RequestLogger, so the request id is read back from the
// response header that RequestLogger already set. When the handler had started
// writing before panicking, the partial response is left alone.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				logger.Error("handler panic",
					"panic", v,
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", w.Header().Get(RequestIDHeader),
					"response_started", rec.status != 0,
					"stack", string(bytes.TrimSpace(debug.Stack())),
				)
				if rec.status == 0 {
					httputil.RespondError(w, http.StatusInternalServerError, "Internal server error")
				}
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
