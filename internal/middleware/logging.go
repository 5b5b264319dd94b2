// Package middleware holds the HTTP middleware this server defines itself;
// everything else in the chain (request ids, panic recovery, CORS) comes
// from chi and go-chi/cors.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// responseWriter wraps http.ResponseWriter to remember the status code and
// body size after the handler returns — net/http exposes neither.
//
// WHY THE DEFAULT STATUS MATTERS:
// A handler that writes a body without ever calling WriteHeader gets an
// implicit 200 from net/http. The wrapper has to mirror that, or those
// requests would all be logged as status 0.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Logger logs one line per completed request: method, path, status,
// duration, response size, and the request id assigned upstream by
// chi's RequestID middleware (empty when that middleware isn't mounted,
// as in unit tests).
//
// The admin console and the contact form share this server, so the
// request id is what ties a member's bug report ("my inquiry vanished")
// to the exact log lines of the requests involved.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(wrapped, r)

			logger.Info("request completed",
				slog.String("request_id", chimiddleware.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", wrapped.statusCode),
				slog.Duration("duration", time.Since(start)),
				slog.Int64("bytes", wrapped.written),
			)
		})
	}
}
