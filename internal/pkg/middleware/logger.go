package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/lalitjoshi007/FMT/internal/pkg/router"
)

func Log() router.Middleware {
	return LogWith(slog.Default())
}

// LogWith logs one line per request. 4xx responses are logged as warnings and 5xx as errors.
func LogWith(l *slog.Logger) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			statusWriter := newStatusWriter(w)
			t := time.Now()

			next.ServeHTTP(statusWriter, r)

			level := slog.LevelInfo
			switch {
			case statusWriter.Status >= http.StatusInternalServerError:
				level = slog.LevelError
			case statusWriter.Status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			l.Log(r.Context(), level, "request received",
				"time", t,
				"method", r.Method,
				"url", r.URL.String(),
				"ip", r.RemoteAddr,
				"status", statusWriter.Status,
				"duration_ms", time.Since(t).Milliseconds(),
				"request_id", RequestIDFromContext(r.Context()),
				"agent", r.UserAgent())
		})
	}
}
