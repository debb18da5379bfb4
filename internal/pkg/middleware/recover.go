package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/lalitjoshi007/FMT/internal/pkg/httpx"
	"github.com/lalitjoshi007/FMT/internal/pkg/router"
)

func Recover() router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					slog.ErrorContext(r.Context(), "internal server error",
						"error", err,
						"method", r.Method,
						"url", r.URL.String(),
						"remote_addr", r.RemoteAddr,
						"request_id", RequestIDFromContext(r.Context()),
						"stack_trace", string(debug.Stack()),
					)

					httpx.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
