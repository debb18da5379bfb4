package middleware

import (
	"net/http"
	"time"

	"github.com/lalitjoshi007/FMT/internal/pkg/router"
)

type requestObserver interface {
	ObserveRequest(method, route string, status int, d time.Duration)
}

// Metrics reports every request to obs. It must be the innermost router middleware:
// the route label comes from the pattern the mux stores on the request.
func Metrics(obs requestObserver) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			statusWriter := newStatusWriter(w)
			t := time.Now()

			next.ServeHTTP(statusWriter, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			obs.ObserveRequest(r.Method, route, statusWriter.Status, time.Since(t))
		})
	}
}
