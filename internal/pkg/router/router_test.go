package router_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lalitjoshi007/FMT/internal/pkg/router"
	"github.com/stretchr/testify/assert"
)

func TestHandle(t *testing.T) {
	tbl := []struct {
		method       string
		pattern      string
		path         string
		responseBody string
		status       int
	}{
		{"GET", "/hello", "/hello", "ok", http.StatusOK},
		{"GET", "hello", "/hello", "no slash", http.StatusOK},
		{"POST", "POST /token", "/token", "token", http.StatusOK},
		{"GET", "GET me", "/me", "me", http.StatusOK},
		{"DELETE", "/hello", "/hello", "forbidden", http.StatusForbidden},
	}

	for i, c := range tbl {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			r := router.New()
			r.Handle(c.pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(c.status)
				fmt.Fprint(w, c.responseBody)
			}))

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(c.method, c.path, strings.NewReader("")))

			assert.Equal(t, c.status, rec.Code)
			assert.Equal(t, c.responseBody, rec.Body.String())
		})
	}
}

func TestHandle_MethodNotAllowed(t *testing.T) {
	r := router.New()
	r.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/token", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandle_NotFound(t *testing.T) {
	r := router.New()
	r.HandleFunc("/hello", func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMiddleware(t *testing.T) {
	r := router.New()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Custom-Header", "value-123")
			next.ServeHTTP(w, r)
		})
	})

	r.HandleFunc("/test", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "testing middleware")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/test", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "testing middleware", rec.Body.String())
	assert.Equal(t, "value-123", rec.Header().Get("X-Custom-Header"))
}

func TestMiddleware_Order(t *testing.T) {
	r := router.New()

	callOrder := make(chan int, 3)
	record := func(n int) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				callOrder <- n
				next.ServeHTTP(w, r)
			})
		}
	}

	r.Use(record(1), record(2))
	r.HandleFunc("/test", func(w http.ResponseWriter, r *http.Request) {}, record(3))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/test", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	close(callOrder)
	assert.Equal(t, 1, <-callOrder)
	assert.Equal(t, 2, <-callOrder)
	assert.Equal(t, 3, <-callOrder)
}

func TestRouteMiddleware_OnlyOnItsRoute(t *testing.T) {
	r := router.New()
	block := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
	}

	r.HandleFunc("GET /open", func(w http.ResponseWriter, r *http.Request) {})
	r.HandleFunc("GET /closed", func(w http.ResponseWriter, r *http.Request) {}, block)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/open", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/closed", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
