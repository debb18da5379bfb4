package router

import (
	"net/http"
	"strings"
)

type Middleware func(next http.Handler) http.Handler

type Router struct {
	mux        *http.ServeMux
	middleware []Middleware
}

func New() *Router {
	return &Router{
		mux: http.NewServeMux(),
	}
}

func (rt *Router) Use(mw ...Middleware) {
	rt.middleware = append(rt.middleware, mw...)
}

// Handle registers handler for pattern. Patterns may carry a method prefix
// ("GET /me"); a missing leading slash on the path is added.
func (rt *Router) Handle(pattern string, handler http.Handler, mw ...Middleware) {
	rt.mux.Handle(normalize(pattern), Chain(handler, mw...))
}

func (rt *Router) HandleFunc(pattern string, handler func(http.ResponseWriter, *http.Request), mw ...Middleware) {
	rt.Handle(pattern, http.HandlerFunc(handler), mw...)
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	Chain(rt.mux, rt.middleware...).ServeHTTP(w, r)
}

// Chain wraps h so that mw[0] runs first.
func Chain(h http.Handler, mw ...Middleware) http.Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

func normalize(pattern string) string {
	method, path, ok := strings.Cut(pattern, " ")
	if !ok {
		path, method = pattern, ""
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	if method == "" {
		return path
	}
	return method + " " + path
}
