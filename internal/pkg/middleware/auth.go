package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/lalitjoshi007/FMT/internal/pkg/httpx"
	"github.com/lalitjoshi007/FMT/internal/pkg/router"
	"github.com/lalitjoshi007/FMT/internal/pkg/serr"
)

var errNoBearer = errors.New("missing bearer token")

type subjectKey struct{}

type tokenValidator interface {
	Validate(token string) (string, error)
}

// Auth requires an "Authorization: Bearer <token>" header that v accepts. The token's
// subject is stored in the request context; rejected requests never reach next.
func Auth(v tokenValidator) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				httpx.HandleErr(w, r, serr.NewServiceError(errNoBearer, http.StatusUnauthorized, "Not authenticated"))
				return
			}

			sub, err := v.Validate(raw)
			if err != nil {
				httpx.HandleErr(w, r, serr.NewServiceError(err, http.StatusUnauthorized, "Could not validate credentials"))
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey{}, sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func SubjectFromContext(ctx context.Context) string {
	sub, _ := ctx.Value(subjectKey{}).(string)
	return sub
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
