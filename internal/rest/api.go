package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/lalitjoshi007/FMT/internal/pkg/httpx"
	"github.com/lalitjoshi007/FMT/internal/pkg/middleware"
	"github.com/lalitjoshi007/FMT/internal/pkg/router"
	"github.com/lalitjoshi007/FMT/internal/pkg/serr"
	"github.com/lalitjoshi007/FMT/internal/service"
	"github.com/lalitjoshi007/FMT/internal/store"
)

var errInvalidEmail = errors.New("invalid email")

type authService interface {
	IssueToken(ctx context.Context, r service.IssueTokenRequest) (service.TokenResponse, error)
	CompleteSignup(ctx context.Context, r service.CompleteSignupRequest) (string, error)
	CurrentUser(ctx context.Context, email string) (store.User, error)
}

type tokenValidator interface {
	Validate(token string) (string, error)
}

type API struct {
	srv    authService
	router *router.Router
}

func NewAPI(srv authService, tokens tokenValidator) *API {
	api := &API{
		srv:    srv,
		router: router.New(),
	}
	api.mount(tokens)
	return api
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func (a *API) mount(tokens tokenValidator) {
	a.router.HandleFunc("POST /token", a.handleToken)
	a.router.HandleFunc("POST /signup", a.handleSignup)
	a.router.HandleFunc("GET /me", a.handleMe, middleware.Auth(tokens))
}

type tokenRequest struct {
	Email    string `json:"email"`
	Provider string `json:"provider"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (a *API) handleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.HandleErr(w, r, badRequest(err))
		return
	}

	email, err := normalizeEmail(req.Email)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	resp, err := a.srv.IssueToken(r.Context(), service.IssueTokenRequest{
		Email:    email,
		Provider: req.Provider,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err = httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: resp.AccessToken,
		TokenType:   resp.TokenType,
	})
	if err != nil {
		httpx.HandleErr(w, r, fmt.Errorf("write response json: %w", err))
		return
	}
}

// optionalString tells an absent key apart from an explicit null.
type optionalString struct {
	set   bool
	value *string
}

func (o *optionalString) UnmarshalJSON(b []byte) error {
	o.set = true
	return json.Unmarshal(b, &o.value)
}

func (o optionalString) field() store.Field {
	return store.Field{Set: o.set, Value: o.value}
}

// signupRequest leaves absent keys untouched. An explicit null clears a profile field,
// except provider, where null means not supplied.
type signupRequest struct {
	Email       string         `json:"email"`
	Username    optionalString `json:"username"`
	Name        optionalString `json:"name"`
	DateOfBirth optionalString `json:"date_of_birth"`
	Gender      optionalString `json:"gender"`
	Provider    *string        `json:"provider"`
}

type signupResponse struct {
	Message string `json:"message"`
}

func (a *API) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.HandleErr(w, r, badRequest(err))
		return
	}

	email, err := normalizeEmail(req.Email)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	msg, err := a.srv.CompleteSignup(r.Context(), service.CompleteSignupRequest{
		Email: email,
		Profile: store.Profile{
			Username:    req.Username.field(),
			Name:        req.Name.field(),
			DateOfBirth: req.DateOfBirth.field(),
			Gender:      req.Gender.field(),
			Provider:    req.Provider,
		},
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err = httpx.WriteJSON(w, http.StatusOK, signupResponse{Message: msg})
	if err != nil {
		httpx.HandleErr(w, r, fmt.Errorf("write response json: %w", err))
		return
	}
}

type userResponse struct {
	Email             string    `json:"email"`
	Username          *string   `json:"username,omitempty"`
	Name              *string   `json:"name,omitempty"`
	DateOfBirth       *string   `json:"date_of_birth,omitempty"`
	Gender            *string   `json:"gender,omitempty"`
	Provider          string    `json:"provider"`
	CreatedAt         time.Time `json:"created_at"`
	IsProfileComplete bool      `json:"is_profile_complete"`
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	email := middleware.SubjectFromContext(r.Context())

	usr, err := a.srv.CurrentUser(r.Context(), email)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err = httpx.WriteJSON(w, http.StatusOK, userResponse{
		Email:             usr.Email,
		Username:          usr.Username,
		Name:              usr.Name,
		DateOfBirth:       usr.DateOfBirth,
		Gender:            usr.Gender,
		Provider:          usr.Provider,
		CreatedAt:         usr.CreatedAt,
		IsProfileComplete: usr.IsProfileComplete,
	})
	if err != nil {
		httpx.HandleErr(w, r, fmt.Errorf("write response json: %w", err))
		return
	}
}

func badRequest(err error) error {
	return serr.NewServiceError(err, http.StatusBadRequest, "Invalid request body")
}

// normalizeEmail accepts only a bare address with a dotted domain, such as "a@x.com", and
// lowercases the domain. The local part is kept as sent.
func normalizeEmail(email string) (string, error) {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", invalidEmail(errors.Join(errInvalidEmail, err), email)
	}

	at := strings.LastIndex(email, "@")
	local, domain := email[:at], email[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return "", invalidEmail(errInvalidEmail, email)
	}

	return local + "@" + strings.ToLower(domain), nil
}

func invalidEmail(err error, email string) error {
	sErr := serr.NewServiceError(err, http.StatusBadRequest, "Invalid email address")
	sErr.Env["email"] = email
	return sErr
}
