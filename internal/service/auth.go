package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lalitjoshi007/FMT/internal/pkg/serr"
	"github.com/lalitjoshi007/FMT/internal/store"
)

const (
	DefaultAccessTTL = 30 * time.Minute
	TokenTypeBearer  = "bearer"

	signupCompletedMessage = "Profile completed and user signed in successfully"
)

var (
	ErrProviderMismatch = errors.New("provider mismatch")
	ErrUserNotFound     = errors.New("user not found")
	ErrUnknownProvider  = errors.New("unknown provider")
)

// tokenIssuer issues signed access tokens for a subject
type tokenIssuer interface {
	Issue(subject string, ttl time.Duration) (string, error)
}

// providerRegistry reports whether an identity provider is accepted
type providerRegistry interface {
	Lookup(name string) error
}

type recorder interface {
	TokenIssued(provider string)
	UserCreated()
	SignupCompleted()
}

type noopRecorder struct{}

func (noopRecorder) TokenIssued(string) {}
func (noopRecorder) UserCreated()       {}
func (noopRecorder) SignupCompleted()   {}

// Auth implements social-login token issuance and profile completion
type Auth struct {
	store     store.Store
	tokens    tokenIssuer
	providers providerRegistry
	metrics   recorder
	accessTTL time.Duration
	now       func() time.Time
}

// AuthOption defines a functional option for configuring the Auth service
type AuthOption func(*Auth) *Auth

func WithStore(st store.Store) AuthOption {
	return func(s *Auth) *Auth {
		s.store = st
		return s
	}
}

func WithTokens(iss tokenIssuer) AuthOption {
	return func(s *Auth) *Auth {
		s.tokens = iss
		return s
	}
}

func WithProviders(p providerRegistry) AuthOption {
	return func(s *Auth) *Auth {
		s.providers = p
		return s
	}
}

func WithAccessTTL(ttl time.Duration) AuthOption {
	return func(s *Auth) *Auth {
		s.accessTTL = ttl
		return s
	}
}

func WithMetrics(r recorder) AuthOption {
	return func(s *Auth) *Auth {
		s.metrics = r
		return s
	}
}

func WithClock(now func() time.Time) AuthOption {
	return func(s *Auth) *Auth {
		s.now = now
		return s
	}
}

// NewAuth creates a new Auth service with the provided options
func NewAuth(opts ...AuthOption) *Auth {
	s := &Auth{
		metrics:   noopRecorder{},
		accessTTL: DefaultAccessTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		s = opt(s)
	}

	if s.store == nil {
		panic("store is required")
	}

	if s.tokens == nil {
		panic("token issuer is required")
	}

	if s.providers == nil {
		panic("provider registry is required")
	}

	return s
}

type IssueTokenRequest struct {
	Email    string
	Provider string
}

type TokenResponse struct {
	AccessToken string
	TokenType   string
}

// IssueToken signs in a user asserted by an identity provider. The first login for an
// email creates a partial record bound to that provider.
func (s *Auth) IssueToken(ctx context.Context, r IssueTokenRequest) (TokenResponse, error) {
	if err := s.providers.Lookup(r.Provider); err != nil {
		sErr := serr.NewServiceError(fmt.Errorf("%w: %w", ErrUnknownProvider, err), http.StatusBadRequest, "Unsupported provider")
		sErr.Env["provider"] = r.Provider
		return TokenResponse{}, sErr
	}

	usr, err := s.getOrCreateUser(ctx, r)
	if err != nil {
		return TokenResponse{}, err
	}

	if usr.Provider != r.Provider {
		return TokenResponse{}, providerMismatch(r.Email, usr.Provider, r.Provider)
	}

	at, err := s.tokens.Issue(usr.Email, s.accessTTL)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("issue access token: %w", err)
	}

	s.metrics.TokenIssued(r.Provider)
	return TokenResponse{
		AccessToken: at,
		TokenType:   TokenTypeBearer,
	}, nil
}

func (s *Auth) getOrCreateUser(ctx context.Context, r IssueTokenRequest) (store.User, error) {
	usr, err := s.store.FindByEmail(ctx, r.Email)
	if err == nil {
		return usr, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return store.User{}, fmt.Errorf("find user: %w", err)
	}

	usr, err = s.store.CreatePartial(ctx, store.CreatePartialRequest{
		Email:     r.Email,
		Provider:  r.Provider,
		CreatedAt: s.now(),
	})
	if err == nil {
		s.metrics.UserCreated()
		return usr, nil
	}
	if !errors.Is(err, store.ErrDuplicateKey) {
		return store.User{}, fmt.Errorf("create user: %w", err)
	}

	// lost a concurrent first login; the winner's record is authoritative
	usr, rErr := s.store.FindByEmail(ctx, r.Email)
	if rErr != nil {
		sErr := serr.NewServiceError(errors.Join(err, rErr), http.StatusConflict, "User already exists")
		sErr.Env["email"] = r.Email
		return store.User{}, sErr
	}

	return usr, nil
}

type CompleteSignupRequest struct {
	Email   string
	Profile store.Profile
}

// CompleteSignup merges the supplied profile fields into an existing record and marks
// the profile complete.
func (s *Auth) CompleteSignup(ctx context.Context, r CompleteSignupRequest) (string, error) {
	usr, err := s.findUser(ctx, r.Email)
	if err != nil {
		return "", err
	}

	if p := r.Profile.Provider; p != nil && *p != usr.Provider {
		return "", providerMismatch(r.Email, usr.Provider, *p)
	}

	err = s.store.MergeUpdate(ctx, store.MergeUpdateRequest{
		Email:   r.Email,
		Profile: r.Profile,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", userNotFound(err, r.Email)
		}
		return "", fmt.Errorf("merge profile: %w", err)
	}

	s.metrics.SignupCompleted()
	return signupCompletedMessage, nil
}

// CurrentUser returns the record of the authenticated subject
func (s *Auth) CurrentUser(ctx context.Context, email string) (store.User, error) {
	return s.findUser(ctx, email)
}

func (s *Auth) findUser(ctx context.Context, email string) (store.User, error) {
	usr, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.User{}, userNotFound(err, email)
		}
		return store.User{}, fmt.Errorf("find user: %w", err)
	}

	return usr, nil
}

func userNotFound(err error, email string) error {
	sErr := serr.NewServiceError(fmt.Errorf("%w: %w", ErrUserNotFound, err), http.StatusNotFound, "User not found")
	sErr.Env["email"] = email
	return sErr
}

func providerMismatch(email, stored, requested string) error {
	sErr := serr.NewServiceError(ErrProviderMismatch, http.StatusBadRequest, "Provider mismatch")
	sErr.Env["email"] = email
	sErr.Env["stored_provider"] = stored
	sErr.Env["provider"] = requested
	return sErr
}
