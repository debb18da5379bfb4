package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is used when Issue is called without a positive ttl.
const DefaultTTL = 15 * time.Minute

var ErrInvalidToken = errors.New("invalid token")

// JwtIssuer signs and validates HMAC JWTs whose subject is the user's email.
type JwtIssuer struct {
	secret secretProvider
	method jwt.SigningMethod
	now    func() time.Time
}

type JwtConfig struct {
	Secret    secretProvider
	Algorithm string
}

type JwtOption func(*JwtIssuer)

// WithClock replaces the wall clock used for iat/exp and for expiry checks.
func WithClock(now func() time.Time) JwtOption {
	return func(ti *JwtIssuer) {
		ti.now = now
	}
}

func NewJWTIssuer(cfg JwtConfig, opts ...JwtOption) (*JwtIssuer, error) {
	if cfg.Secret == nil || len(cfg.Secret.Get()) == 0 {
		return nil, errors.New("jwt secret is empty")
	}

	alg := cfg.Algorithm
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}

	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", alg)
	}

	ti := &JwtIssuer{
		secret: cfg.Secret,
		method: method,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(ti)
	}

	return ti, nil
}

// Issue returns a signed token with sub=subject that expires after ttl.
func (ti *JwtIssuer) Issue(subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := ti.now()
	tk, err := jwt.NewWithClaims(ti.method, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}).SignedString(ti.secret.Get())
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tk, nil
}

// Validate checks signature and expiry and returns the token subject. All failures wrap
// ErrInvalidToken.
func (ti *JwtIssuer) Validate(token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return ti.secret.Get(), nil
	},
		jwt.WithValidMethods([]string{ti.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return claims.Subject, nil
}
