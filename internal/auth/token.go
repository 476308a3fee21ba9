package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCredential covers every token or login failure. Callers must not learn which check failed.
var ErrInvalidCredential = errors.New("invalid credential")

var supportedAlgorithms = []string{"HS256", "HS384", "HS512"}

type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type TokenIssuer struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	Now    func() time.Time
}

func NewTokenIssuer(secret, algorithm string, ttl time.Duration) (*TokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive")
	}
	if algorithm == "" {
		algorithm = "HS256"
	}
	method := jwt.GetSigningMethod(algorithm)
	if method == nil || !isSupported(algorithm) {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &TokenIssuer{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		Now:    time.Now,
	}, nil
}

func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

// Issue signs a token for subject valid for the configured ttl.
func (t *TokenIssuer) Issue(subject string) (string, time.Time, error) {
	if strings.TrimSpace(subject) == "" {
		return "", time.Time{}, fmt.Errorf("subject is required")
	}
	now := t.Now().UTC()
	expiresAt := now.Add(t.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(t.method, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate checks signature, algorithm and expiry.
func (t *TokenIssuer) Validate(token string) (*Claims, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{t.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.Now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidCredential
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidCredential
	}
	out := &Claims{Subject: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

func isSupported(alg string) bool {
	for _, a := range supportedAlgorithms {
		if a == alg {
			return true
		}
	}
	return false
}
