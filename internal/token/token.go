// Package token issues and verifies the signed, time-limited tokens used
// for sessions, email verification, and password resets. Tokens are
// self-contained HS256 JWTs; nothing is persisted server-side.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Purpose tags a token with the single operation it is valid for.
// A token issued for one purpose never verifies for another.
type Purpose string

const (
	PurposeSession           Purpose = "session"
	PurposeEmailVerification Purpose = "email_verification"
	PurposePasswordReset     Purpose = "password_reset"
)

// ErrInvalidToken is returned for any verification failure: bad signature,
// malformed token, expiry, or purpose mismatch. Callers are not told which.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the JWT claim set carried by every Mintleaf token.
type Claims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// Config holds the signing key and per-purpose lifetimes.
type Config struct {
	Secret        string
	SessionTTL    time.Duration // minutes-scale
	EmailTokenTTL time.Duration // hours-scale, shared by verification and reset tokens
}

// Service issues and verifies purpose-tagged tokens.
type Service struct {
	secret []byte
	ttls   map[Purpose]time.Duration
}

// NewService creates a Service from explicit configuration.
func NewService(cfg Config) *Service {
	return &Service{
		secret: []byte(cfg.Secret),
		ttls: map[Purpose]time.Duration{
			PurposeSession:           cfg.SessionTTL,
			PurposeEmailVerification: cfg.EmailTokenTTL,
			PurposePasswordReset:     cfg.EmailTokenTTL,
		},
	}
}

// Issue creates a signed token for the subject, valid for the purpose's
// configured lifetime.
func (s *Service) Issue(subject string, purpose Purpose) (string, error) {
	now := time.Now()
	claims := &Claims{
		Type: string(purpose),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttls[purpose])),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "mintleaf-api",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses a token and returns its subject. It fails with
// ErrInvalidToken if the signature does not verify, the token is malformed
// or expired, or the embedded purpose does not match the expected one.
func (s *Service) Verify(tokenString string, purpose Purpose) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Type != string(purpose) || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
