// Package auth issues and verifies the bearer tokens of the JSON API.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is written into every token.
const Issuer = "businesscase"

var (
	ErrSecretMissing = errors.New("jwt secret not configured")
	ErrInvalidToken  = errors.New("invalid token")
)

// Principal is the authenticated caller.
type Principal struct {
	Subject string
	Scopes  []string
	Source  string
}

// Claims are the JWT claims used by the API.
type Claims struct {
	jwt.RegisteredClaims
	Scopes []string `json:"scopes,omitempty"`
}

// Issue signs an HS256 token for subject. A zero ttl means no expiry.
func Issue(secret, subject string, scopes []string, ttl time.Duration, now time.Time) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", ErrSecretMissing
	}
	if strings.TrimSpace(subject) == "" {
		return "", errors.New("subject required")
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   Issuer,
			Subject:  subject,
			IssuedAt: jwt.NewNumericDate(now),
		},
		Scopes: scopes,
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates an HS256 token.
func Verify(secret, token string) (Principal, error) {
	if strings.TrimSpace(secret) == "" {
		return Principal{}, ErrSecretMissing
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
	)
	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return Principal{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return Principal{}, fmt.Errorf("%w: subject claim required", ErrInvalidToken)
	}
	return Principal{Subject: claims.Subject, Scopes: claims.Scopes, Source: "jwt"}, nil
}
