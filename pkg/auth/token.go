// Package auth issues and verifies the bearer tokens that bind API callers to
// a device identity. Tokens are long-lived because a device registers once and
// keeps its token across app launches.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

type authError string

const (
	ErrInvalidToken = authError("invalid token")
	ErrTokenExpired = authError("token expired")
)

func (e authError) Error() string {
	return string(e)
}

// DefaultTokenLifetime matches the mobile client expectation of rare
// re-registration.
const DefaultTokenLifetime = 30 * 24 * time.Hour

// Issuer creates and verifies device tokens with a shared HMAC secret
type Issuer struct {
	secret   []byte
	lifetime time.Duration
}

// NewIssuer creates a token issuer. A zero lifetime falls back to
// DefaultTokenLifetime.
func NewIssuer(secret []byte, lifetime time.Duration) *Issuer {
	if lifetime == 0 {
		lifetime = DefaultTokenLifetime
	}

	return &Issuer{
		secret:   secret,
		lifetime: lifetime,
	}
}

// Issue produces a signed token whose subject is the given device identifier
func (i *Issuer) Issue(udid string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   udid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.lifetime)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Verify checks the token signature and expiry and returns the device
// identifier it was issued for.
func (i *Issuer) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
