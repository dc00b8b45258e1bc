// Package token validates the bearer tokens minted by the signup/login path.
// Only validation lives here; issuance is out of this service's scope.
package token

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature, wrong
// algorithm, expiry, or a missing subject.
var ErrInvalidToken = errors.New("token: invalid")

// Validator verifies HMAC-signed JWTs and extracts the subject vanity.
type Validator struct {
	signingKey []byte
}

// NewValidator builds a Validator around the shared signing key.
func NewValidator(signingKey string) *Validator {
	return &Validator{signingKey: []byte(signingKey)}
}

// Validate checks the token signature and claims and returns the vanity the
// token was issued for.
func (v *Validator) Validate(tokenString string) (string, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.signingKey, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", ErrInvalidToken
	}
	return subject, nil
}
