// Package credentials compares and rotates account password hashes.
// The plaintext never leaves this package.
package credentials

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	dErrors "github.com/l31-dev/Autha/pkg/domain-errors"
)

// Verifier hashes passwords for storage and checks candidates against
// stored digests.
type Verifier struct {
	cost int
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithCost overrides the bcrypt cost (tests use bcrypt.MinCost).
func WithCost(cost int) VerifierOption {
	return func(v *Verifier) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			v.cost = cost
		}
	}
}

// NewVerifier constructs a bcrypt-backed Verifier at the default cost.
func NewVerifier(opts ...VerifierOption) *Verifier {
	v := &Verifier{cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// Hash creates a salted digest of the provided password.
func (v *Verifier) Hash(password string) (string, error) {
	if password == "" {
		return "", dErrors.NewField(dErrors.CodeValidation, "password", "password cannot be empty")
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), v.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.NewField(dErrors.CodeValidation, "password", "password is too long")
		}
		return "", fmt.Errorf("could not hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether candidate matches the stored digest.
func (v *Verifier) Verify(digest, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(candidate)) == nil
}
