// Package crypto holds the password hashing adapter.
package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/clinicflow/clinic-api/internal/core/domain"
)

// maxPasswordBytes is the most input bcrypt reads; anything longer would be
// silently truncated.
const maxPasswordBytes = 72

// BcryptHasher hashes passwords with bcrypt. The salt and cost are embedded
// in the encoded hash, so nothing else has to be stored.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given work factor. Out-of-range
// values fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.NewValidationError(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify compares in constant time. Malformed hashes and inputs longer than
// bcrypt can hash report false.
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	if len(plaintext) > maxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
