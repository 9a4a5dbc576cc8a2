package ports

import (
	"time"

	"github.com/clinicflow/clinic-api/internal/core/domain"
)

// PasswordHasher computes and checks one-way salted password hashes.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify never fails loudly: a malformed hash simply does not match.
	Verify(plaintext, hash string) bool
}

// TokenClaims is the verified content of a bearer token.
type TokenClaims struct {
	TokenID       string
	UserID        string
	Role          domain.Role
	SecurityStamp int64
	IssuedAt      time.Time
	ExpiresAt     time.Time
}

// TokenIssuer signs and verifies bearer tokens. Verify returns a
// *domain.TokenError on rejection.
type TokenIssuer interface {
	Issue(user *domain.User, ttl time.Duration) (string, *TokenClaims, error)
	Verify(token string) (*TokenClaims, error)
}

// AuditRecorder accepts audit events without blocking the caller.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}
