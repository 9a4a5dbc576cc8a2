package domain

import (
	"strings"
	"time"
)

// User models an authenticated actor of the clinic: an administrator, a
// doctor or a patient.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          Role      `json:"role"`
	PasswordHash  string    `json:"-"`
	IsActive      bool      `json:"isActive"`
	SecurityStamp int64     `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Sanitized returns a copy of u that is safe to hand to callers outside the
// core: the password hash is cleared.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	return &clone
}

// NormalizeEmail trims and lower-cases an address so that lookups and the
// uniqueness constraint are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
