package ports

import (
	"context"

	"github.com/clinicflow/clinic-api/internal/core/domain"
)

// SessionKind selects the lifetime of a token issued at login.
type SessionKind int

const (
	// SessionInteractive is a browser login.
	SessionInteractive SessionKind = iota
	// SessionService is the long-lived login used by service and test tooling.
	SessionService
)

type LoginInput struct {
	Email    string
	Password string
	Kind     SessionKind
}

type LoginResult struct {
	Token string
	User  *domain.User
}

// Identity is the authenticated caller attached to a request.
type Identity struct {
	User   *domain.User
	Claims *TokenClaims
}

type UpdateProfileInput struct {
	Name            string `validate:"required,max=100"`
	Email           string `validate:"required,email,max=254"`
	CurrentPassword string
	NewPassword     string `validate:"omitempty,min=6,maxbytes=72"`
}

// ProfileResult is returned by UpdateProfile. Token is set only when the
// password changed, because that invalidates every token issued before.
type ProfileResult struct {
	User  *domain.User
	Token string
}

type AuthService interface {
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	ResolveIdentity(ctx context.Context, token string) (*Identity, error)
	UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*ProfileResult, error)
	Logout(ctx context.Context, identity *Identity) error
}
