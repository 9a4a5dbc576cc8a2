package ports

import (
	"context"

	"github.com/clinicflow/clinic-api/internal/core/domain"
)

// CreateUserInput carries the administrative creation payload. Role is the
// raw string from the request; an empty value means domain.DefaultRole.
type CreateUserInput struct {
	Name     string `validate:"required,max=100"`
	Email    string `validate:"required,email,max=254"`
	Role     string
	Password string `validate:"omitempty,min=6,maxbytes=72"`
}

// UpdateUserInput is a partial update: nil fields are left untouched.
type UpdateUserInput struct {
	Name     *string `validate:"omitempty,max=100"`
	Email    *string `validate:"omitempty,email,max=254"`
	Role     *string
	Password *string `validate:"omitempty,min=6,maxbytes=72"`
}

// SeedAdminInput describes the bootstrap administrator.
type SeedAdminInput struct {
	Name     string `validate:"required,max=100"`
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,maxbytes=72"`
}

// UserService is the administrative user-management use case. ActorID is
// the admin performing the call and only feeds the audit trail.
type UserService interface {
	Create(ctx context.Context, actorID string, in CreateUserInput) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, actorID, id string, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, actorID, id string) error
	ToggleActive(ctx context.Context, actorID, id string) (*domain.User, error)
	EnsureAdmin(ctx context.Context, in SeedAdminInput) (*domain.User, bool, error)
}
