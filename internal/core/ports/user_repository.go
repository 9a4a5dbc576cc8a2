package ports

import (
	"context"
	"time"

	"github.com/clinicflow/clinic-api/internal/core/domain"
)

// UserRepository is the Credential Store. Implementations return
// domain.ErrUserNotFound for unknown ids and domain.ErrEmailTaken when a
// write would violate email uniqueness. Every returned User carries its
// password hash; stripping it is the caller's job.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail expects an already normalized address.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns every user, most recently created first.
	List(ctx context.Context) ([]*domain.User, error)
	// Update applies changes to an existing user and returns the stored
	// record. It never writes is_active or the security stamp directly, so a
	// concurrent ToggleActive cannot be undone by it.
	Update(ctx context.Context, id string, changes UserChanges) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	// ToggleActive atomically flips is_active. Deactivation also bumps the
	// security stamp.
	ToggleActive(ctx context.Context, id string) (*domain.User, error)
}

// UserChanges lists the fields an update may set. Nil fields keep their
// stored value. A non-nil PasswordHash also increments the security stamp.
type UserChanges struct {
	Name         *string
	Email        *string
	Role         *domain.Role
	PasswordHash *string
	UpdatedAt    time.Time
}

// AuditRepository persists audit events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuditEvent) error
}

// RevocationList tracks bearer tokens that were explicitly logged out.
type RevocationList interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}
