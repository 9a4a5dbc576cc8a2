package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicflow/clinic-api/internal/core/domain"
	"github.com/clinicflow/clinic-api/internal/core/ports"
	"github.com/clinicflow/clinic-api/internal/pkg/validation"
)

// UserService implements administrative user management.
type UserService struct {
	repo     ports.UserRepository
	hasher   ports.PasswordHasher
	audit    ports.AuditRecorder
	validate *validation.Validator
	log      zerolog.Logger

	// defaultPasswords maps a role to the password given to accounts created
	// without one. Roles absent from the map require an explicit password.
	defaultPasswords map[domain.Role]string

	now func() time.Time
}

func NewUserService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	audit ports.AuditRecorder,
	defaultPasswords map[domain.Role]string,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		repo:             repo,
		hasher:           hasher,
		audit:            audit,
		validate:         validation.New(),
		log:              log,
		defaultPasswords: defaultPasswords,
		now:              time.Now,
	}
}

func (s *UserService) Create(ctx context.Context, actorID string, in ports.CreateUserInput) (*domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = domain.NormalizeEmail(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	role, err := assignableRole(in.Role)
	if err != nil {
		return nil, err
	}

	password := in.Password
	if password == "" {
		password = s.defaultPasswords[role]
	}
	if password == "" {
		return nil, domain.NewValidationError("password is required")
	}

	if err := ensureEmailFree(ctx, s.repo, in.Email, ""); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		Role:         role,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.record(domain.AuditUserCreate, actorID, created)
	s.log.Info().Str("user_id", created.ID).Str("role", role.String()).Str("actor_id", actorID).Msg("user created")

	return created.Sanitized(), nil
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Sanitized())
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

func (s *UserService) Update(ctx context.Context, actorID, id string, in ports.UpdateUserInput) (*domain.User, error) {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name cannot be empty")
		}
		in.Name = &name
	}
	if in.Email != nil {
		email := domain.NormalizeEmail(*in.Email)
		if email == "" {
			return nil, domain.NewValidationError("email cannot be empty")
		}
		in.Email = &email
	}
	if in.Role != nil && strings.TrimSpace(*in.Role) == "" {
		return nil, domain.NewValidationError("role cannot be empty")
	}
	if in.Password != nil && *in.Password == "" {
		in.Password = nil
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.managedUser(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := ports.UserChanges{
		Name:      in.Name,
		UpdatedAt: s.now().UTC(),
	}
	if in.Email != nil && *in.Email != user.Email {
		if err := ensureEmailFree(ctx, s.repo, *in.Email, user.ID); err != nil {
			return nil, err
		}
		changes.Email = in.Email
	}
	if in.Role != nil {
		role, err := assignableRole(*in.Role)
		if err != nil {
			return nil, err
		}
		changes.Role = &role
	}
	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		changes.PasswordHash = &hash
	}

	updated, err := s.repo.Update(ctx, user.ID, changes)
	if err != nil {
		return nil, err
	}

	s.record(domain.AuditUserUpdate, actorID, updated)
	return updated.Sanitized(), nil
}

func (s *UserService) Delete(ctx context.Context, actorID, id string) error {
	user, err := s.managedUser(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, user.ID); err != nil {
		return err
	}

	s.record(domain.AuditUserDelete, actorID, user)
	s.log.Info().Str("user_id", user.ID).Str("actor_id", actorID).Msg("user deleted")
	return nil
}

func (s *UserService) ToggleActive(ctx context.Context, actorID, id string) (*domain.User, error) {
	if _, err := s.managedUser(ctx, id); err != nil {
		return nil, err
	}

	updated, err := s.repo.ToggleActive(ctx, id)
	if err != nil {
		return nil, err
	}

	s.record(domain.AuditUserToggle, actorID, updated)
	s.log.Info().Str("user_id", updated.ID).Bool("is_active", updated.IsActive).Str("actor_id", actorID).Msg("user status toggled")
	return updated.Sanitized(), nil
}

// EnsureAdmin creates the bootstrap administrator unless an account with the
// same email already exists. The boolean reports whether a user was created.
func (s *UserService) EnsureAdmin(ctx context.Context, in ports.SeedAdminInput) (*domain.User, bool, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = domain.NormalizeEmail(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return nil, false, err
	}

	existing, err := s.repo.FindByEmail(ctx, in.Email)
	if err == nil {
		if existing.Role != domain.RoleAdmin {
			s.log.Warn().Str("email", in.Email).Str("role", existing.Role.String()).Msg("seed admin email belongs to a non-admin account")
		}
		return existing.Sanitized(), false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, fmt.Errorf("seed admin: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, false, err
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		Role:         domain.RoleAdmin,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, false, fmt.Errorf("seed admin: %w", err)
	}
	return created.Sanitized(), true, nil
}

// managedUser loads a user that the administrative path is allowed to touch.
// Admin accounts are never valid targets.
func (s *UserService) managedUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == domain.RoleAdmin {
		return nil, domain.ErrProtectedAccount
	}
	return user, nil
}

func (s *UserService) record(action domain.AuditAction, actorID string, subject *domain.User) {
	s.audit.Record(domain.AuditEvent{
		Action:    action,
		ActorID:   actorID,
		SubjectID: subject.ID,
		Email:     subject.Email,
		Success:   true,
	})
}

// assignableRole parses raw and rejects roles the admin path cannot grant.
func assignableRole(raw string) (domain.Role, error) {
	role, err := domain.ParseRole(raw)
	if err != nil {
		return "", err
	}
	if !role.Assignable() {
		return "", domain.NewValidationError(fmt.Sprintf("role must be one of: %s %s", domain.RoleDoctor, domain.RolePatient))
	}
	return role, nil
}

// ensureEmailFree fails with domain.ErrEmailTaken when email belongs to an
// account other than ownerID.
func ensureEmailFree(ctx context.Context, repo ports.UserRepository, email, ownerID string) error {
	existing, err := repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != ownerID:
		return domain.ErrEmailTaken
	}
	return nil
}
