package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicflow/clinic-api/internal/core/domain"
	"github.com/clinicflow/clinic-api/internal/core/ports"
	"github.com/clinicflow/clinic-api/internal/pkg/validation"
)

// TokenLifetimes holds the lifetime of each session kind. The two login
// paths have historically used different values, so both are configurable.
type TokenLifetimes struct {
	Interactive time.Duration
	Service     time.Duration
}

func (l TokenLifetimes) forKind(kind ports.SessionKind) time.Duration {
	if kind == ports.SessionService && l.Service > 0 {
		return l.Service
	}
	if l.Interactive > 0 {
		return l.Interactive
	}
	return 24 * time.Hour
}

// AuthService implements login, identity resolution, profile updates and logout.
type AuthService struct {
	repo      ports.UserRepository
	hasher    ports.PasswordHasher
	tokens    ports.TokenIssuer
	revoked   ports.RevocationList
	audit     ports.AuditRecorder
	lifetimes TokenLifetimes
	validate  *validation.Validator
	log       zerolog.Logger

	// dummyHash is verified against when the email is unknown so that both
	// failure paths cost one hash comparison.
	dummyOnce sync.Once
	dummyHash string

	now func() time.Time
}

func NewAuthService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	revoked ports.RevocationList,
	audit ports.AuditRecorder,
	lifetimes TokenLifetimes,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		revoked:   revoked,
		audit:     audit,
		lifetimes: lifetimes,
		validate:  validation.New(),
		log:       log,
		now:       time.Now,
	}
}

func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.NewValidationError("email and password are required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.burnHash(in.Password)
			s.recordLogin("", email, false, "unknown_email")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !user.IsActive {
		s.recordLogin(user.ID, email, false, "inactive")
		return nil, domain.ErrAccountInactive
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		s.recordLogin(user.ID, email, false, "bad_password")
		return nil, domain.ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(user, s.lifetimes.forKind(in.Kind))
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.recordLogin(user.ID, email, true, "")
	s.log.Info().Str("user_id", user.ID).Str("role", user.Role.String()).Msg("user logged in")

	return &ports.LoginResult{Token: token, User: user.Sanitized()}, nil
}

// ResolveIdentity turns a bearer token into the active user it belongs to.
// Every rejection is a *domain.TokenError; other errors are infrastructure
// failures.
func (s *AuthService) ResolveIdentity(ctx context.Context, token string) (*ports.Identity, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	if revoked {
		return nil, &domain.TokenError{Reason: domain.TokenRevoked}
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, &domain.TokenError{Reason: domain.TokenUserMissing}
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	if !user.IsActive {
		return nil, &domain.TokenError{Reason: domain.TokenUserInactive}
	}
	if user.SecurityStamp != claims.SecurityStamp {
		return nil, &domain.TokenError{Reason: domain.TokenStale}
	}

	return &ports.Identity{User: user.Sanitized(), Claims: claims}, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ports.UpdateProfileInput) (*ports.ProfileResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = domain.NormalizeEmail(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Email != user.Email {
		if err := ensureEmailFree(ctx, s.repo, in.Email, user.ID); err != nil {
			return nil, err
		}
	}

	changes := ports.UserChanges{
		Name:      &in.Name,
		Email:     &in.Email,
		UpdatedAt: s.now().UTC(),
	}

	passwordChanged := false
	if in.NewPassword != "" {
		if in.CurrentPassword == "" {
			return nil, domain.ErrCurrentPasswordRequired
		}
		if !s.hasher.Verify(in.CurrentPassword, user.PasswordHash) {
			return nil, domain.ErrCurrentPasswordMismatch
		}
		hash, err := s.hasher.Hash(in.NewPassword)
		if err != nil {
			return nil, err
		}
		changes.PasswordHash = &hash
		passwordChanged = true
	}

	updated, err := s.repo.Update(ctx, user.ID, changes)
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{
		Action:    domain.AuditProfileUpdate,
		ActorID:   updated.ID,
		SubjectID: updated.ID,
		Email:     updated.Email,
		Success:   true,
		Reason:    profileReason(passwordChanged),
	})

	result := &ports.ProfileResult{User: updated.Sanitized()}
	// An account deactivated while the update was in flight gets no new token.
	if passwordChanged && updated.IsActive {
		token, _, err := s.tokens.Issue(updated, s.lifetimes.forKind(ports.SessionInteractive))
		if err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
		result.Token = token
	}
	return result, nil
}

// Logout revokes the presented token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, identity *ports.Identity) error {
	if identity == nil || identity.Claims == nil {
		return domain.ErrUnauthenticated
	}

	ttl := identity.Claims.ExpiresAt.Sub(s.now())
	if err := s.revoked.Revoke(ctx, identity.Claims.TokenID, ttl); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	s.audit.Record(domain.AuditEvent{
		Action:    domain.AuditLogout,
		ActorID:   identity.User.ID,
		SubjectID: identity.User.ID,
		Success:   true,
	})
	return nil
}

func (s *AuthService) burnHash(password string) {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("clinic-timing-equalizer")
		if err != nil {
			s.log.Warn().Err(err).Msg("could not prepare dummy hash")
			return
		}
		s.dummyHash = h
	})
	if s.dummyHash != "" {
		_ = s.hasher.Verify(password, s.dummyHash)
	}
}

func (s *AuthService) recordLogin(userID, email string, ok bool, reason string) {
	s.audit.Record(domain.AuditEvent{
		Action:    domain.AuditLogin,
		ActorID:   userID,
		SubjectID: userID,
		Email:     email,
		Success:   ok,
		Reason:    reason,
	})
	if !ok {
		s.log.Debug().Str("email", email).Str("reason", reason).Msg("login rejected")
	}
}

func profileReason(passwordChanged bool) string {
	if passwordChanged {
		return "password_changed"
	}
	return ""
}
