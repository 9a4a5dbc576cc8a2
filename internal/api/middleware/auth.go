package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/clinicflow/clinic-api/internal/api/metrics"
	"github.com/clinicflow/clinic-api/internal/core/domain"
	"github.com/clinicflow/clinic-api/internal/core/ports"
)

const identityKey = "clinic.identity"

// IdentityResolver turns a bearer token into an authenticated identity.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (*ports.Identity, error)
}

// Auth requires a valid bearer token belonging to an active user and
// attaches the resolved identity to the request. Anything else is rejected.
func Auth(resolver IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.TokenRejectionsTotal.WithLabelValues("missing").Inc()
				return domain.ErrUnauthenticated
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				metrics.TokenRejectionsTotal.WithLabelValues(string(domain.TokenMalformed)).Inc()
				return &domain.TokenError{Reason: domain.TokenMalformed}
			}

			identity, err := resolver.ResolveIdentity(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				var te *domain.TokenError
				if errors.As(err, &te) {
					metrics.TokenRejectionsTotal.WithLabelValues(string(te.Reason)).Inc()
				}
				return err
			}
			if identity == nil || identity.User == nil {
				return domain.ErrUnauthenticated
			}

			SetIdentity(c, identity)
			return next(c)
		}
	}
}

// SetIdentity attaches identity to the request context.
func SetIdentity(c echo.Context, identity *ports.Identity) {
	c.Set(identityKey, identity)
}

// IdentityFrom returns the identity attached by Auth.
func IdentityFrom(c echo.Context) (*ports.Identity, bool) {
	identity, ok := c.Get(identityKey).(*ports.Identity)
	if !ok || identity == nil || identity.User == nil {
		return nil, false
	}
	return identity, true
}
