package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/clinicflow/clinic-api/internal/api/metrics"
	"github.com/clinicflow/clinic-api/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth; a request
// without an identity is treated as unauthenticated.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrUnauthenticated
			}
			role := identity.User.Role
			if _, ok := allowed[role]; !ok {
				metrics.ForbiddenTotal.WithLabelValues(role.String()).Inc()
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
