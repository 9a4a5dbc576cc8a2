package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/clinicflow/clinic-api/internal/api/middleware"
	"github.com/clinicflow/clinic-api/internal/core/domain"
	"github.com/clinicflow/clinic-api/internal/core/ports"
)

// currentIdentity returns the identity injected by the Auth middleware. A
// missing identity means the route was wired without Auth; reject rather
// than run unauthenticated.
func currentIdentity(c echo.Context) (*ports.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return identity, nil
}

// bindAndValidate decodes the JSON body into req and runs the registered
// validator over it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("invalid payload")
	}
	return c.Validate(req)
}
