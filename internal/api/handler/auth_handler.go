package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicflow/clinic-api/internal/api/metrics"
	"github.com/clinicflow/clinic-api/internal/core/domain"
	"github.com/clinicflow/clinic-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type profileRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword,omitempty"`
}

type authResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token,omitempty"`
}

// Login authenticates a user and returns a bearer token for a browser session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	return h.login(c, ports.SessionInteractive)
}

// ServiceToken is the long-lived login used by service and test tooling.
//
// @Summary      Login for service tooling
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Router       /auth/token [post]
func (h *AuthHandler) ServiceToken(c echo.Context) error {
	return h.login(c, ports.SessionService)
}

func (h *AuthHandler) login(c echo.Context, kind ports.SessionKind) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Kind:     kind,
	})
	metrics.LoginsTotal.WithLabelValues(loginOutcome(err), sessionLabel(kind)).Inc()
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, authResponse{User: res.User, Token: res.Token})
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  authResponse
// @Failure      401  {object}  map[string]any
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, authResponse{User: identity.User})
}

// UpdateProfile lets a user change their own name, email and password. The
// role cannot be changed here.
//
// @Summary      Update own profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileRequest  true  "Profile fields"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Failure      500   {object}  map[string]any
// @Router       /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("invalid payload")
	}

	res, err := h.authService.UpdateProfile(c.Request().Context(), identity.User.ID, ports.UpdateProfileInput{
		Name:            req.Name,
		Email:           req.Email,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return err
	}

	metrics.UserOperationsTotal.WithLabelValues("profile_update").Inc()
	return respond(c, http.StatusOK, authResponse{User: res.User, Token: res.Token})
}

// Logout revokes the presented token.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), identity); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "logged out")
}

func loginOutcome(err error) string {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrAccountInactive):
		return "inactive"
	case errors.As(err, &ve):
		return "invalid_request"
	default:
		return "error"
	}
}

func sessionLabel(kind ports.SessionKind) string {
	if kind == ports.SessionService {
		return "service"
	}
	return "interactive"
}
