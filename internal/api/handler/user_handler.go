package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicflow/clinic-api/internal/api/metrics"
	"github.com/clinicflow/clinic-api/internal/core/ports"
)

// UserHandler exposes administrative user management. Every route is
// expected to sit behind Auth and RBAC(admin).
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type createUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	Password *string `json:"password"`
}

// Create handles POST /users.
//
// @Summary      Create a doctor or patient account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.Create(c.Request().Context(), identity.User.ID, ports.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	metrics.UserOperationsTotal.WithLabelValues("create").Inc()
	return respond(c, http.StatusCreated, user)
}

// List handles GET /users.
//
// @Summary      List users, newest first
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      403  {object}  map[string]any
// @Failure      500  {object}  map[string]any
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, users, len(users))
}

// Get handles GET /users/:id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  map[string]any
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user)
}

// Update handles PUT /users/:id. Omitted fields are left unchanged.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.Update(c.Request().Context(), identity.User.ID, c.Param("id"), ports.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	metrics.UserOperationsTotal.WithLabelValues("update").Inc()
	return respond(c, http.StatusOK, user)
}

// Delete handles DELETE /users/:id.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), identity.User.ID, c.Param("id")); err != nil {
		return err
	}

	metrics.UserOperationsTotal.WithLabelValues("delete").Inc()
	return respondMessage(c, http.StatusOK, "user deleted")
}

// ToggleStatus handles PATCH /users/:id/toggle-status.
//
// @Summary      Activate or deactivate a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /users/{id}/toggle-status [patch]
func (h *UserHandler) ToggleStatus(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.service.ToggleActive(c.Request().Context(), identity.User.ID, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.UserOperationsTotal.WithLabelValues("toggle_status").Inc()
	return respond(c, http.StatusOK, user)
}
