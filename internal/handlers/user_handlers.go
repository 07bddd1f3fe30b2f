package handlers

import (
	"net/http"

	"coworkops/internal/common"
	"coworkops/internal/models"
	"coworkops/internal/services"

	"github.com/labstack/echo/v4"
)

type UserHandlers struct {
	userService services.UserService
}

func NewUserHandlers(userService services.UserService) *UserHandlers {
	return &UserHandlers{userService: userService}
}

func (h *UserHandlers) CreateUser(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var req services.CreateUserRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	user, err := h.userService.Create(c.Request().Context(), &actor, &req)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusCreated, user)
}

// ListUsers supports ?role=&limit=&offset=
func (h *UserHandlers) ListUsers(c echo.Context) error {
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}

	var role *models.Role
	if raw := c.QueryParam("role"); raw != "" {
		r := models.Role(raw)
		role = &r
	}

	users, err := h.userService.List(c.Request().Context(), role, limit, offset)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, map[string]interface{}{
		"users":  users,
		"limit":  limit,
		"offset": offset,
	})
}
