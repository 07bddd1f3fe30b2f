package handlers

import (
	"fmt"
	"net/http"

	"coworkops/internal/common"
	"coworkops/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService services.AuthService
	userService services.UserService
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService, userService services.UserService) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		userService: userService,
	}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles user login with email and password
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if req.Email == "" || req.Password == "" {
		return fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}

	token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, token)
}

// Me returns the authenticated user's profile
func (h *AuthHandlers) Me(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	user, err := h.userService.GetByID(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, user)
}
