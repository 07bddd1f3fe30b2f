package middleware

import (
	"fmt"

	"coworkops/internal/common"
	"coworkops/internal/services"

	"github.com/labstack/echo/v4"
)

type RBACMiddleware struct {
	rbacService services.RBACService
}

func NewRBACMiddleware(rbacService services.RBACService) *RBACMiddleware {
	return &RBACMiddleware{
		rbacService: rbacService,
	}
}

func (m *RBACMiddleware) RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := services.ActorFromContext(c.Request().Context())
			if err != nil {
				return common.SendError(c, err)
			}
			if !m.rbacService.HasPermission(actor.Role, permission) {
				return common.SendError(c, fmt.Errorf("%w: %s requires %s", common.ErrForbidden, actor.Role, permission))
			}
			return next(c)
		}
	}
}
