package middleware

import (
	"fmt"
	"net/http"

	"coworkops/internal/common"
	"coworkops/internal/services"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const claimsContextKey = "claims"

// JWTMiddleware validates the bearer token and stores the caller on the
// request context for services.ActorFromContext.
func JWTMiddleware(authService services.AuthService) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		ContextKey: claimsContextKey,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return authService.ValidateToken(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return common.SendError(c, fmt.Errorf("%w: missing or invalid token", common.ErrUnauthorized))
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(func(c echo.Context) error {
			claims, ok := c.Get(claimsContextKey).(*services.TokenClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid claims")
			}
			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return common.SendError(c, fmt.Errorf("%w: invalid user_id in token", common.ErrUnauthorized))
			}

			ctx := common.WithActor(c.Request().Context(), userID, claims.Role)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		})
	}
}
