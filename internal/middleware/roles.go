package middleware

import (
	"net/http"

	"buildcost/internal/common"
	"buildcost/internal/models"

	"github.com/labstack/echo/v4"
)

// RequireManager allows managers and admins through.
func RequireManager() echo.MiddlewareFunc {
	return requireRole(func(role string) bool {
		return models.IsManagerOrAbove(role)
	})
}

// RequireAdmin allows only admins through.
func RequireAdmin() echo.MiddlewareFunc {
	return requireRole(func(role string) bool {
		return role == models.RoleAdmin
	})
}

func requireRole(allowed func(string) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			role, ok := common.GetUserRoleFromContext(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}
			if !allowed(role) {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}
			return next(c)
		}
	}
}
