package middleware

import (
	"net/http"

	"app/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// contextに入っているroleが許可リストに含まれるかを確認する。
// AuthJWTの後ろに置くこと。
func RequireRole(allowed ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("Access denied. No token provided."))
			}

			for _, role := range allowed {
				if user.Role == role {
					return next(c)
				}
			}

			return c.JSON(http.StatusForbidden, errorJSON("Access denied. Admin privileges required."))
		}
	}
}
