package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAuth rejects anonymous requests. The gate is fail-open, so every
// protected route needs this (or RequireRoles) behind it.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if AuthFromContext(c) == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}

// RequireRoles enforces role-based access control: the authenticated user
// must hold at least one of the allowed role names. Anonymous requests get
// 401, authenticated ones without a matching authority get 403.
func RequireRoles(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := AuthFromContext(c)
			if auth == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			for _, authority := range auth.Authorities {
				if _, ok := allowed[authority]; ok {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "forbidden")
		}
	}
}
