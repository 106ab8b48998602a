package middleware

import (
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/diecastgarage/storefront/internal/core/domain"
)

// RequireRole lets the request through when the authenticated user's
// effective role is one of roles. Anonymous requests are rejected.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := UserFromContext(c)
			if u == nil || !slices.Contains(roles, u.EffectiveRole()) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// AdminOnly guards back-office routes.
func AdminOnly() echo.MiddlewareFunc {
	return RequireRole(domain.RoleAdmin)
}
