package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/diecastgarage/storefront/internal/core/domain"
)

// Context keys set from the token claims.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxEmail  = "email"
	CtxName   = "name"
)

// Auth validates the JWT and injects claims into context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}
			if err := authenticate(c, authHeader, jwtSecret); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// OptionalAuth behaves like Auth when an Authorization header is present
// and lets anonymous requests through otherwise.
func OptionalAuth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}
			if err := authenticate(c, authHeader, jwtSecret); err != nil {
				return err
			}
			return next(c)
		}
	}
}

func authenticate(c echo.Context, authHeader, jwtSecret string) error {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
	}

	c.Set(CtxUserID, sub)
	c.Set(CtxRole, claims["role"])
	c.Set(CtxEmail, claims["email"])
	c.Set(CtxName, claims["name"])
	return nil
}

// UserFromContext rebuilds the identity carried by the token; nil for
// anonymous requests.
func UserFromContext(c echo.Context) *domain.User {
	id, _ := c.Get(CtxUserID).(string)
	if id == "" {
		return nil
	}
	role, _ := c.Get(CtxRole).(string)
	email, _ := c.Get(CtxEmail).(string)
	name, _ := c.Get(CtxName).(string)
	return &domain.User{ID: id, Role: role, Email: email, Name: name}
}
