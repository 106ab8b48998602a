package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/diecastgarage/storefront/internal/core/ports"
)

// HeaderSessionID carries the client's session scope.
const HeaderSessionID = "X-Session-ID"

const ctxSession = "session"

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,128}$`)

// Session resolves the request's session scope. A missing header gets a new
// id echoed back in the response. When the request is authenticated the
// session identity is updated, which fires the favorites login transition
// on the first request of a new user.
func Session(provider ports.SessionProvider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(HeaderSessionID)
			if id == "" {
				id = uuid.NewString()
			} else if !sessionIDPattern.MatchString(id) {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
			}
			c.Response().Header().Set(HeaderSessionID, id)

			ctx := c.Request().Context()
			s := provider.Session(ctx, id)
			if user := UserFromContext(c); user != nil {
				if cur := s.Identity(); cur == nil || cur.ID != user.ID {
					s.SetIdentity(ctx, user)
				}
			}

			c.Set(ctxSession, s)
			return next(c)
		}
	}
}

// SessionFromContext returns the session attached by Session.
func SessionFromContext(c echo.Context) (ports.Session, bool) {
	s, ok := c.Get(ctxSession).(ports.Session)
	return s, ok
}
