package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/diecastgarage/storefront/internal/api/middleware"
	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/core/ports"
)

// ctxSession returns the session resolved by the Session middleware. A
// missing session means the route was mounted without it.
func ctxSession(c echo.Context) (ports.Session, error) {
	s, ok := middleware.SessionFromContext(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session not resolved")
	}
	return s, nil
}

// ctxUser returns the authenticated user or a 401.
func ctxUser(c echo.Context) (*domain.User, error) {
	u := middleware.UserFromContext(c)
	if u == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return u, nil
}

// ctxNotifier routes operation feedback to the caller's notification queue
// when the request carries a session.
func ctxNotifier(c echo.Context) ports.Notifier {
	if s, ok := middleware.SessionFromContext(c); ok {
		return s.Notifications()
	}
	return nil
}
