package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	user, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrEmailInUse):
			status = http.StatusConflict
		case errors.Is(err, domain.ErrInvalidEmail), errors.Is(err, domain.ErrWeakPassword), errors.Is(err, domain.ErrInvalidName):
			status = http.StatusBadRequest
		}
		return c.JSON(status, map[string]string{"error": domain.AuthMessage(err)})
	}

	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// Login authenticates a user and returns a JWT token. The caller's session
// switches to the new identity: an existing remote favorites list replaces
// the guest list, otherwise the guest list becomes the account's list.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header    string        false  "Session scope"
// @Param        body          body      loginRequest  true   "Login credentials"
// @Success      200           {object}  authResponse
// @Failure      400           {object}  errorResponse
// @Failure      401           {object}  errorResponse
// @Failure      429           {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	ctx := c.Request().Context()
	token, user, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrWrongPassword):
			status = http.StatusUnauthorized
		case errors.Is(err, domain.ErrInvalidEmail):
			status = http.StatusBadRequest
		case errors.Is(err, domain.ErrTooManyRequests):
			status = http.StatusTooManyRequests
		}
		return c.JSON(status, map[string]string{"error": domain.AuthMessage(err)})
	}

	if s, err := ctxSession(c); err == nil {
		s.SetIdentity(ctx, user)
	}
	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// Logout drops the identity of the caller's session. Tokens are stateless
// and simply discarded by the client.
//
// @Summary      Logout
// @Tags         auth
// @Param        X-Session-ID  header  string  true  "Session scope"
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	s.SetIdentity(c.Request().Context(), nil)
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user's profile.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims, err := ctxUser(c)
	if err != nil {
		return err
	}
	user, err := h.authService.CurrentUser(c.Request().Context(), claims.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe changes the display name.
//
// @Summary      Update display name
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "New display name"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/me [patch]
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	claims, err := ctxUser(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.authService.UpdateDisplayName(c.Request().Context(), claims.ID, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
