package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/core/ports"
)

// UserHandler is the back-office account management surface.
type UserHandler struct {
	users ports.UserAdmin
}

func NewUserHandler(users ports.UserAdmin) *UserHandler {
	return &UserHandler{users: users}
}

// List handles GET /v1/admin/users.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userListResponse
// @Router       /v1/admin/users [get]
func (h *UserHandler) List(c echo.Context) error {
	items, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	if items == nil {
		items = []domain.User{}
	}
	return c.JSON(http.StatusOK, userListResponse{Items: items})
}

// Stats handles GET /v1/admin/users/stats.
//
// @Summary      Account counts by role
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.UserStats
// @Router       /v1/admin/users/stats [get]
func (h *UserHandler) Stats(c echo.Context) error {
	stats, err := h.users.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Promote handles POST /v1/admin/users/:id/promote.
//
// @Summary      Grant the admin role
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/users/{id}/promote [post]
func (h *UserHandler) Promote(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}
	if err := h.users.Promote(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Demote handles POST /v1/admin/users/:id/demote.
//
// @Summary      Revoke the admin role
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/users/{id}/demote [post]
func (h *UserHandler) Demote(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}
	if err := h.users.Demote(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
