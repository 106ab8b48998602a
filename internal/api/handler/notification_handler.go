package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/diecastgarage/storefront/internal/core/domain"
)

type NotificationHandler struct{}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

// List handles GET /v1/notifications, oldest first.
//
// @Summary      Pending notifications
// @Tags         notifications
// @Produce      json
// @Param        X-Session-ID  header    string  false  "Session scope"
// @Success      200           {object}  notificationsResponse
// @Router       /v1/notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	items := s.Notifications().List()
	if items == nil {
		items = []domain.Notification{}
	}
	return c.JSON(http.StatusOK, notificationsResponse{Items: items})
}

// Dismiss handles DELETE /v1/notifications/:id. Unknown ids are ignored.
//
// @Summary      Dismiss a notification
// @Tags         notifications
// @Param        X-Session-ID  header  string  false  "Session scope"
// @Param        id            path    string  true   "Notification id"
// @Success      204
// @Router       /v1/notifications/{id} [delete]
func (h *NotificationHandler) Dismiss(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	s.Notifications().RemoveNotification(c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}
