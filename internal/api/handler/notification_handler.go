package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/terangafund/citizen-projects/internal/core/domain"
	"github.com/terangafund/citizen-projects/internal/core/ports"
)

type NotificationHandler struct {
	service ports.NotificationService
}

func NewNotificationHandler(service ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List handles GET /notifications. ?unread=true narrows to unread only.
//
// @Summary      List own notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        unread  query     bool  false  "Only unread notifications"
// @Success      200     {object}  listResponse[domain.Notification]
// @Router       /notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	unreadOnly := c.QueryParam("unread") == "true"
	notifications, err := h.service.List(c.Request().Context(), actor.ID, unreadOnly)
	if err != nil {
		return err
	}
	if notifications == nil {
		notifications = []*domain.Notification{}
	}
	return c.JSON(http.StatusOK, listResponse[*domain.Notification]{Items: notifications, Total: len(notifications)})
}

type unreadCountResponse struct {
	Count int64 `json:"count"`
}

// UnreadCount handles GET /notifications/unread-count.
//
// @Summary      Count unread notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  unreadCountResponse
// @Router       /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	count, err := h.service.UnreadCount(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, unreadCountResponse{Count: count})
}

// MarkRead handles PUT /notifications/:id/read.
//
// @Summary      Mark one notification as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Notification id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Router       /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.MarkRead(c.Request().Context(), actor.ID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Notification marquée comme lue"})
}

// MarkAllRead handles PUT /notifications/read-all.
//
// @Summary      Mark all notifications as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Router       /notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.MarkAllRead(c.Request().Context(), actor.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Toutes les notifications ont été marquées comme lues"})
}
