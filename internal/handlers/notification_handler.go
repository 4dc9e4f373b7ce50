package handlers

import (
	"log/slog"
	"net/http"

	"github.com/anonto42/connectly/backend/internal/services"
	"github.com/anonto42/connectly/backend/internal/views"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	hub    *services.NotificationHub
	views  views.Invalidator
	logger *slog.Logger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(hub *services.NotificationHub, inv views.Invalidator, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{hub: hub, views: inv, logger: logger}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
}

// GetNotifications returns the user's notifications newest first. Viewing the
// list marks everything read; the response still carries the flags as they
// were before the view.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	notifications, err := h.hub.ListForUser(ctx, me.UserID)
	if err != nil {
		return httpError(err)
	}

	if err := h.hub.MarkAllRead(ctx, me.UserID); err != nil {
		h.logger.WarnContext(ctx, "mark all read on view failed",
			slog.String("user_id", me.UserID),
			slog.Any("error", err),
		)
	} else {
		h.views.Invalidate(ctx, views.PageNotifications)
	}

	return c.JSON(http.StatusOK, notifications)
}

// GetUnreadCount returns the number of unread notifications
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}

	count, err := h.hub.UnreadCount(c.Request().Context(), me.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks a single notification as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.hub.MarkRead(c.Request().Context(), id, me.UserID); err != nil {
		return httpError(err)
	}

	h.views.Invalidate(c.Request().Context(), views.PageNotifications)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// MarkAllAsRead marks all notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}

	if err := h.hub.MarkAllRead(c.Request().Context(), me.UserID); err != nil {
		return httpError(err)
	}

	h.views.Invalidate(c.Request().Context(), views.PageNotifications)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
