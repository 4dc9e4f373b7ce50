package handlers

import (
	"net/http"

	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/services"
	"github.com/anonto42/connectly/backend/internal/views"
	"github.com/labstack/echo/v4"
)

// ProfileHandler serves the caller's identity and records profile views
type ProfileHandler struct {
	notifier services.Notifier
	views    views.Invalidator
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(notifier services.Notifier, inv views.Invalidator) *ProfileHandler {
	return &ProfileHandler{notifier: notifier, views: inv}
}

// RegisterProfileRoutes registers profile routes
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/me", h.GetMe)
	g.POST("/users/:userId/views", h.RecordProfileView)
}

// GetMe returns the identity attached to the request
func (h *ProfileHandler) GetMe(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, me)
}

// RecordProfileView tells a profile owner that the caller looked at their
// profile. Viewing your own profile records nothing.
func (h *ProfileHandler) RecordProfileView(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}

	ownerID := c.Param("userId")
	if ownerID == me.UserID {
		return c.JSON(http.StatusOK, echo.Map{"recorded": false})
	}

	h.notifier.NotifyBestEffort(c.Request().Context(), ownerID, me.Party(), models.ProfileViewEvent{})
	h.views.Invalidate(c.Request().Context(), views.PageNotifications)
	return c.JSON(http.StatusOK, echo.Map{"recorded": true})
}
