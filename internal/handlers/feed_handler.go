package handlers

import (
	"net/http"

	"github.com/anonto42/connectly/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves the home feed
type FeedHandler struct {
	posts *services.PostEngagement
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(posts *services.PostEngagement) *FeedHandler {
	return &FeedHandler{posts: posts}
}

// RegisterFeedRoutes registers feed routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns every post newest first with comments attached
func (h *FeedHandler) GetFeed(c echo.Context) error {
	posts, err := h.posts.ListFeed(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, posts)
}
