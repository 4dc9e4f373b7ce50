package handlers

import (
	"net/http"

	"github.com/anonto42/connectly/backend/internal/services"
	"github.com/anonto42/connectly/backend/internal/views"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	posts *services.PostEngagement
	views views.Invalidator
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(posts *services.PostEngagement, inv views.Invalidator) *LikeHandler {
	return &LikeHandler{posts: posts, views: inv}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/likes", h.LikePost)
	g.DELETE("/posts/:id/likes", h.UnlikePost)
	g.GET("/posts/:id/likes", h.GetLikes)
}

// LikePost handles liking a post
func (h *LikeHandler) LikePost(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}

	likes, err := h.posts.Like(c.Request().Context(), c.Param("id"), me)
	if err != nil {
		return httpError(err)
	}

	h.views.Invalidate(c.Request().Context(), views.PageFeed, views.PageNotifications)
	return c.JSON(http.StatusOK, echo.Map{"likes": likes, "liked": true})
}

// UnlikePost handles unliking a post
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}

	likes, err := h.posts.Unlike(c.Request().Context(), c.Param("id"), me.UserID)
	if err != nil {
		return httpError(err)
	}

	h.views.Invalidate(c.Request().Context(), views.PageFeed)
	return c.JSON(http.StatusOK, echo.Map{"likes": likes, "liked": false})
}

// GetLikes returns the ids of users who liked the post and whether the
// caller is one of them
func (h *LikeHandler) GetLikes(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}

	likes, liked, err := h.posts.Likes(c.Request().Context(), c.Param("id"), me.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"likes": likes, "count": len(likes), "liked": liked})
}
