package handlers

import (
	"net/http"

	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/services"
	"github.com/anonto42/connectly/backend/internal/views"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	posts *services.PostEngagement
	views views.Invalidator
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(posts *services.PostEngagement, inv views.Invalidator) *CommentHandler {
	return &CommentHandler{posts: posts, views: inv}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetCommentsForPost)
}

// CreateComment creates a new comment on a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.posts.Comment(c.Request().Context(), c.Param("id"), me, req.Text)
	if err != nil {
		return httpError(err)
	}

	h.views.Invalidate(c.Request().Context(), views.PageFeed, views.PageNotifications)
	return c.JSON(http.StatusCreated, comment)
}

// GetCommentsForPost retrieves the comments of a post, newest first
func (h *CommentHandler) GetCommentsForPost(c echo.Context) error {
	comments, err := h.posts.Comments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, comments)
}
