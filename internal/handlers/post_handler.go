package handlers

import (
	"net/http"

	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/services"
	"github.com/anonto42/connectly/backend/internal/views"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts and reposts
type PostHandler struct {
	posts *services.PostEngagement
	views views.Invalidator
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts *services.PostEngagement, inv views.Invalidator) *PostHandler {
	return &PostHandler{posts: posts, views: inv}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/posts/:id/preview", h.PreviewPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.POST("/posts/:id/repost", h.Repost)
	g.POST("/posts/:id/repost-with-thoughts", h.RepostWithThoughts)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.posts.Create(c.Request().Context(), me.Author(), services.NewPostInput{
		Text:      req.Text,
		ImageURL:  req.ImageURL,
		VideoURL:  req.VideoURL,
		ImageURLs: req.ImageURLs,
		VideoURLs: req.VideoURLs,
	})
	if err != nil {
		return httpError(err)
	}

	h.views.Invalidate(c.Request().Context(), views.PageFeed)
	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a post with its comments
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.posts.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// PreviewPost returns the reduced projection used for shared links
func (h *PostHandler) PreviewPost(c echo.Context) error {
	post, err := h.posts.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, post.Preview())
}

// UpdatePost edits the text of the caller's own post
func (h *PostHandler) UpdatePost(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req models.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	postID := c.Param("id")
	if err := h.requireAuthor(c, postID, me.UserID); err != nil {
		return err
	}

	post, err := h.posts.UpdateText(ctx, postID, req.Text)
	if err != nil {
		return httpError(err)
	}

	h.views.Invalidate(ctx, views.PageFeed)
	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes the caller's own post
func (h *PostHandler) DeletePost(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	postID := c.Param("id")
	if err := h.requireAuthor(c, postID, me.UserID); err != nil {
		return err
	}

	if err := h.posts.Delete(ctx, postID); err != nil {
		return httpError(err)
	}

	h.views.Invalidate(ctx, views.PageFeed)
	return c.NoContent(http.StatusNoContent)
}

// Repost shares a post as-is under the caller's name
func (h *PostHandler) Repost(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}

	post, err := h.posts.RepostDirect(c.Request().Context(), c.Param("id"), me.Author())
	if err != nil {
		return httpError(err)
	}

	h.views.Invalidate(c.Request().Context(), views.PageFeed)
	return c.JSON(http.StatusCreated, post)
}

// RepostWithThoughts quotes a post with the caller's own text
func (h *PostHandler) RepostWithThoughts(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req models.RepostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.posts.RepostWithThoughts(c.Request().Context(), c.Param("id"), me.Author(), req.Thoughts)
	if err != nil {
		return httpError(err)
	}

	h.views.Invalidate(c.Request().Context(), views.PageFeed)
	return c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) requireAuthor(c echo.Context, postID, userID string) error {
	post, err := h.posts.Get(c.Request().Context(), postID)
	if err != nil {
		return httpError(err)
	}
	if post.Author.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only modify your own posts")
	}
	return nil
}
