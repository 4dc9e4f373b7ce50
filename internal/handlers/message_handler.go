package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/services"
	"github.com/anonto42/connectly/backend/internal/views"
	"github.com/labstack/echo/v4"
)

// MessageHandler handles direct messages and post sharing
type MessageHandler struct {
	store  *services.ConversationStore
	graph  *services.ConnectionGraph
	posts  *services.PostEngagement
	views  views.Invalidator
	appURL string
	logger *slog.Logger
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(store *services.ConversationStore, graph *services.ConnectionGraph, posts *services.PostEngagement, inv views.Invalidator, appURL string, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		store:  store,
		graph:  graph,
		posts:  posts,
		views:  inv,
		appURL: strings.TrimRight(appURL, "/"),
		logger: logger,
	}
}

// RegisterMessageRoutes registers messaging routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.POST("/messages", h.SendMessage)
	g.GET("/messages/conversations", h.GetConversations)
	g.GET("/messages/conversations/:userId", h.GetConversation)
	g.PUT("/messages/conversations/:userId/read", h.MarkConversationRead)
	g.PUT("/messages/:id/read", h.MarkRead)
	g.GET("/messages/unread-count", h.GetUnreadCount)
	g.POST("/posts/:id/share", h.SharePost)
}

// SendMessage sends a direct message to another user
func (h *MessageHandler) SendMessage(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req models.SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	receiver := models.Party{ID: req.ReceiverID, Name: req.ReceiverName, Image: req.ReceiverImage}
	msg, err := h.store.Send(c.Request().Context(), me.Party(), receiver, req.Content, req.ImageURL)
	if err != nil {
		return httpError(err)
	}

	h.views.Invalidate(c.Request().Context(), views.PageMessaging, views.PageNotifications)
	return c.JSON(http.StatusCreated, msg)
}

// GetConversations lists one summary per peer, most recent first
func (h *MessageHandler) GetConversations(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}

	summaries, err := h.store.ListConversations(c.Request().Context(), me.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, summaries)
}

// GetConversation returns the thread with another user, oldest first
func (h *MessageHandler) GetConversation(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}

	msgs, err := h.store.GetConversation(c.Request().Context(), me.UserID, c.Param("userId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, msgs)
}

// MarkConversationRead marks everything the other user sent as read
func (h *MessageHandler) MarkConversationRead(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}

	if err := h.store.MarkConversationRead(c.Request().Context(), me.UserID, c.Param("userId")); err != nil {
		return httpError(err)
	}

	h.views.Invalidate(c.Request().Context(), views.PageMessaging)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// MarkRead marks a single message addressed to the caller as read
func (h *MessageHandler) MarkRead(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.store.MarkRead(c.Request().Context(), id, me.UserID); err != nil {
		return httpError(err)
	}

	h.views.Invalidate(c.Request().Context(), views.PageMessaging)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// GetUnreadCount returns the number of unread messages addressed to the user
func (h *MessageHandler) GetUnreadCount(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}

	count, err := h.store.UnreadCount(c.Request().Context(), me.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// SharePost sends a link to a post to each recipient the user is connected
// with. Recipients without an accepted connection are skipped.
func (h *MessageHandler) SharePost(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req models.SharePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	postID := c.Param("id")
	if _, err := h.posts.Get(ctx, postID); err != nil {
		return httpError(err)
	}

	content := fmt.Sprintf("%s shared a post with you: %s/post/%s", me.DisplayName(), h.appURL, postID)
	sent := 0
	for _, recipientID := range req.RecipientIDs {
		conn, err := h.graph.AcceptedBetween(ctx, me.UserID, recipientID)
		if err != nil {
			if !errors.Is(err, models.ErrNotFound) {
				h.logger.WarnContext(ctx, "share lookup failed",
					slog.String("recipient_id", recipientID),
					slog.Any("error", err),
				)
			}
			continue
		}
		if _, err := h.store.Send(ctx, me.Party(), conn.Counterpart(me.UserID), content, ""); err != nil {
			h.logger.WarnContext(ctx, "share send failed",
				slog.String("recipient_id", recipientID),
				slog.Any("error", err),
			)
			continue
		}
		sent++
	}

	if sent > 0 {
		h.views.Invalidate(ctx, views.PageMessaging, views.PageNotifications)
	}
	return c.JSON(http.StatusOK, echo.Map{"sent": sent})
}
