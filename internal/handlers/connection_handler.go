package handlers

import (
	"net/http"

	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/services"
	"github.com/anonto42/connectly/backend/internal/views"
	"github.com/labstack/echo/v4"
)

// ConnectionHandler handles HTTP requests related to connections
type ConnectionHandler struct {
	graph *services.ConnectionGraph
	views views.Invalidator
}

// NewConnectionHandler creates a new ConnectionHandler
func NewConnectionHandler(graph *services.ConnectionGraph, inv views.Invalidator) *ConnectionHandler {
	return &ConnectionHandler{graph: graph, views: inv}
}

// RegisterConnectionRoutes registers connection-related routes
func (h *ConnectionHandler) RegisterConnectionRoutes(g *echo.Group) {
	g.POST("/connections/request", h.SendConnectionRequest)
	g.GET("/connections/requests/pending", h.GetPendingRequests)
	g.PUT("/connections/request/:id/status", h.UpdateRequestStatus)
	g.GET("/connections", h.GetConnections)
	g.GET("/connections/all", h.GetAllConnections)
	g.GET("/connections/with/:userId", h.GetConnectionWith)
}

// SendConnectionRequest handles sending a connection request
func (h *ConnectionHandler) SendConnectionRequest(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req models.CreateConnectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	receiver := models.Party{ID: req.ReceiverID, Name: req.ReceiverName, Image: req.ReceiverImage}
	conn, err := h.graph.SendRequest(c.Request().Context(), me.Party(), receiver)
	if err != nil {
		return httpError(err)
	}

	h.views.Invalidate(c.Request().Context(), views.PageNetwork, views.PageNotifications)
	return c.JSON(http.StatusCreated, conn)
}

// GetPendingRequests retrieves requests awaiting the authenticated user's answer
func (h *ConnectionHandler) GetPendingRequests(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}

	requests, err := h.graph.ListPending(c.Request().Context(), me.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, requests)
}

// UpdateRequestStatus accepts or rejects a connection request. Only the
// receiver may answer.
func (h *ConnectionHandler) UpdateRequestStatus(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateConnectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	conn, err := h.graph.Get(ctx, id)
	if err != nil {
		return httpError(err)
	}
	if conn.ReceiverID != me.UserID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the receiver can answer this request")
	}

	switch req.Status {
	case models.ConnectionAccepted:
		conn, err = h.graph.Accept(ctx, id)
	default:
		conn, err = h.graph.Reject(ctx, id)
	}
	if err != nil {
		return httpError(err)
	}

	h.views.Invalidate(ctx, views.PageNetwork, views.PageNotifications)
	return c.JSON(http.StatusOK, conn)
}

// GetConnections retrieves the authenticated user's accepted connections
func (h *ConnectionHandler) GetConnections(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}

	conns, err := h.graph.ListAccepted(c.Request().Context(), me.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, conns)
}

// GetAllConnections retrieves every connection touching the authenticated user
func (h *ConnectionHandler) GetAllConnections(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}

	conns, err := h.graph.ListAll(c.Request().Context(), me.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, conns)
}

// GetConnectionWith returns the accepted connection with another user
func (h *ConnectionHandler) GetConnectionWith(c echo.Context) error {
	me, err := currentIdentity(c)
	if err != nil {
		return err
	}

	conn, err := h.graph.AcceptedBetween(c.Request().Context(), me.UserID, c.Param("userId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, conn)
}
