package services

import (
	"context"

	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/repositories"
)

// ConnectionGraph owns connection requests and their pending, accepted and
// rejected lifecycle.
type ConnectionGraph struct {
	repo     repositories.ConnectionRepository
	notifier Notifier
}

// NewConnectionGraph returns a new ConnectionGraph.
func NewConnectionGraph(repo repositories.ConnectionRepository, notifier Notifier) *ConnectionGraph {
	return &ConnectionGraph{repo: repo, notifier: notifier}
}

// SendRequest creates a pending connection from sender to receiver and
// notifies the receiver. Any existing connection between the pair, in either
// direction and in any status, is a duplicate.
func (g *ConnectionGraph) SendRequest(ctx context.Context, sender, receiver models.Party) (conn *models.Connection, err error) {
	defer observe(componentConnections, "send_request", &err)

	if sender.ID == receiver.ID {
		return nil, models.NewValidationError("Cannot send a connection request to yourself")
	}

	existing, err := g.repo.GetBetweenUsers(ctx, sender.ID, receiver.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewDuplicateConnectionError(sender.ID, receiver.ID)
	}

	conn = &models.Connection{
		SenderID:      sender.ID,
		SenderName:    sender.Name,
		SenderImage:   sender.Image,
		ReceiverID:    receiver.ID,
		ReceiverName:  receiver.Name,
		ReceiverImage: receiver.Image,
		Status:        models.ConnectionPending,
	}
	if err := g.repo.Create(ctx, conn); err != nil {
		return nil, err
	}

	g.notifier.NotifyBestEffort(ctx, receiver.ID, sender, models.ConnectionRequestEvent{})
	return conn, nil
}

// Get returns a connection by ID.
func (g *ConnectionGraph) Get(ctx context.Context, id uint) (*models.Connection, error) {
	return g.repo.GetByID(ctx, id)
}

// Accept moves a pending connection to accepted and notifies the sender.
// Accepting an already accepted connection is a no-op.
func (g *ConnectionGraph) Accept(ctx context.Context, id uint) (conn *models.Connection, err error) {
	defer observe(componentConnections, "accept", &err)

	conn, changed, err := g.transition(ctx, id, models.ConnectionAccepted)
	if err != nil {
		return nil, err
	}
	if changed {
		g.notifier.NotifyBestEffort(ctx, conn.SenderID, conn.Receiver(), models.ConnectionAcceptedEvent{})
	}
	return conn, nil
}

// Reject moves a pending connection to rejected. No one is notified.
func (g *ConnectionGraph) Reject(ctx context.Context, id uint) (conn *models.Connection, err error) {
	defer observe(componentConnections, "reject", &err)

	conn, _, err = g.transition(ctx, id, models.ConnectionRejected)
	return conn, err
}

// transition applies pending -> to as one conditional update, so concurrent
// accept and reject cannot both win.
func (g *ConnectionGraph) transition(ctx context.Context, id uint, to models.ConnectionStatus) (*models.Connection, bool, error) {
	changed, err := g.repo.TransitionFromPending(ctx, id, to)
	if err != nil {
		return nil, false, err
	}
	conn, err := g.repo.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if changed {
		return conn, true, nil
	}
	if conn.Status == to {
		return conn, false, nil
	}
	return nil, false, models.NewInvalidTransitionError(conn.Status, to)
}

// ListPending returns requests awaiting the user's answer, newest first.
func (g *ConnectionGraph) ListPending(ctx context.Context, userID string) ([]models.Connection, error) {
	return g.repo.GetPending(ctx, userID)
}

// ListAccepted returns the user's accepted connections, newest first.
func (g *ConnectionGraph) ListAccepted(ctx context.Context, userID string) ([]models.Connection, error) {
	return g.repo.GetAccepted(ctx, userID)
}

// ListAll returns every connection touching the user, newest first.
func (g *ConnectionGraph) ListAll(ctx context.Context, userID string) ([]models.Connection, error) {
	return g.repo.GetAll(ctx, userID)
}

// AcceptedBetween returns the accepted connection relating a and b.
func (g *ConnectionGraph) AcceptedBetween(ctx context.Context, a, b string) (*models.Connection, error) {
	conn, err := g.repo.GetBetweenUsers(ctx, a, b)
	if err != nil {
		return nil, err
	}
	if conn == nil || conn.Status != models.ConnectionAccepted {
		return nil, models.NewNotFoundError("Accepted connection", models.PairKey(a, b))
	}
	return conn, nil
}
