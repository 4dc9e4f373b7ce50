// Package services implements the domain components: the connection graph,
// the conversation store, the notification hub and post engagement.
package services

import (
	"context"

	"github.com/anonto42/connectly/backend/internal/metrics"
	"github.com/anonto42/connectly/backend/internal/models"
)

const (
	componentConnections   = "connection_graph"
	componentConversations = "conversation_store"
	componentNotifications = "notification_hub"
	componentPosts         = "post_engagement"
)

// Notifier records fan-out notifications. Implementations must never fail
// the operation that triggered them.
type Notifier interface {
	NotifyBestEffort(ctx context.Context, recipientID string, actor models.Party, event models.Event)
}

func observe(component, operation string, err *error) {
	metrics.Observe(component, operation, *err)
}
