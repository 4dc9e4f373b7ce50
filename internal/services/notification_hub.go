package services

import (
	"context"
	"log/slog"

	"github.com/anonto42/connectly/backend/internal/metrics"
	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/repositories"
)

// NotificationHub appends notifications and tracks their read state.
type NotificationHub struct {
	repo   repositories.NotificationRepository
	logger *slog.Logger
}

// NewNotificationHub returns a new NotificationHub.
func NewNotificationHub(repo repositories.NotificationRepository, logger *slog.Logger) *NotificationHub {
	return &NotificationHub{repo: repo, logger: logger}
}

// Notify appends one notification for recipientID about event. There is no
// deduplication: every call creates a record.
func (h *NotificationHub) Notify(ctx context.Context, recipientID string, actor models.Party, event models.Event) (n *models.Notification, err error) {
	defer observe(componentNotifications, "notify", &err)

	n = models.NewNotification(recipientID, actor, event)
	if err := h.repo.CreateNotification(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// NotifyBestEffort is Notify for side effects: failures are logged and
// counted, never returned.
func (h *NotificationHub) NotifyBestEffort(ctx context.Context, recipientID string, actor models.Party, event models.Event) {
	if _, err := h.Notify(ctx, recipientID, actor, event); err != nil {
		metrics.NotificationsDropped.WithLabelValues(string(event.Type())).Inc()
		h.logger.WarnContext(ctx, "notification dropped",
			slog.String("type", string(event.Type())),
			slog.String("recipient_id", recipientID),
			slog.String("actor_id", actor.ID),
			slog.Any("error", err),
		)
	}
}

// ListForUser returns the user's notifications, newest first.
func (h *NotificationHub) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	return h.repo.GetByRecipientID(ctx, userID)
}

// UnreadCount returns how many of the user's notifications are unread.
func (h *NotificationHub) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return h.repo.GetUnreadCount(ctx, userID)
}

// MarkRead flags one of the user's notifications read.
func (h *NotificationHub) MarkRead(ctx context.Context, notificationID uint, userID string) (err error) {
	defer observe(componentNotifications, "mark_read", &err)
	return h.repo.MarkAsRead(ctx, notificationID, userID)
}

// MarkAllRead flags every unread notification of the user in one update.
func (h *NotificationHub) MarkAllRead(ctx context.Context, userID string) (err error) {
	defer observe(componentNotifications, "mark_all_read", &err)
	return h.repo.MarkAllAsRead(ctx, userID)
}
