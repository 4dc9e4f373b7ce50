package repositories

import (
	"context"

	"github.com/anonto42/connectly/backend/internal/models"
	"gorm.io/gorm"
)

// MessageRepository defines the interface for direct message storage
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	GetConversation(ctx context.Context, userID1, userID2 string) ([]models.Message, error)
	GetTouchingUser(ctx context.Context, userID string) ([]models.Message, error)
	MarkRead(ctx context.Context, id uint, receiverID string) (bool, error)
	MarkConversationRead(ctx context.Context, receiverID, senderID string) (int64, error)
	CountUnread(ctx context.Context, receiverID string) (int64, error)
}

// PostgresMessageRepository implements MessageRepository for PostgreSQL
type PostgresMessageRepository struct {
	db *gorm.DB
}

// NewPostgresMessageRepository creates a new PostgresMessageRepository
func NewPostgresMessageRepository(db *gorm.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, msg *models.Message) error {
	msg.Read = false
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetConversation returns the messages exchanged by two users, oldest first
func (r *PostgresMessageRepository) GetConversation(ctx context.Context, userID1, userID2 string) ([]models.Message, error) {
	var msgs []models.Message
	if err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID1, userID2, userID2, userID1).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return msgs, nil
}

// GetTouchingUser returns every message the user sent or received, newest first
func (r *PostgresMessageRepository) GetTouchingUser(ctx context.Context, userID string) ([]models.Message, error) {
	var msgs []models.Message
	if err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&msgs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return msgs, nil
}

// MarkRead flags a single message addressed to receiverID read. Reports
// whether a row matched.
func (r *PostgresMessageRepository) MarkRead(ctx context.Context, id uint, receiverID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("id = ? AND receiver_id = ?", id, receiverID).
		Update("read", true)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// MarkConversationRead flags every unread message from senderID to
// receiverID in a single UPDATE.
func (r *PostgresMessageRepository) MarkConversationRead(ctx context.Context, receiverID, senderID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND read = ?", senderID, receiverID, false).
		Update("read", true)
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *PostgresMessageRepository) CountUnread(ctx context.Context, receiverID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("receiver_id = ? AND read = ?", receiverID, false).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
