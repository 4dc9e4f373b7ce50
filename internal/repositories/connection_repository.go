package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/connectly/backend/internal/models"
	"gorm.io/gorm"
)

// ConnectionRepository defines the interface for connection data operations
type ConnectionRepository interface {
	Create(ctx context.Context, conn *models.Connection) error
	GetByID(ctx context.Context, id uint) (*models.Connection, error)
	GetBetweenUsers(ctx context.Context, userID1, userID2 string) (*models.Connection, error)
	GetPending(ctx context.Context, receiverID string) ([]models.Connection, error)
	GetAccepted(ctx context.Context, userID string) ([]models.Connection, error)
	GetAll(ctx context.Context, userID string) ([]models.Connection, error)
	TransitionFromPending(ctx context.Context, id uint, status models.ConnectionStatus) (bool, error)
}

// PostgresConnectionRepository implements ConnectionRepository for PostgreSQL
type PostgresConnectionRepository struct {
	db *gorm.DB
}

// NewPostgresConnectionRepository creates a new PostgresConnectionRepository
func NewPostgresConnectionRepository(db *gorm.DB) *PostgresConnectionRepository {
	return &PostgresConnectionRepository{db: db}
}

// Create inserts a pending connection. The unique pair index rejects a second
// row for the same two users in either direction.
func (r *PostgresConnectionRepository) Create(ctx context.Context, conn *models.Connection) error {
	conn.Status = models.ConnectionPending
	if err := r.db.WithContext(ctx).Create(conn).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewDuplicateConnectionError(conn.SenderID, conn.ReceiverID)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// GetByID retrieves a connection by ID
func (r *PostgresConnectionRepository) GetByID(ctx context.Context, id uint) (*models.Connection, error) {
	var conn models.Connection
	if err := r.db.WithContext(ctx).First(&conn, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Connection", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &conn, nil
}

// GetBetweenUsers finds the connection relating two users in either
// direction. Returns nil, nil when none exists.
func (r *PostgresConnectionRepository) GetBetweenUsers(ctx context.Context, userID1, userID2 string) (*models.Connection, error) {
	var conn models.Connection
	err := r.db.WithContext(ctx).
		Where("pair_key = ?", models.PairKey(userID1, userID2)).
		First(&conn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &conn, nil
}

// GetPending retrieves pending requests addressed to the user, newest first
func (r *PostgresConnectionRepository) GetPending(ctx context.Context, receiverID string) ([]models.Connection, error) {
	var conns []models.Connection
	if err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", receiverID, models.ConnectionPending).
		Order("created_at DESC, id DESC").
		Find(&conns).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return conns, nil
}

// GetAccepted retrieves accepted connections where the user is either party, newest first
func (r *PostgresConnectionRepository) GetAccepted(ctx context.Context, userID string) ([]models.Connection, error) {
	var conns []models.Connection
	if err := r.db.WithContext(ctx).
		Where("(sender_id = ? OR receiver_id = ?) AND status = ?", userID, userID, models.ConnectionAccepted).
		Order("created_at DESC, id DESC").
		Find(&conns).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return conns, nil
}

// GetAll retrieves every connection touching the user regardless of status
func (r *PostgresConnectionRepository) GetAll(ctx context.Context, userID string) ([]models.Connection, error) {
	var conns []models.Connection
	if err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&conns).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return conns, nil
}

// TransitionFromPending moves a pending connection to status in one
// conditional update. It reports false when the row was not pending.
func (r *PostgresConnectionRepository) TransitionFromPending(ctx context.Context, id uint, status models.ConnectionStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Connection{}).
		Where("id = ? AND status = ?", id, models.ConnectionPending).
		Update("status", status)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected == 1, nil
}
