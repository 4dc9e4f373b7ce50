package models

import (
	"time"

	"gorm.io/gorm"
)

// ConnectionStatus is the lifecycle state of a connection
type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionRejected ConnectionStatus = "rejected"
)

// Connection is a bidirectional edge between two users. At most one row may
// exist per unordered pair; PairKey carries a unique index to enforce it.
type Connection struct {
	ID            uint             `json:"id" gorm:"primaryKey"`
	SenderID      string           `json:"senderId" gorm:"size:128;index"`
	SenderName    string           `json:"senderName"`
	SenderImage   string           `json:"senderImage"`
	ReceiverID    string           `json:"receiverId" gorm:"size:128;index"`
	ReceiverName  string           `json:"receiverName"`
	ReceiverImage string           `json:"receiverImage"`
	PairKey       string           `json:"-" gorm:"size:260;uniqueIndex"`
	Status        ConnectionStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	CreatedAt     time.Time        `json:"createdAt" gorm:"index"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// PairKey orders two user ids so that {a,b} and {b,a} map to the same key.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

// BeforeCreate fills the pair key from the participants.
func (c *Connection) BeforeCreate(tx *gorm.DB) error {
	c.PairKey = PairKey(c.SenderID, c.ReceiverID)
	return nil
}

// Sender returns the requesting party.
func (c *Connection) Sender() Party {
	return Party{ID: c.SenderID, Name: c.SenderName, Image: c.SenderImage}
}

// Receiver returns the requested party.
func (c *Connection) Receiver() Party {
	return Party{ID: c.ReceiverID, Name: c.ReceiverName, Image: c.ReceiverImage}
}

// Counterpart returns the party on the other side from userID.
func (c *Connection) Counterpart(userID string) Party {
	if c.SenderID == userID {
		return c.Receiver()
	}
	return c.Sender()
}

// CreateConnectionRequest defines the request body for sending a connection request
type CreateConnectionRequest struct {
	ReceiverID    string `json:"receiver_id" validate:"required"`
	ReceiverName  string `json:"receiver_name" validate:"required"`
	ReceiverImage string `json:"receiver_image"`
}

// UpdateConnectionRequest defines the request body for accepting/rejecting a connection request
type UpdateConnectionRequest struct {
	Status ConnectionStatus `json:"status" validate:"required,oneof=accepted rejected"`
}
