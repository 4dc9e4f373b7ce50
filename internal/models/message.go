package models

import "time"

// Message is a direct message between two users. Only Read ever changes.
type Message struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	SenderID      string    `json:"senderId" gorm:"size:128;index"`
	SenderName    string    `json:"senderName"`
	SenderImage   string    `json:"senderImage"`
	ReceiverID    string    `json:"receiverId" gorm:"size:128;index:idx_messages_receiver_read"`
	ReceiverName  string    `json:"receiverName"`
	ReceiverImage string    `json:"receiverImage"`
	Content       string    `json:"content" gorm:"type:text"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	Read          bool      `json:"read" gorm:"default:false;index:idx_messages_receiver_read"`
	CreatedAt     time.Time `json:"createdAt" gorm:"index"`
}

// Peer returns the participant that is not userID.
func (m *Message) Peer(userID string) Party {
	if m.SenderID == userID {
		return Party{ID: m.ReceiverID, Name: m.ReceiverName, Image: m.ReceiverImage}
	}
	return Party{ID: m.SenderID, Name: m.SenderName, Image: m.SenderImage}
}

// ConversationSummary is derived from messages on every read, never stored.
type ConversationSummary struct {
	PeerUserID         string    `json:"peerUserId"`
	PeerName           string    `json:"peerName"`
	PeerImage          string    `json:"peerImage"`
	LastMessageContent string    `json:"lastMessageContent"`
	LastMessageImage   string    `json:"lastMessageImage,omitempty"`
	LastMessageTime    time.Time `json:"lastMessageTime"`
	HasUnread          bool      `json:"hasUnread"`
}

// SendMessageRequest defines the request body for sending a direct message
type SendMessageRequest struct {
	ReceiverID    string `json:"receiver_id" validate:"required"`
	ReceiverName  string `json:"receiver_name" validate:"required"`
	ReceiverImage string `json:"receiver_image"`
	Content       string `json:"content" validate:"required_without=ImageURL,max=5000"`
	ImageURL      string `json:"image_url" validate:"omitempty,url"`
}

// SharePostRequest defines the request body for sending a post to connections
type SharePostRequest struct {
	RecipientIDs []string `json:"recipient_ids" validate:"required,min=1,dive,required"`
}
