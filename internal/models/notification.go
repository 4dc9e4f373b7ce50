package models

import "time"

// NotificationType discriminates the notification variants
type NotificationType string

const (
	NotificationLike               NotificationType = "like"
	NotificationComment            NotificationType = "comment"
	NotificationConnectionRequest  NotificationType = "connection_request"
	NotificationConnectionAccepted NotificationType = "connection_accepted"
	NotificationMessage            NotificationType = "message"
	NotificationProfileView        NotificationType = "profile_view"
)

// Notification represents a user notification (PostgreSQL)
type Notification struct {
	ID         uint             `json:"id" gorm:"primaryKey"`
	UserID     string           `json:"userId" gorm:"size:128;index"` // recipient
	ActorID    string           `json:"actorId" gorm:"size:128;index"`
	ActorName  string           `json:"actorName"`
	ActorImage string           `json:"actorImage"`
	Type       NotificationType `json:"type" gorm:"size:30;index"`
	PostID     string           `json:"postId,omitempty" gorm:"size:64"`
	Message    string           `json:"message"`
	Read       bool             `json:"read" gorm:"default:false;index"`
	CreatedAt  time.Time        `json:"createdAt" gorm:"index"`
}

// Event is the closed set of things a user can be notified about. Each
// variant carries only its own payload.
type Event interface {
	Type() NotificationType
	Describe(actorName string) string
	postID() string
}

// LikeEvent: the actor liked one of the recipient's posts.
type LikeEvent struct{ PostID string }

// CommentEvent: the actor commented on one of the recipient's posts.
type CommentEvent struct{}

// ConnectionRequestEvent: the actor asked to connect.
type ConnectionRequestEvent struct{}

// ConnectionAcceptedEvent: the actor accepted the recipient's request.
type ConnectionAcceptedEvent struct{}

// MessageEvent: the actor sent the recipient a message.
type MessageEvent struct{}

// ProfileViewEvent: the actor viewed the recipient's profile.
type ProfileViewEvent struct{}

func (LikeEvent) Type() NotificationType               { return NotificationLike }
func (CommentEvent) Type() NotificationType            { return NotificationComment }
func (ConnectionRequestEvent) Type() NotificationType  { return NotificationConnectionRequest }
func (ConnectionAcceptedEvent) Type() NotificationType { return NotificationConnectionAccepted }
func (MessageEvent) Type() NotificationType            { return NotificationMessage }
func (ProfileViewEvent) Type() NotificationType        { return NotificationProfileView }

func (LikeEvent) Describe(actor string) string    { return actor + " liked your post" }
func (CommentEvent) Describe(actor string) string { return actor + " commented on your post" }
func (ConnectionRequestEvent) Describe(actor string) string {
	return actor + " sent you a connection request"
}
func (ConnectionAcceptedEvent) Describe(actor string) string {
	return actor + " accepted your connection request"
}
func (MessageEvent) Describe(actor string) string     { return actor + " sent you a message" }
func (ProfileViewEvent) Describe(actor string) string { return actor + " viewed your profile" }

func (e LikeEvent) postID() string             { return e.PostID }
func (CommentEvent) postID() string            { return "" }
func (ConnectionRequestEvent) postID() string  { return "" }
func (ConnectionAcceptedEvent) postID() string { return "" }
func (MessageEvent) postID() string            { return "" }
func (ProfileViewEvent) postID() string        { return "" }

// NewNotification builds the record for recipient about event performed by actor.
func NewNotification(recipientID string, actor Party, event Event) *Notification {
	return &Notification{
		UserID:     recipientID,
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		ActorImage: actor.Image,
		Type:       event.Type(),
		PostID:     event.postID(),
		Message:    event.Describe(actor.Name),
	}
}
