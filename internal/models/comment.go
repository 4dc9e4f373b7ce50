package models

import "time"

// Comment represents a comment on a post. Stored in PostgreSQL, referenced
// from the post document by ID.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"postId" gorm:"size:64;index"` // MongoDB ObjectID as hex
	UserID    string    `json:"userId" gorm:"size:128;index"`
	UserImage string    `json:"userImage"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName,omitempty"`
	Text      string    `json:"text" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=1000"`
}
