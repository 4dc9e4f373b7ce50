package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Author is the post owner's profile copied into the post at write time
type Author struct {
	UserID    string `json:"userId" bson:"user_id"`
	UserImage string `json:"userImage" bson:"user_image"`
	FirstName string `json:"firstName" bson:"first_name"`
	LastName  string `json:"lastName,omitempty" bson:"last_name,omitempty"`
}

// PostSnapshot is a frozen copy of a post embedded in a quote-repost
type PostSnapshot struct {
	ID        string    `json:"id" bson:"id"`
	Author    Author    `json:"author" bson:"author"`
	Text      string    `json:"text" bson:"text"`
	ImageURL  string    `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	VideoURL  string    `json:"videoUrl,omitempty" bson:"video_url,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// Post represents a social media post stored in MongoDB
type Post struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Author         Author             `json:"author" bson:"author"`
	Text           string             `json:"text" bson:"text"`
	ImageURL       string             `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	VideoURL       string             `json:"videoUrl,omitempty" bson:"video_url,omitempty"`
	ImageURLs      []string           `json:"imageUrls" bson:"image_urls"`
	VideoURLs      []string           `json:"videoUrls" bson:"video_urls"`
	Likes          []string           `json:"likes" bson:"likes"`
	CommentIDs     []uint             `json:"-" bson:"comment_ids"` // newest first
	Comments       []Comment          `json:"comments" bson:"-"`
	IsRepost       bool               `json:"isRepost" bson:"is_repost"`
	OriginalPostID string             `json:"originalPostId,omitempty" bson:"original_post_id,omitempty"`
	OriginalAuthor *Author            `json:"originalAuthor,omitempty" bson:"original_author,omitempty"`
	OriginalPost   *PostSnapshot      `json:"originalPost,omitempty" bson:"original_post,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updated_at"`
}

// Snapshot copies the fields a quote-repost embeds.
func (p *Post) Snapshot() *PostSnapshot {
	return &PostSnapshot{
		ID:        p.ID.Hex(),
		Author:    p.Author,
		Text:      p.Text,
		ImageURL:  p.ImageURL,
		VideoURL:  p.VideoURL,
		CreatedAt: p.CreatedAt,
	}
}

// PostPreview is the reduced projection used for link previews
type PostPreview struct {
	ID        string    `json:"id"`
	Author    Author    `json:"author"`
	Text      string    `json:"text"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Preview projects the post for link previews.
func (p *Post) Preview() PostPreview {
	return PostPreview{
		ID:        p.ID.Hex(),
		Author:    Author{FirstName: p.Author.FirstName, LastName: p.Author.LastName, UserImage: p.Author.UserImage},
		Text:      p.Text,
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt,
	}
}

// HasLike reports whether userID is in the like set.
func (p *Post) HasLike(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Text      string   `json:"text" validate:"required,min=1,max=3000"`
	ImageURL  string   `json:"image_url,omitempty" validate:"omitempty,url"`
	VideoURL  string   `json:"video_url,omitempty" validate:"omitempty,url"`
	ImageURLs []string `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
	VideoURLs []string `json:"video_urls,omitempty" validate:"omitempty,dive,url"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Text string `json:"text" validate:"required,min=1,max=3000"`
}

// RepostRequest defines the request body for a quote-repost
type RepostRequest struct {
	Thoughts string `json:"thoughts" validate:"required,min=1,max=3000"`
}
