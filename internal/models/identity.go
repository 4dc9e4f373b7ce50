package models

import (
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

// Identity is the verified caller supplied by the identity provider
type Identity struct {
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	ImageURL  string `json:"imageUrl"`
}

// DisplayName joins first and last name, skipping empty parts.
func (i Identity) DisplayName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

// Party returns the identity as denormalized actor metadata.
func (i Identity) Party() Party {
	return Party{ID: i.UserID, Name: i.DisplayName(), Image: i.ImageURL}
}

// Author returns the identity as post author metadata.
func (i Identity) Author() Author {
	return Author{UserID: i.UserID, UserImage: i.ImageURL, FirstName: i.FirstName, LastName: i.LastName}
}

// Party is actor metadata copied by value into connections, messages and
// notifications at write time.
type Party struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Image string `json:"image"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID    string `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	ImageURL  string `json:"image_url"`
	jwt.RegisteredClaims
}

// Identity converts the claims into the caller identity.
func (c *JwtCustomClaims) Identity() Identity {
	return Identity{UserID: c.UserID, FirstName: c.FirstName, LastName: c.LastName, ImageURL: c.ImageURL}
}
