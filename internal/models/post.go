package models

import "time"

// Post represents a user post. Posts survive the deletion of their author.
type Post struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	UserID      *uint     `json:"user_id" gorm:"index"`
	User        *User     `json:"user,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	Tags        []Tag     `json:"tags" gorm:"many2many:post_tags"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Tag struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;size:50;not null"`
}

// CreatePostRequest is bound from JSON or multipart form data. Tags may be
// sent as repeated fields or as a single comma separated value.
type CreatePostRequest struct {
	Title       string   `json:"title" form:"title" validate:"required,max=255"`
	Description string   `json:"description" form:"description"`
	Tags        []string `json:"tags" form:"tags" validate:"max=20"`
}

type PostResponse struct {
	ID            uint         `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Image         string       `json:"image"`
	User          *UserCompact `json:"user"`
	Tags          []string     `json:"tags"`
	LikesCount    int64        `json:"likes_count"`
	CommentsCount int64        `json:"comments_count"`
	Liked         bool         `json:"liked"`
	Saved         bool         `json:"saved"`
	CreatedAt     time.Time    `json:"created_at"`
}
