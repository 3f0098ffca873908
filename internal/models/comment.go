package models

import "time"

// Comment represents a comment on a post. A comment with a ParentID is a reply.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"index;not null"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	User      *User     `json:"user,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	ParentID  *uint     `json:"parent_id" gorm:"index"`
	Content   string    `json:"content" gorm:"not null"`
	Pinned    bool      `json:"pinned"`
	LikeCount int64     `json:"like_count" gorm:"->;-:migration"` // filled by a subquery on reads
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCommentRequest defines the request body for creating a comment or a reply
type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=1000"`
	ParentID *uint  `json:"parent_id"`
}

// UpdateCommentRequest edits the content (author) or the pinned flag (post owner)
type UpdateCommentRequest struct {
	Content *string `json:"content" validate:"omitempty,min=1,max=1000"`
	Pinned  *bool   `json:"pinned"`
}

type CommentResponse struct {
	ID               uint         `json:"id"`
	User             *UserCompact `json:"user"`
	UserID           uint         `json:"user_id"`
	Post             uint         `json:"post"`
	PostUserID       *uint        `json:"post_user_id"`
	Parent           *uint        `json:"parent"`
	TopLevelParentID *uint        `json:"top_level_parent_id"`
	Content          string       `json:"content"`
	LikeCount        int64        `json:"like_count"`
	Liked            bool         `json:"liked"`
	Pinned           bool         `json:"pinned"`
	ReplyCount       int          `json:"reply_count"`
	Depth            int          `json:"depth"`
	CreatedAt        time.Time    `json:"created_at"`
}
