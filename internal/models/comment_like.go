package models

import "time"

// CommentLike represents a like on a comment
type CommentLike struct {
	CommentID uint      `json:"comment_id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"primaryKey;index"`
	CreatedAt time.Time `json:"created_at"`
}
