package models

import "time"

// SavedPost represents a bookmarked post. The row existing is the saved state.
type SavedPost struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserProfileID uint      `json:"user_profile_id" gorm:"index;uniqueIndex:idx_profile_post_save"`
	PostID        uint      `json:"post_id" gorm:"index;uniqueIndex:idx_profile_post_save"`
	Post          *Post     `json:"post,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time `json:"created_at"`
}

type SavePostRequest struct {
	PostID uint `json:"post_id" validate:"required"`
}
