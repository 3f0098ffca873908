package models

import "time"

// PostLike is a row of the post likes join table. The composite key makes a
// second like by the same user a no-op.
type PostLike struct {
	PostID    uint      `json:"post_id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"primaryKey;index"`
	CreatedAt time.Time `json:"created_at"`
}

func (PostLike) TableName() string {
	return "post_likes"
}
