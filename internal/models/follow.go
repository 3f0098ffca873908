package models

import "time"

// Follow links a follower profile to the profile it follows
type Follow struct {
	UserProfileID uint      `json:"user_profile_id" gorm:"primaryKey"`
	FollowingID   uint      `json:"following_id" gorm:"primaryKey;index"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Follow) TableName() string {
	return "user_profile_following"
}
