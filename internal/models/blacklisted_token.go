package models

import "time"

// BlacklistedToken records a revoked refresh token by its jti
type BlacklistedToken struct {
	JTI       string    `json:"jti" gorm:"primaryKey;size:64"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}
