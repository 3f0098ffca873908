package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type Gender string

const (
	GenderPreferNotSay Gender = "PreferNotSay"
	GenderMale         Gender = "Male"
	GenderFemale       Gender = "Female"
)

// AccountTypes lists the values accepted for UserProfile.AccountType
var AccountTypes = []string{
	"Artist", "Entrepreneur", "Doctor", "Engineer", "Influencer",
	"Designer", "Photographer", "Writer", "Musician", "Chef",
	"Athlete", "Teacher", "Scientist", "Lawyer", "Student",
	"Investor", "Freelancer", "Journalist", "Consultant", "Traveler",
}

type User struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Username    string       `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email       string       `json:"email" gorm:"uniqueIndex;not null"`
	Password    string       `json:"-"` // bcrypt hash
	FirstName   string       `json:"first_name" gorm:"size:150"`
	LastName    string       `json:"last_name" gorm:"size:150"`
	IsSuperuser bool         `json:"is_superuser"`
	FirebaseUID *string      `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // Link to Firebase User UID
	Profile     *UserProfile `json:"profile,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// UserProfile carries the public, editable part of an account
type UserProfile struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	Bio          string    `json:"bio" gorm:"size:125"`
	Gender       Gender    `json:"gender" gorm:"size:20;default:PreferNotSay"`
	AccountType  string    `json:"account_type" gorm:"size:50"`
	ProfileImage string    `json:"profile_image"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=1,max=150"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest holds the optional fields of PUT /users/:username.
// Nil pointers are left untouched.
type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name" form:"first_name" validate:"omitempty,max=150"`
	LastName    *string `json:"last_name" form:"last_name" validate:"omitempty,max=150"`
	Bio         *string `json:"bio" form:"bio" validate:"omitempty,max=125"`
	Gender      *string `json:"gender" form:"gender" validate:"omitempty,oneof=PreferNotSay Male Female"`
	AccountType *string `json:"account_type" form:"account_type" validate:"omitempty,account_type"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// UserCompact is the embedded author representation used by posts and comments
type UserCompact struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	ProfileImage string `json:"profile_image"`
	IsVerified   bool   `json:"is_verified"`
}

func (u *User) ToCompact() UserCompact {
	compact := UserCompact{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
	if u.Profile != nil {
		compact.ProfileImage = u.Profile.ProfileImage
		compact.IsVerified = u.Profile.IsVerified
	}
	return compact
}

// ProfileResponse is the serialized form of GET /users/:username
type ProfileResponse struct {
	ID             uint        `json:"id"`
	User           UserCompact `json:"user"`
	Email          string      `json:"email,omitempty"`
	Bio            string      `json:"bio"`
	Gender         Gender      `json:"gender"`
	AccountType    string      `json:"account_type"`
	ProfileImage   string      `json:"profile_image"`
	IsVerified     bool        `json:"is_verified"`
	PostsCount     int64       `json:"posts_count"`
	FollowersCount int64       `json:"followers_count"`
	FollowingCount int64       `json:"following_count"`
	IsFollowing    bool        `json:"is_following"`
	IsSelf         bool        `json:"is_self"`
}
