package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is an account row. The public part of it is exposed as Profile.
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FirebaseUID *string   `json:"-" gorm:"uniqueIndex"`
	Email       string    `json:"-" gorm:"uniqueIndex"`
	Password    string    `json:"-"` // bcrypt hash, empty for firebase accounts
	Username    string    `json:"username" gorm:"size:50;uniqueIndex"`
	Name        string    `json:"name" gorm:"size:100"`
	Bio         string    `json:"bio"`
	Work        string    `json:"work"`
	AvatarURL   string    `json:"avatar_url"`
	CoverURL    string    `json:"cover_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Profile is the public projection of a User.
type Profile struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Bio       string `json:"bio,omitempty"`
	Work      string `json:"work,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	CoverURL  string `json:"cover_url,omitempty"`
}

// ToProfile returns the public projection of the user.
func (u *User) ToProfile() Profile {
	return Profile{
		UserID:    u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Bio:       u.Bio,
		Work:      u.Work,
		AvatarURL: u.AvatarURL,
		CoverURL:  u.CoverURL,
	}
}

// UnknownProfile stands in for an author whose profile row is missing.
func UnknownProfile(userID uint) Profile {
	return Profile{
		UserID:   userID,
		Username: "unknown",
		Name:     "Unknown User",
	}
}

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Username  *string `json:"username,omitempty" validate:"omitempty,min=3,max=50,alphanum"`
	Name      *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Bio       *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Work      *string `json:"work,omitempty" validate:"omitempty,max=100"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	CoverURL  *string `json:"cover_url,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
