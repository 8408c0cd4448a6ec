package domain

import (
	"time"
)

// Roles a user can hold. Every self-registered account starts as RoleUser;
// RoleAdmin is assigned out of band.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered diary author.
type User struct {
	ID            int64     `json:"id"`
	Nickname      string    `json:"nickname"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Role          string    `json:"role"`
	EmailVerified bool      `json:"email_verified"`
	ProfileImage  string    `json:"profile_image,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TokenPair holds an access and refresh token pair issued at login or refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
