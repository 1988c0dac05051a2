package model

import "time"

// User represents a registered account. EmailID is the primary identity;
// UserName is a unique display handle used as the quiz ID prefix.
type User struct {
	EmailID      string    `json:"email_id"`
	UserName     string    `json:"user_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// SignupRequest is the payload for registering a new user.
type SignupRequest struct {
	EmailID  string `json:"email_id" binding:"required,email,max=50"`
	UserName string `json:"user_name" binding:"required,min=3,max=20,alphanum"`
	Password string `json:"password" binding:"required,min=8,max=64"`
}

// LoginRequest is the payload for logging in.
type LoginRequest struct {
	EmailID  string `json:"email_id" binding:"required,email,max=50"`
	Password string `json:"password" binding:"required,max=64"`
}

// EditProfileRequest is the payload for changing the account's username.
type EditProfileRequest struct {
	UserName string `json:"user_name" binding:"required,min=3,max=20,alphanum"`
}
