package domain

import "time"

// User represents a registered user.
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Theme         string    `json:"theme"`
	Language      string    `json:"language"`
	Notifications bool      `json:"notifications"`
	CreatedAt     time.Time `json:"joined"`
}

// SignupRequest is the request to create an account.
type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is the request to authenticate.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the bearer token issued on signup/login.
type AuthResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// UpdateProfileRequest is the request to update profile settings. Empty
// fields are left unchanged; a non-empty password is re-hashed.
type UpdateProfileRequest struct {
	Username      string `json:"username,omitempty"`
	Email         string `json:"email,omitempty"`
	Theme         string `json:"theme,omitempty"`
	Language      string `json:"language,omitempty"`
	Notifications *bool  `json:"notifications,omitempty"`
	Password      string `json:"password,omitempty"`
}
