package auth

import "github.com/angelmondragon/storefront-backend/internal/users"

// RegisterRequest is the POST /api/auth/register payload.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// LoginRequest is the POST /api/auth/login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string        `json:"message"`
	Token   string        `json:"token"`
	User    users.UserDTO `json:"user"`
}

// ProfileResponse wraps the caller's account.
type ProfileResponse struct {
	User users.UserDTO `json:"user"`
}
