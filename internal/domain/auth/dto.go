package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/visitswap/visitswap-api/internal/domain/user"
)

// RegisterRequest for POST /register
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// LoginRequest for POST /login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest for POST /forgot-password
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest for POST /reset-password/{token}
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// UserResponse represents user in API response
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Verified  bool      `json:"verified"`
	Credits   int       `json:"credits"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserResponseFromEntity converts entity to response
func UserResponseFromEntity(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Verified:  u.Verified,
		Credits:   u.Credits,
		CreatedAt: u.CreatedAt,
	}
}

// AuthResponse returned after login
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expiresIn"`
	User      UserResponse `json:"user"`
}

// MessageResponse carries a human-readable outcome
type MessageResponse struct {
	Message string `json:"message"`
}
