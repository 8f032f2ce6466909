package identity

import (
	"time"

	"github.com/smartinventory/backend/internal/domain/identity"
)

// LoginInput represents login credentials
type LoginInput struct {
	Username string
	Password string
}

// RegisterInput describes a new operator account
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     string
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// LoginResult is a signed access token and the user it was issued to
type LoginResult struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// ToUserResponse converts a user to its response DTO
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        string(u.Role),
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
	}
}
