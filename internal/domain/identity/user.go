package identity

import (
	"net/mail"
	"strings"
	"time"

	"github.com/smartinventory/backend/internal/domain/shared"
)

// Role grants access to groups of operations
type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleSalesStaff Role = "SalesStaff"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleSalesStaff
}

// ParseRole accepts the exact role names.
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimSpace(s))
	if !r.IsValid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// User is an operator of the system.
type User struct {
	shared.BaseEntity
	Username     string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Email        string `gorm:"type:varchar(200);not null;uniqueIndex"`
	FullName     string `gorm:"type:varchar(200);not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	Role         Role   `gorm:"type:varchar(20);not null"`
	IsActive     bool   `gorm:"not null"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser validates identity fields. passwordHash must already be hashed.
func NewUser(username, email, fullName, passwordHash string, role Role, now time.Time) (*User, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 50 {
		return nil, shared.NewValidationError("Username must be between 3 and 50 characters")
	}
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, shared.NewValidationError("Invalid email address")
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	if passwordHash == "" {
		return nil, shared.NewValidationError("Password is required")
	}

	u := &User{
		Username:     username,
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
	}
	u.Touch(now)
	return u, nil
}

// IsAdmin reports whether the user holds the Admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// RecordLogin stamps a successful login.
func (u *User) RecordLogin(now time.Time) {
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

var (
	ErrInvalidCredentials = shared.NewDomainError(shared.CodeUnauthorized, "Invalid username or password")
	ErrUserDisabled       = shared.NewDomainError(shared.CodeUnauthorized, "User account is disabled")
	ErrUsernameExists     = shared.NewDomainError(shared.CodeAlreadyExists, "Username already exists")
	ErrEmailExists        = shared.NewDomainError(shared.CodeAlreadyExists, "Email already exists")
	ErrInvalidRole        = shared.NewValidationError("Invalid role")
	ErrUserNotFound       = shared.NewNotFoundError("User not found")
)
