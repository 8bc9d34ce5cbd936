// Package domain contains the core business entities and types.
package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents an account in the kitchen. Guests are ordinary user rows
// with the guest role, a generated name and no usable password.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email,omitempty" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never expose password hash
	Role         string    `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	LastSeenAt   time.Time `json:"last_seen_at" db:"last_seen_at"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserRole defines valid user roles.
type UserRole string

const (
	RoleGuest UserRole = "guest"
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// IsGuest reports whether the user is a guest account.
func (u *User) IsGuest() bool {
	return u.Role == string(RoleGuest)
}

// CreateUserRequest represents the data needed to register a new user.
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PromoteRequest carries the credentials a guest supplies to become a full
// account. The guest keeps its ID and recipes.
type PromoteRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest represents the data that can be updated for a user.
type UpdateUserRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// LoginRequest represents the data needed for user login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest represents the data needed for token refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserResponse represents a user in API responses (without sensitive data).
type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email,omitempty"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"is_active"`
	LastSeenAt time.Time `json:"last_seen_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToResponse converts a User to UserResponse.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		IsActive:   u.IsActive,
		LastSeenAt: u.LastSeenAt,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// Validate validates the create user request.
func (r *CreateUserRequest) Validate() error {
	if err := validateUsername(r.Username); err != nil {
		return fmt.Errorf("username: %w", err)
	}
	if err := validateEmail(r.Email); err != nil {
		return fmt.Errorf("email: %w", err)
	}
	if err := validatePassword(r.Password); err != nil {
		return fmt.Errorf("password: %w", err)
	}
	return nil
}

// Validate validates the promote request.
func (r *PromoteRequest) Validate() error {
	if err := validateUsername(r.Username); err != nil {
		return fmt.Errorf("username: %w", err)
	}
	if err := validateEmail(r.Email); err != nil {
		return fmt.Errorf("email: %w", err)
	}
	if err := validatePassword(r.Password); err != nil {
		return fmt.Errorf("password: %w", err)
	}
	return nil
}

// Validate validates the login request.
func (r *LoginRequest) Validate() error {
	if err := validateEmail(r.Email); err != nil {
		return fmt.Errorf("email: %w", err)
	}
	if r.Password == "" {
		return fmt.Errorf("password: password is required")
	}
	return nil
}

// Validate validates the refresh request.
func (r *RefreshRequest) Validate() error {
	if r.RefreshToken == "" {
		return fmt.Errorf("refresh_token: refresh token is required")
	}
	return nil
}

// Validate validates the update user request.
func (r *UpdateUserRequest) Validate() error {
	if r.Username != "" {
		if err := validateUsername(r.Username); err != nil {
			return fmt.Errorf("username: %w", err)
		}
	}
	if r.Email != "" {
		if err := validateEmail(r.Email); err != nil {
			return fmt.Errorf("email: %w", err)
		}
	}
	if r.Role != "" {
		if err := validateRole(r.Role); err != nil {
			return fmt.Errorf("role: %w", err)
		}
	}
	if r.Username == "" && r.Email == "" && r.Role == "" && r.IsActive == nil {
		return fmt.Errorf("at least one field must be provided")
	}
	return nil
}

// validateUsername validates username format and length.
func validateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if len(username) < 3 {
		return fmt.Errorf("username must be at least 3 characters")
	}
	if len(username) > 50 {
		return fmt.Errorf("username must be at most 50 characters")
	}
	if !regexp.MustCompile(`^[a-zA-Z0-9_]+$`).MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, and underscores")
	}
	return nil
}

// validateEmail validates email format.
func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > 255 {
		return fmt.Errorf("email must be at most 255 characters")
	}
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// validatePassword validates password strength.
func validatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if len(password) > 72 { // bcrypt limit
		return fmt.Errorf("password must be at most 72 characters")
	}
	return nil
}

// validateRole validates user role.
func validateRole(role string) error {
	switch UserRole(strings.ToLower(role)) {
	case RoleGuest, RoleUser, RoleAdmin:
		return nil
	}
	return fmt.Errorf("invalid role, must be 'guest', 'user' or 'admin'")
}
