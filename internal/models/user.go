package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the authorization role of a user
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a registered customer or administrator
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	Phone        NullString `json:"phone" db:"phone"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         Role       `json:"role" db:"role"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

// UserSummary is the public subset of a user embedded in other resources
type UserSummary struct {
	ID    uuid.UUID  `json:"id" db:"id"`
	Name  string     `json:"name" db:"name"`
	Email string     `json:"email" db:"email"`
	Phone NullString `json:"phone" db:"phone"`
}

// Summary returns the public subset of the user
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}

// IsAdmin checks if the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// RegisterRequest represents the request to register a new user
type RegisterRequest struct {
	Name     string  `json:"name" validate:"required,trimmed_min=2"`
	Email    string  `json:"email" validate:"required,email_address"`
	Password string  `json:"password" validate:"required,min=6"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,id_phone"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email_address"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
	User      *User  `json:"user"`
}

// UpdateProfileRequest represents a partial profile update
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,trimmed_min=2"`
	Email *string `json:"email,omitempty" validate:"omitempty,email_address"`
}

// IsEmpty reports whether no field was supplied
func (r *UpdateProfileRequest) IsEmpty() bool {
	return (r.Name == nil || *r.Name == "") && (r.Email == nil || *r.Email == "")
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// UserFilter holds the admin user list filters
type UserFilter struct {
	Role *Role
}
