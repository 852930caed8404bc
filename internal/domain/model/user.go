package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered storefront customer.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Profile roles. Only admins reach the administration endpoints.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Profile holds user editable account details.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"displayName"`
	Username    string    `json:"username"`
	AvatarURL   string    `json:"avatarUrl"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	Role        string    `json:"role"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the profile carries the admin role.
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// ProfileUpdate carries editable profile fields.
type ProfileUpdate struct {
	DisplayName string
	Username    string
	AvatarURL   string
	Phone       string
	Address     string
}
