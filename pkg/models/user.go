// Package models contains domain types for the booking engine.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role identifies what a user may do in the marketplace.
type Role string

// Role constants for user accounts.
const (
	RoleGuest Role = "guest"
	RoleHost  Role = "host"
	RoleAdmin Role = "admin"
)

// ValidRoles contains all valid role values.
var ValidRoles = []Role{RoleGuest, RoleHost, RoleAdmin}

// IsValidRole checks if the given role is valid.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if string(r) == role {
			return true
		}
	}
	return false
}

// ParseRole converts a string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	if !IsValidRole(s) {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return Role(s), nil
}

// User is a marketplace account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	DateJoined   time.Time `json:"date_joined"`
}

// GuestProfile holds guest-specific data. Preferences are stored as submitted;
// TravelReason is the human-readable summary derived from them.
type GuestProfile struct {
	UserID       uuid.UUID   `json:"user_id"`
	Preferences  Preferences `json:"preferences"`
	TravelReason string      `json:"travel_reason"`
}

// HostProfile holds host-specific data.
type HostProfile struct {
	UserID   uuid.UUID `json:"user_id"`
	Bio      string    `json:"bio"`
	Verified bool      `json:"verified"`
}

// UserDetails is the user together with whichever profile matches its role.
type UserDetails struct {
	User
	GuestProfile *GuestProfile `json:"guest_profile,omitempty"`
	HostProfile  *HostProfile  `json:"host_profile,omitempty"`
}
