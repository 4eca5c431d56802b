// Package users holds the user identity as reported by the profile service.
package users

import (
	"time"

	"github.com/shopweave/go-storefront-identity/shops"
)

// User is the authenticated identity behind a session. The profile service
// owns the record; this core only reads it.
type User struct {
	ID         string     `json:"id,omitempty"`
	Email      string     `json:"email,omitempty"`
	FirstName  string     `json:"first_name,omitempty"`
	LastName   string     `json:"last_name,omitempty"`
	Role       shops.Role `json:"role,omitempty"` // Global role (customer, platform_admin)
	DateJoined time.Time  `json:"date_joined,omitempty"`
	LastLogin  time.Time  `json:"last_login,omitempty"`
}

// IsCustomer reports whether the user is a global customer identity.
// Customers hold no per-shop membership rows.
func (u *User) IsCustomer() bool {
	return u != nil && u.Role == shops.RoleCustomer
}
