// Package models defines server-side data models persisted in the database.
package models

import "time"

// Roles assignable to a user account.
const (
	RoleAdmin  = "ADMIN"
	RoleEditor = "EDITOR"
	RoleUser   = "USER"
)

// ValidRole reports whether role is one of the known role constants.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEditor || role == RoleUser
}

// User mirrors an identity-provider account plus local attributes.
// ID is the identifier issued by the identity provider on registration.
// APIKey is never serialized into responses; it is exposed only through the
// dedicated api-key endpoint.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	APIKey    string    `json:"-"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
