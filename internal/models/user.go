package models

import (
	"time"
)

// RoleCustomer is the role assigned to accounts created through registration.
const RoleCustomer = "customer"

// User represents an account in the system. Username and Email are stored
// lowercased and must be unique (case-insensitively) across non-deleted users.
type User struct {
	ID           string     `bson:"_id,omitempty" json:"id,omitempty"`
	Username     string     `bson:"username" json:"username"`
	Email        string     `bson:"email" json:"email"`
	PasswordHash string     `bson:"password" json:"-"` // Store hash, not plaintext
	IsActive     bool       `bson:"is_active" json:"is_active"`
	LastLogin    *time.Time `bson:"last_login,omitempty" json:"last_login,omitempty"`
	Role         string     `bson:"role" json:"role"`
	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time  `bson:"updatedAt" json:"updatedAt"`
}
