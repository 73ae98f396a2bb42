/*
Package user contains the user record and its persistence contract.

The User struct is the single representation of an account shared by every
component: the session middleware resolves it, the authorization policy
inspects it, and handlers serialize its public view. It is constructed only
by the repository (or by handler code at registration time) so no duck-typed
user shapes travel across layers.
*/
package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Role is the enumerated category on a user record used for coarse-grained
// authorization decisions.
type Role string

const (
	// RoleAdmin can manage blog content and view admin pages.
	RoleAdmin Role = "admin"

	// RoleStandard is the default role assigned at registration.
	RoleStandard Role = "standard"

	// RoleChatbot marks service accounts used by the chat integration.
	RoleChatbot Role = "chatbot"

	// RoleDemo marks throwaway demonstration accounts.
	RoleDemo Role = "demo"
)

// Sentinel errors returned by Repository implementations.
var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when a create collides with an existing email.
	ErrEmailTaken = errors.New("email already registered")
)

// User represents a single account record.
type User struct {
	// ID is the opaque unique identifier for the account.
	ID string `json:"id"`

	// Name is the display name shown in the UI.
	Name string `json:"name"`

	// Email is the unique, case-normalized login identifier.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the account password.
	// It never appears in serialized output.
	PasswordHash string `json:"-"`

	// Role is the account's authorization category.
	Role Role `json:"role"`

	// Licensed gates access to the chat assistant, independent of Role.
	Licensed bool `json:"licensed"`

	// Avatar is an optional avatar image URL.
	Avatar string `json:"avatar,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PublicUser is the subset of a user record that may be returned to clients.
type PublicUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Licensed bool   `json:"licensed"`
	Avatar   string `json:"avatar,omitempty"`
}

// Public returns the client-safe view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		Licensed: u.Licensed,
		Avatar:   u.Avatar,
	}
}

// NormalizeEmail lowercases and trims an email address so that lookups and
// the uniqueness constraint agree on one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Repository is the persistence contract for user records.
type Repository interface {
	// Create stores a new user. ErrEmailTaken is returned on a duplicate email.
	Create(ctx context.Context, u *User) error

	// GetByEmail looks up a user by normalized email. ErrNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID looks up a user by identifier. ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (*User, error)
}
