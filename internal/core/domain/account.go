package domain

import (
	"errors"
	"time"
)

// Errors returned by the local contract server's account layer.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
)

// Account is a registered user as the contract server stores it.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Extra holds profile fields the server does not interpret.
	Extra map[string]any `json:"extra,omitempty"`
}

// Profile is the public view of the account sent to clients.
func (a *Account) Profile() *UserProfile {
	extra := make(map[string]any, len(a.Extra)+1)
	for k, v := range a.Extra {
		extra[k] = v
	}
	extra["createdAt"] = a.CreatedAt.Format(time.RFC3339)
	return &UserProfile{
		ID:    Identifier(a.ID),
		Name:  a.Name,
		Email: a.Email,
		Extra: extra,
	}
}

// Clone copies a, including Extra.
func (a *Account) Clone() *Account {
	c := *a
	if a.Extra != nil {
		c.Extra = make(map[string]any, len(a.Extra))
		for k, v := range a.Extra {
			c.Extra[k] = v
		}
	}
	return &c
}
