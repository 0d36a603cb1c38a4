package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskhub/pkg/domain/types"
)

// User is the acting identity resolved from the user store
type User struct {
	ID         string
	Name       string
	Email      string
	Role       types.Role
	Department string
}

// Validate checks required fields
func (u *User) Validate() error {
	if u == nil {
		return goerr.New("user is nil")
	}
	if u.ID == "" {
		return goerr.New("user ID is required")
	}
	return nil
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role.IsAdmin()
}
