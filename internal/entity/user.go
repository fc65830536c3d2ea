package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownRole is returned when a role name is outside the closed set.
var ErrUnknownRole = errors.New("unknown role")

// Role is the authorization level assigned to a user.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Roles lists every role in declaration order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleUser}
}

// ParseRole resolves a role name case-insensitively.
func ParseRole(value string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(value)))
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, value)
	}
	return role, nil
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// User is a registered account as persisted in the users table.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
