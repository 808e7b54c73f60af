package domain

import (
	"errors"
	"strings"
	"time"
)

// Role is the closed set of authorization roles a user can hold. Authorization
// decisions map roles to path tiers directly; there is no string-prefixed
// authority construction.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ErrUnknownRole reports a role name outside the closed set.
var ErrUnknownRole = errors.New("domain: unknown role")

// ParseRole maps a role name (case-insensitive) to a Role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(RoleUser):
		return RoleUser, nil
	case string(RoleAdmin):
		return RoleAdmin, nil
	default:
		return "", ErrUnknownRole
	}
}

func (r Role) String() string { return string(r) }

// IsValid reports whether the role is a member of the closed set.
func (r Role) IsValid() bool { return r == RoleUser || r == RoleAdmin }

type User struct {
	ID           string
	Username     string
	Nickname     string
	PasswordHash string // bcrypt encoded
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the request-scoped authenticated principal attached by the
// authentication gate and consumed by authorization middleware and handlers.
// It is carried explicitly through the request context, never ambient state.
type Identity struct {
	UserID   string
	Username string
	Nickname string
	Role     Role
}
