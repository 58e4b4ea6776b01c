package domain

import (
	"fmt"
	"time"
)

// Role is decoded once at session-parse time. There is no "role claim is
// truthy" dispatch anywhere else.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleAdmin:
		return Role(s), nil
	case "":
		// absent role claim means a plain customer
		return RoleCustomer, nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// Session is the parsed form of the signed token issued by the auth provider.
type Session struct {
	Subject     string
	Role        Role
	AccessToken string
	ExpiresAt   time.Time
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// Profile is owned by the backend and cached client-side only for the
// lifetime of the session.
type Profile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}
