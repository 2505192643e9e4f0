package models

import (
	"strings"

	"moneytracker/pkg/apperr"
)

// Role is the authorization level attached to a user.
type Role string

const (
	RoleUser       Role = "user"
	RoleSuperadmin Role = "superadmin"
)

var ErrInvalidRole = apperr.New(apperr.Unprocessable, "role must be one of: user, superadmin")

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleSuperadmin
}

// ParseRole validates a role received at the boundary. An empty value means
// the default role.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RoleUser, nil
	}
	r := Role(s)
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}
