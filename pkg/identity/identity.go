// Package identity defines the user identity and role model.
//
// Identity is established once at session start from the CLI arguments or the
// web session request and is never mutated afterward. There is no privilege
// escalation path through conversation content.
package identity

import "fmt"

type Role string

const (
	// RoleEndUser can create tickets and view their own tickets.
	RoleEndUser Role = "end_user"
	// RoleServiceDesk can view all tickets and update ticket status.
	RoleServiceDesk Role = "service_desk_agent"
)

// DefaultRole is applied when no role is supplied at session start.
const DefaultRole = RoleEndUser

// ParseRole validates a role string. An empty string resolves to DefaultRole.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleEndUser, RoleServiceDesk:
		return Role(s), nil
	case "":
		return DefaultRole, nil
	}
	return "", fmt.Errorf("unknown role %q: must be %q or %q", s, RoleEndUser, RoleServiceDesk)
}

// Privileged reports whether the role may see all tickets and mutate status.
func (r Role) Privileged() bool {
	return r == RoleServiceDesk
}

type User struct {
	ID   string
	Role Role
}

// NewUser builds a user identity, applying the documented default role when
// none is given.
func NewUser(id, role string) (User, error) {
	if id == "" {
		return User{}, fmt.Errorf("user id is required")
	}
	r, err := ParseRole(role)
	if err != nil {
		return User{}, err
	}
	return User{ID: id, Role: r}, nil
}
