// Package gate decides whether a screen may render for the current session.
package gate

import "parking-client/internal/models"

// Decision is the outcome of a capability check
type Decision int

const (
	// Loading means the session is not hydrated yet; show a neutral
	// placeholder, never protected content
	Loading Decision = iota
	Allowed
	Denied
)

func (d Decision) String() string {
	switch d {
	case Loading:
		return "loading"
	case Allowed:
		return "allowed"
	default:
		return "denied"
	}
}

// Check evaluates required against the session. Admins pass every check,
// including unknown capabilities. Staff pass only on an exact match. Any
// other role, including none, is denied.
func Check(required, role string, permissions []string, hydrated bool) Decision {
	if !hydrated {
		return Loading
	}
	switch role {
	case models.RoleAdmin:
		return Allowed
	case models.RoleStaff:
		for _, p := range permissions {
			if p == required {
				return Allowed
			}
		}
		return Denied
	default:
		return Denied
	}
}
