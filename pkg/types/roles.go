package types

import "strings"

// Role is the application-level authorization role carried on a Profile.
type Role string

const (
	// RoleAdmin is the default role granted by self sign-up.
	RoleAdmin Role = "admin"
	// RoleSuperAdmin is the elevated role; never granted by sign-up.
	RoleSuperAdmin Role = "superadmin"
)

// Normalize lowercases and trims the role for comparisons.
func (r Role) Normalize() Role {
	return Role(strings.ToLower(strings.TrimSpace(string(r))))
}

// IsAdmin reports whether the role carries dashboard access at all.
func (r Role) IsAdmin() bool {
	switch r.Normalize() {
	case RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsSuperAdmin reports whether the role grants the elevated dashboard.
func (r Role) IsSuperAdmin() bool {
	return r.Normalize() == RoleSuperAdmin
}
