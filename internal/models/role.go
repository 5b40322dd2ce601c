package models

import "fmt"

type Role string

const (
	RoleOwner  Role = "Owner"
	RoleMember Role = "Member"
	RoleViewer Role = "Viewer"
)

// Roles lists every assignable role.
var Roles = []Role{RoleOwner, RoleMember, RoleViewer}

// Valid reports whether r is one of the fixed project roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleMember, RoleViewer:
		return true
	}
	return false
}

// ParseRole converts a raw role string, rejecting anything outside the fixed set.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("invalid role %q", s)
	}
	return r, nil
}
