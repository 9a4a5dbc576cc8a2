package domain

import "fmt"

// Role is the closed set of access levels a User can hold.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// DefaultRole is assigned when a user is created without an explicit role.
const DefaultRole = RolePatient

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleDoctor, RolePatient}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}

// Assignable reports whether r may be granted through the administrative
// user-management path. Admin accounts only come from seeding.
func (r Role) Assignable() bool {
	switch r {
	case RoleDoctor, RolePatient:
		return true
	case RoleAdmin:
		return false
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole converts s into a Role. An empty string yields DefaultRole.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return DefaultRole, nil
	}
	r := Role(s)
	if !r.Valid() {
		return "", NewValidationError(fmt.Sprintf("role must be one of: %s %s %s", RoleAdmin, RoleDoctor, RolePatient))
	}
	return r, nil
}
