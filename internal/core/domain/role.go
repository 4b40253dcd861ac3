package domain

import "fmt"

// Role is the closed set of roles a user can hold. The zero value is not a
// valid role, so an unset field never grants access.
type Role uint8

const (
	RoleEmployee Role = iota + 1
	RoleManager
	RoleAdmin
)

const (
	roleEmployeeName = "Employee"
	roleManagerName  = "Manager"
	roleAdminName    = "Admin"
)

// AllRoles lists every valid role, lowest privilege first.
func AllRoles() []Role {
	return []Role{RoleEmployee, RoleManager, RoleAdmin}
}

// ParseRole converts the wire name of a role into a Role.
//
//	"Admin"    → RoleAdmin
//	"Manager"  → RoleManager
//	"Employee" → RoleEmployee
func ParseRole(s string) (Role, error) {
	switch s {
	case roleAdminName:
		return RoleAdmin, nil
	case roleManagerName:
		return RoleManager, nil
	case roleEmployeeName:
		return RoleEmployee, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return roleAdminName
	case RoleManager:
		return roleManagerName
	case RoleEmployee:
		return roleEmployeeName
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

// MarshalText implements encoding.TextMarshaler, which also covers JSON.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRole, uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
