package auth

import (
	"strings"

	"github.com/talentpulse/performance-api/internal/core/domain"
)

type roleSet uint8

func (s roleSet) has(r domain.Role) bool {
	return r.Valid() && s&(1<<r) != 0
}

// Gate is a reusable role predicate. Gates are values: build them once with
// NewGate and share them between routes.
type Gate struct {
	name  string
	roles roleSet
}

// The role hierarchy. Each gate admits a strict superset of the previous one.
var (
	AdminOnly    = NewGate("admin-only", domain.RoleAdmin)
	ManagerTier  = NewGate("manager-tier", domain.RoleAdmin, domain.RoleManager)
	EmployeeTier = NewGate("employee-tier", domain.RoleAdmin, domain.RoleManager, domain.RoleEmployee)
)

// NewGate builds a gate admitting exactly the given roles. Invalid roles are
// ignored.
func NewGate(name string, roles ...domain.Role) Gate {
	var set roleSet
	for _, r := range roles {
		if r.Valid() {
			set |= 1 << r
		}
	}
	return Gate{name: name, roles: set}
}

func (g Gate) Name() string { return g.name }

// Roles returns the admitted roles, highest privilege first.
func (g Gate) Roles() []domain.Role {
	all := domain.AllRoles()
	out := make([]domain.Role, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if g.roles.has(all[i]) {
			out = append(out, all[i])
		}
	}
	return out
}

// Allows reports whether role passes the gate.
func (g Gate) Allows(role domain.Role) bool {
	return g.roles.has(role)
}

// Check returns nil when user passes the gate, a *ForbiddenError when the
// role is not admitted, and domain.ErrSubjectNotFound for a nil user.
func (g Gate) Check(user *domain.User) error {
	if user == nil {
		return domain.ErrSubjectNotFound
	}
	if !g.Allows(user.Role) {
		return &ForbiddenError{Gate: g.name, Required: g.Roles()}
	}
	return nil
}

// ForbiddenError is returned by Gate.Check. It matches domain.ErrRoleForbidden.
type ForbiddenError struct {
	Gate     string
	Required []domain.Role
}

func (e *ForbiddenError) Error() string {
	names := make([]string, len(e.Required))
	for i, r := range e.Required {
		names[i] = r.String()
	}
	return "Operation not permitted. Required role: " + strings.Join(names, ", ")
}

func (e *ForbiddenError) Unwrap() error { return domain.ErrRoleForbidden }

// CanActOn applies the ownership refinement on top of a role gate: admins may
// act on anyone, managers only on their direct reports.
func CanActOn(caller, employee *domain.User) error {
	if caller == nil || employee == nil {
		return domain.ErrOwnershipForbidden
	}
	switch caller.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleManager:
		if employee.ReportsTo(caller.ID) {
			return nil
		}
		return domain.ErrOwnershipForbidden
	case domain.RoleEmployee:
		return domain.ErrOwnershipForbidden
	default:
		return domain.ErrOwnershipForbidden
	}
}
