package domain

import "time"

// User models an authenticated actor in the system.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Department   string    `json:"department,omitempty"`
	ManagerID    *int64    `json:"manager_id,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// ReportsTo reports whether managerID is the user's direct manager.
func (u *User) ReportsTo(managerID int64) bool {
	return u.ManagerID != nil && *u.ManagerID == managerID
}

// CanManage reports whether the role may be referenced as somebody's manager.
func (r Role) CanManage() bool {
	switch r {
	case RoleManager, RoleAdmin:
		return true
	default:
		return false
	}
}
