package user

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/policy"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleHR         Role = "hr"
	RoleFinance    Role = "finance"
	RoleManager    Role = "manager"
	RoleSupervisor Role = "supervisor"
	RoleEmployee   Role = "employee"
)

// officeRoles work from the office calendar; every other role is field staff.
var officeRoles = map[Role]bool{
	RoleAdmin:   true,
	RoleHR:      true,
	RoleFinance: true,
}

// NormalizeRole lowercases and trims a role read from a token or a row.
func NormalizeRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

// StaffType maps a role onto its staff type.
func (r Role) StaffType() policy.StaffType {
	if officeRoles[NormalizeRole(string(r))] {
		return policy.StaffTypeOffice
	}
	return policy.StaffTypeField
}

type User struct {
	ID        string
	FullName  string
	Email     string
	Role      Role
	ManagerID *string // reporting manager's user ID
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StaffType selects the holiday calendar and policy thresholds for the user.
func (u User) StaffType() policy.StaffType {
	return u.Role.StaffType()
}

// HasManager reports whether a reporting manager is configured.
func (u User) HasManager() bool {
	return u.ManagerID != nil && *u.ManagerID != "" && *u.ManagerID != u.ID
}

// Actor is the authenticated caller as read from the access token.
type Actor struct {
	UserID string
	Role   Role
}
