package domain

import "time"

// Role is the fixed capability class of a user.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleEmployer Role = "employer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleEmployer:
		return true
	}
	return false
}

// ParseRole converts raw input into a Role.
func ParseRole(raw string) (Role, bool) {
	role := Role(raw)
	return role, role.Valid()
}

// User is an account that either submits (employee) or reviews (employer) tickets.
type User struct {
	ID           string
	Email        string
	Username     string
	Role         Role
	PasswordHash string
	IsSuspended  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
