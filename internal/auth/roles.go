package auth

import "strings"

// Role represents a user type.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// NormalizeRole validates and normalizes a role string. Matching ignores case
// so that session types such as "Employee" are accepted.
func NormalizeRole(value string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleEmployee:
		return RoleEmployee, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// RoleAtLeast returns true when role satisfies required role.
func RoleAtLeast(role Role, required Role) bool {
	return roleRank(role) >= roleRank(required)
}

func roleRank(role Role) int {
	switch role {
	case RoleEmployee:
		return 1
	case RoleAdmin:
		return 2
	default:
		return 0
	}
}
