package enums

import "fmt"

// UserRole is the closed set of roles a user can hold.
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleStaff    UserRole = "staff"
	UserRoleViewer   UserRole = "viewer"
	UserRoleOperator UserRole = "operator"
)

var validUserRoles = []UserRole{
	UserRoleAdmin,
	UserRoleStaff,
	UserRoleViewer,
	UserRoleOperator,
}

// IsValid reports whether the value matches the canonical user role enum.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
