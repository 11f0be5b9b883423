package authz

import "strings"

type Role string

const (
	RoleSuperAdmin      Role = "super_admin"
	RoleHRManager       Role = "hr_manager"
	RoleHRAdministrator Role = "hr_administrator"
	RoleEmployee        Role = "employee"

	// RoleUnknown is the sentinel for any value outside the closed
	// enumeration. It holds no permissions and no scope.
	RoleUnknown Role = ""
)

var allRoles = []Role{RoleSuperAdmin, RoleHRManager, RoleHRAdministrator, RoleEmployee}

func Roles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// ParseRole maps a raw string onto the closed enumeration. Anything else
// becomes RoleUnknown, never a known role.
func ParseRole(value string) Role {
	switch Role(strings.TrimSpace(value)) {
	case RoleSuperAdmin:
		return RoleSuperAdmin
	case RoleHRManager:
		return RoleHRManager
	case RoleHRAdministrator:
		return RoleHRAdministrator
	case RoleEmployee:
		return RoleEmployee
	default:
		return RoleUnknown
	}
}
