// Package authz is the authorization core of the HR portal: the static
// role/permission catalog, the requirement decision engine, department
// scoping, and the Authorize facade every guard goes through.
//
// Every failure mode is a deny. Unknown roles, unknown permission keys,
// empty requirements and unrecognizable department values all evaluate
// to false; the only hard error the package raises is a malformed
// catalog at construction time.
package authz

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

const (
	PermEmployeeViewOwn   = "employee.view_own"
	PermEmployeeViewTeam  = "employee.view_team"
	PermEmployeeViewAny   = "employee.view_any"
	PermEmployeeCreate    = "employee.create"
	PermEmployeeUpdateAny = "employee.update_any"
	PermEmployeeDelete    = "employee.delete"

	PermAttendanceViewOwn  = "attendance.view_own"
	PermAttendanceViewTeam = "attendance.view_team"
	PermAttendanceCorrect  = "attendance.correct"

	PermLeaveRequest     = "leave.request"
	PermLeaveViewOwn     = "leave.view_own"
	PermLeaveViewTeam    = "leave.view_team"
	PermLeaveApproveTeam = "leave.approve_team"
	PermLeaveApproveAny  = "leave.approve_any"

	PermPayrollViewOwn = "payroll.view_own"
	PermPayrollViewAny = "payroll.view_any"
	PermPayrollRun     = "payroll.run"

	PermReportsView         = "reports.view"
	PermReportsAccessReview = "reports.access_review"

	PermSettingsView   = "settings.view"
	PermSettingsManage = "settings.manage"
)

var KnownPermissions = []string{
	PermEmployeeViewOwn,
	PermEmployeeViewTeam,
	PermEmployeeViewAny,
	PermEmployeeCreate,
	PermEmployeeUpdateAny,
	PermEmployeeDelete,
	PermAttendanceViewOwn,
	PermAttendanceViewTeam,
	PermAttendanceCorrect,
	PermLeaveRequest,
	PermLeaveViewOwn,
	PermLeaveViewTeam,
	PermLeaveApproveTeam,
	PermLeaveApproveAny,
	PermPayrollViewOwn,
	PermPayrollViewAny,
	PermPayrollRun,
	PermReportsView,
	PermReportsAccessReview,
	PermSettingsView,
	PermSettingsManage,
}

// DefaultTable is the compiled-in role/permission matrix. There is no
// role hierarchy: SuperAdmin holds every key because every key is listed,
// not because of inheritance.
func DefaultTable() map[Role][]string {
	return map[Role][]string{
		RoleSuperAdmin: append([]string(nil), KnownPermissions...),
		RoleHRAdministrator: {
			PermEmployeeViewOwn,
			PermEmployeeViewTeam,
			PermEmployeeViewAny,
			PermEmployeeCreate,
			PermEmployeeUpdateAny,
			PermEmployeeDelete,
			PermAttendanceViewOwn,
			PermAttendanceViewTeam,
			PermAttendanceCorrect,
			PermLeaveRequest,
			PermLeaveViewOwn,
			PermLeaveViewTeam,
			PermLeaveApproveAny,
			PermPayrollViewOwn,
			PermPayrollViewAny,
			PermPayrollRun,
			PermReportsView,
			PermReportsAccessReview,
			PermSettingsView,
		},
		RoleHRManager: {
			PermEmployeeViewOwn,
			PermEmployeeViewTeam,
			PermEmployeeUpdateAny,
			PermAttendanceViewOwn,
			PermAttendanceViewTeam,
			PermAttendanceCorrect,
			PermLeaveRequest,
			PermLeaveViewOwn,
			PermLeaveViewTeam,
			PermLeaveApproveTeam,
			PermPayrollViewOwn,
			PermReportsView,
		},
		RoleEmployee: {
			PermEmployeeViewOwn,
			PermAttendanceViewOwn,
			PermLeaveRequest,
			PermLeaveViewOwn,
			PermPayrollViewOwn,
		},
	}
}

// Catalog is the immutable role to permission-set mapping. It is built
// once at startup and shared read-only for the life of the process.
type Catalog struct {
	grants map[Role]map[string]struct{}
}

// NewCatalog validates and freezes a role/permission table. The table
// must cover every role of the closed enumeration, and every key must be
// a non-blank member of KnownPermissions. A bad table is a configuration
// error, not a runtime deny.
func NewCatalog(table map[Role][]string) (*Catalog, error) {
	known := make(map[string]struct{}, len(KnownPermissions))
	for _, key := range KnownPermissions {
		known[key] = struct{}{}
	}

	grants := make(map[Role]map[string]struct{}, len(allRoles))
	for _, role := range allRoles {
		keys, ok := table[role]
		if !ok {
			return nil, fmt.Errorf("catalog missing role %q", role)
		}
		set := make(map[string]struct{}, len(keys))
		for _, key := range keys {
			if strings.TrimSpace(key) == "" {
				return nil, fmt.Errorf("catalog role %q has a blank permission key", role)
			}
			if _, ok := known[key]; !ok {
				return nil, fmt.Errorf("catalog role %q references unknown permission %q", role, key)
			}
			set[key] = struct{}{}
		}
		grants[role] = set
	}

	for role := range table {
		if ParseRole(string(role)) == RoleUnknown {
			return nil, fmt.Errorf("catalog lists unknown role %q", role)
		}
	}

	return &Catalog{grants: grants}, nil
}

// LoadCatalogFile reads a JSON override table of the shape
// {"role": ["permission", ...], ...} and builds a Catalog from it. The
// same validation applies as for the compiled-in table.
func LoadCatalogFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var file map[string][]string
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	table := make(map[Role][]string, len(file))
	for name, keys := range file {
		role := ParseRole(name)
		if role == RoleUnknown {
			return nil, fmt.Errorf("catalog file lists unknown role %q", name)
		}
		table[role] = keys
	}
	return NewCatalog(table)
}

// PermissionsFor returns a sorted copy of the role's permission keys.
// Unknown roles get an empty slice, never an error.
func (c *Catalog) PermissionsFor(role Role) []string {
	set, ok := c.grants[role]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// IsKnownPermission reports whether any role could ever hold the key.
// Guard declarations are checked against this in tests; the runtime
// decision path does not consult it and simply denies unknown keys.
func (c *Catalog) IsKnownPermission(key string) bool {
	for _, known := range KnownPermissions {
		if known == key {
			return true
		}
	}
	return false
}

func (c *Catalog) has(role Role, key string) bool {
	set, ok := c.grants[role]
	if !ok {
		return false
	}
	_, ok = set[key]
	return ok
}
