package authz

import "strings"

// DepartmentID is a department identifier in canonical form. All
// comparisons inside the engine happen between canonical ids; raw values
// from tokens, payloads or rows must pass through NormalizeDepartmentID
// first.
type DepartmentID string

// DepartmentRef is the embedded-object shape some upstream records use
// instead of a bare id string.
type DepartmentRef struct {
	ID string `json:"id"`
}

// NormalizeDepartmentID maps the departments shapes seen in the wild — a
// bare id, a DepartmentRef, or a decoded JSON object carrying an id
// field — onto a canonical DepartmentID. Unrecognizable input returns
// ok=false and therefore never matches anything. Normalizing an already
// canonical id returns it unchanged.
func NormalizeDepartmentID(value any) (DepartmentID, bool) {
	switch v := value.(type) {
	case DepartmentID:
		return normalizeRaw(string(v))
	case string:
		return normalizeRaw(v)
	case DepartmentRef:
		return normalizeRaw(v.ID)
	case *DepartmentRef:
		if v == nil {
			return "", false
		}
		return normalizeRaw(v.ID)
	case map[string]any:
		if id, ok := v["id"]; ok {
			return normalizeField(id)
		}
		if id, ok := v["departmentId"]; ok {
			return normalizeField(id)
		}
		return "", false
	default:
		return "", false
	}
}

func normalizeField(value any) (DepartmentID, bool) {
	// Only one level of nesting exists upstream; an id field that is
	// itself an object is unrecognizable.
	if raw, ok := value.(string); ok {
		return normalizeRaw(raw)
	}
	return "", false
}

func normalizeRaw(raw string) (DepartmentID, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	return DepartmentID(trimmed), true
}

// Unrestricted reports whether the role sees all departments. These
// roles skip scope resolution entirely, whatever their assignments say.
func Unrestricted(role Role) bool {
	return role == RoleSuperAdmin || role == RoleHRAdministrator
}

// DepartmentScoped reports whether the role's access is narrowed to its
// assigned departments. Employee is deliberately neither unrestricted
// nor department-scoped: self-record access is a separate concern that
// lives outside this engine.
func DepartmentScoped(role Role) bool {
	return role == RoleHRManager
}

// Scope decides whether a subject may act on a department-tagged
// resource. It is stateless; the method receiver exists so the facade
// can take it as an injectable collaborator.
type Scope struct{}

// CanAccess applies the scoping rules in order: unrestricted roles pass,
// non-scoped roles fail, and scoped roles pass only when the resource's
// normalized department is among the subject's assignments. An empty
// assignment set is the most restrictive scope, not an unscoped one.
func (Scope) CanAccess(subject *Subject, resourceDepartment any) bool {
	if subject == nil {
		return false
	}
	if Unrestricted(subject.Role) {
		return true
	}
	if !DepartmentScoped(subject.Role) {
		return false
	}
	id, ok := NormalizeDepartmentID(resourceDepartment)
	if !ok {
		return false
	}
	return subject.assignedTo(id)
}
