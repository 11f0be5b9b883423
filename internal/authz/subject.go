package authz

import "sort"

// Subject is the authenticated actor a decision runs against. It is
// built once per request by the identity layer and treated as immutable
// for the duration of every check; a changed role or assignment means a
// new Subject on the next request.
type Subject struct {
	UserID        string
	Role          Role
	Authenticated bool

	departments map[DepartmentID]struct{}
}

// NewSubject builds an authenticated Subject. Department assignments are
// normalized here, exactly once, so scope checks always compare
// canonical ids against canonical ids. Unnormalizable assignments are
// dropped rather than kept as never-matching junk.
func NewSubject(userID string, role Role, departments []string) *Subject {
	assigned := make(map[DepartmentID]struct{}, len(departments))
	for _, raw := range departments {
		if id, ok := NormalizeDepartmentID(raw); ok {
			assigned[id] = struct{}{}
		}
	}
	return &Subject{
		UserID:        userID,
		Role:          role,
		Authenticated: true,
		departments:   assigned,
	}
}

// AssignedDepartments returns the normalized assignments in stable order.
func (s *Subject) AssignedDepartments() []DepartmentID {
	out := make([]DepartmentID, 0, len(s.departments))
	for id := range s.departments {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *Subject) assignedTo(id DepartmentID) bool {
	_, ok := s.departments[id]
	return ok
}
