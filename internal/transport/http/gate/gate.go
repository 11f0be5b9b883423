// Package gate adapts the authorization facade to declarative
// consumption: pick one of two handlers per request, or hand the front
// end the capability set it should render against. Decisions are taken
// fresh on every request; nothing is cached across subjects.
package gate

import (
	"net/http"

	"hrportal/internal/authz"
	"hrportal/internal/transport/http/middleware"
)

// Gate renders one of two branches depending on the current subject's
// authorization. The fallback branch defaults to rendering nothing
// (404), mirroring a UI gate that omits the element entirely.
type Gate struct {
	Authorizer  *authz.Authorizer
	Requirement authz.Requirement
}

func New(authorizer *authz.Authorizer, req authz.Requirement) *Gate {
	return &Gate{Authorizer: authorizer, Requirement: req}
}

func (g *Gate) Handler(granted, fallback http.Handler) http.Handler {
	if fallback == nil {
		fallback = http.NotFoundHandler()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, _ := middleware.GetSubject(r.Context())
		if g.Authorizer.Authorize(subject, g.Requirement, nil) {
			granted.ServeHTTP(w, r)
			return
		}
		fallback.ServeHTTP(w, r)
	})
}

// Capabilities is the payload behind /me/capabilities: the one source of
// truth the front end renders from, instead of re-deriving the matrix
// client side.
type Capabilities struct {
	Role         authz.Role           `json:"role"`
	Permissions  []string             `json:"permissions"`
	Departments  []authz.DepartmentID `json:"departments,omitempty"`
	Unrestricted bool                 `json:"unrestricted"`
}

func CapabilitiesFor(catalog *authz.Catalog, subject *authz.Subject) Capabilities {
	return Capabilities{
		Role:         subject.Role,
		Permissions:  catalog.PermissionsFor(subject.Role),
		Departments:  subject.AssignedDepartments(),
		Unrestricted: authz.Unrestricted(subject.Role),
	}
}
