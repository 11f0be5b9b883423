package authz

// Resource carries the department of the record a decision concerns.
// Department accepts any of the shapes NormalizeDepartmentID handles.
// A nil Resource, or a Resource with a nil Department, means the
// decision is not department-scoped and the permission check stands
// alone.
type Resource struct {
	Department any
}

type scopeChecker interface {
	CanAccess(subject *Subject, resourceDepartment any) bool
}

// Authorizer is the single entry point guards call. It composes the
// catalog's decision engine with the scope resolver.
type Authorizer struct {
	catalog *Catalog
	scope   scopeChecker
}

func NewAuthorizer(catalog *Catalog) *Authorizer {
	return &Authorizer{catalog: catalog, scope: Scope{}}
}

func (a *Authorizer) Catalog() *Catalog {
	return a.catalog
}

// Authorize decides whether the subject satisfies the requirement, and,
// when a department-tagged resource is given, whether the subject's
// scope covers it. A nil or unauthenticated subject denies before any
// permission logic runs. The permission check always runs before the
// scope check; a subject without the base permission never reaches
// scope resolution.
func (a *Authorizer) Authorize(subject *Subject, req Requirement, resource *Resource) bool {
	if subject == nil || !subject.Authenticated {
		return false
	}
	if !a.catalog.Evaluate(subject.Role, req) {
		return false
	}
	if resource == nil || resource.Department == nil {
		return true
	}
	return a.scope.CanAccess(subject, resource.Department)
}
