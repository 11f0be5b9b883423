package authz

import "testing"

type recordingScope struct {
	inner Scope
	calls int
}

func (r *recordingScope) CanAccess(subject *Subject, dept any) bool {
	r.calls++
	return r.inner.CanAccess(subject, dept)
}

func testAuthorizer(t *testing.T) *Authorizer {
	t.Helper()
	return NewAuthorizer(testCatalog(t))
}

func TestAuthorizeNoSubjectAlwaysDenies(t *testing.T) {
	a := testAuthorizer(t)
	if a.Authorize(nil, Single(PermEmployeeViewOwn), nil) {
		t.Fatal("nil subject granted")
	}

	stale := NewSubject("u1", RoleSuperAdmin, nil)
	stale.Authenticated = false
	if a.Authorize(stale, Single(PermSettingsManage), nil) {
		t.Fatal("unauthenticated subject granted")
	}
	if a.Authorize(stale, Single(PermSettingsManage), &Resource{Department: "D1"}) {
		t.Fatal("unauthenticated subject granted on resource")
	}
}

func TestAuthorizePermissionOnly(t *testing.T) {
	a := testAuthorizer(t)
	employee := NewSubject("u1", RoleEmployee, nil)

	if !a.Authorize(employee, Single(PermLeaveRequest), nil) {
		t.Fatal("employee denied own grant")
	}
	if a.Authorize(employee, Single(PermEmployeeUpdateAny), nil) {
		t.Fatal("employee granted update_any")
	}
	if a.Authorize(employee, Single(PermEmployeeUpdateAny), &Resource{Department: "D1"}) {
		t.Fatal("resource must not widen a permission denial")
	}
}

func TestAuthorizeScopedResource(t *testing.T) {
	a := testAuthorizer(t)
	manager := NewSubject("u1", RoleHRManager, []string{"D1"})

	if !a.Authorize(manager, Single(PermLeaveApproveTeam), &Resource{Department: "D1"}) {
		t.Fatal("assigned department denied")
	}
	if a.Authorize(manager, Single(PermLeaveApproveTeam), &Resource{Department: "D2"}) {
		t.Fatal("unassigned department granted")
	}
	if !a.Authorize(manager, Single(PermLeaveApproveTeam), nil) {
		t.Fatal("nil resource should leave the permission result standing")
	}
	if !a.Authorize(manager, Single(PermLeaveApproveTeam), &Resource{}) {
		t.Fatal("resource without department should leave the permission result standing")
	}
}

func TestAuthorizeScopeOnlyAfterPermission(t *testing.T) {
	a := testAuthorizer(t)
	scope := &recordingScope{}
	a.scope = scope

	manager := NewSubject("u1", RoleHRManager, []string{"D1"})

	// Requirement the role does not hold: scope must never be consulted,
	// whether or not the department would have matched.
	if a.Authorize(manager, Single(PermPayrollRun), &Resource{Department: "D1"}) {
		t.Fatal("unexpected grant")
	}
	if a.Authorize(manager, Single(PermPayrollRun), &Resource{Department: "D9"}) {
		t.Fatal("unexpected grant")
	}
	if scope.calls != 0 {
		t.Fatalf("scope consulted %d times despite permission denial", scope.calls)
	}

	if !a.Authorize(manager, Single(PermLeaveApproveTeam), &Resource{Department: "D1"}) {
		t.Fatal("expected grant")
	}
	if scope.calls != 1 {
		t.Fatalf("scope calls = %d, want 1", scope.calls)
	}
}

func TestAuthorizeScenarioA(t *testing.T) {
	a := testAuthorizer(t)
	manager := NewSubject("u1", RoleHRManager, []string{"D1"})

	if !a.Authorize(manager, Single(PermLeaveApproveTeam), &Resource{Department: "D1"}) {
		t.Fatal("manager denied own department")
	}
	if a.Authorize(manager, Single(PermLeaveApproveTeam), &Resource{Department: "D2"}) {
		t.Fatal("manager granted foreign department")
	}
}

func TestAuthorizeScenarioB(t *testing.T) {
	a := testAuthorizer(t)
	employee := NewSubject("u1", RoleEmployee, nil)

	if a.Authorize(employee, Single(PermEmployeeUpdateAny), nil) {
		t.Fatal("employee granted update_any")
	}
	if a.Authorize(employee, Single(PermEmployeeUpdateAny), &Resource{Department: "D1"}) {
		t.Fatal("employee granted update_any on resource")
	}
}

func TestAuthorizeScenarioC(t *testing.T) {
	a := testAuthorizer(t)
	admin := NewSubject("u1", RoleSuperAdmin, nil)

	if !a.Authorize(admin, Single(PermEmployeeViewAny), &Resource{Department: "D9"}) {
		t.Fatal("unrestricted role denied despite empty assignments")
	}
}

func TestAuthorizeScenarioD(t *testing.T) {
	a := testAuthorizer(t)
	admin := NewSubject("u1", RoleHRAdministrator, nil)

	// hr_administrator holds approve_any but not approve_team.
	if a.Catalog().Evaluate(RoleHRAdministrator, Single(PermLeaveApproveTeam)) {
		t.Fatal("fixture role unexpectedly holds the first key")
	}
	if !a.Authorize(admin, Any(PermLeaveApproveTeam, PermLeaveApproveAny), nil) {
		t.Fatal("Any requirement denied with one held key")
	}
}
