package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hrportal/internal/authz"
)

func contextWithPending(r *http.Request) context.Context {
	return context.WithValue(r.Context(), ctxKeySubjectPending, true)
}

func guardAuthorizer(t *testing.T) *authz.Authorizer {
	t.Helper()
	catalog, err := authz.NewCatalog(authz.DefaultTable())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return authz.NewAuthorizer(catalog)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestWithSubject(subject *authz.Subject) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if subject != nil {
		req = req.WithContext(WithSubject(req.Context(), subject))
	}
	return req
}

func TestRequireAuthzAnonymous(t *testing.T) {
	handler := RequireAuthz(guardAuthorizer(t), authz.Single(authz.PermReportsView))(okHandler())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithSubject(nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuthzDenied(t *testing.T) {
	handler := RequireAuthz(guardAuthorizer(t), authz.Single(authz.PermPayrollRun))(okHandler())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithSubject(authz.NewSubject("u1", authz.RoleEmployee, nil)))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRequireAuthzGranted(t *testing.T) {
	handler := RequireAuthz(guardAuthorizer(t), authz.Single(authz.PermLeaveRequest))(okHandler())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithSubject(authz.NewSubject("u1", authz.RoleEmployee, nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRequireAuthzPending(t *testing.T) {
	handler := RequireAuthz(guardAuthorizer(t), authz.Single(authz.PermLeaveRequest))(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req = req.WithContext(contextWithPending(req))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}

func TestRequireAuthzScoped(t *testing.T) {
	a := guardAuthorizer(t)
	resolve := func(r *http.Request) (any, error) {
		return r.URL.Query().Get("dept"), nil
	}
	handler := RequireAuthzScoped(a, authz.Single(authz.PermLeaveApproveTeam), resolve)(okHandler())

	manager := authz.NewSubject("u1", authz.RoleHRManager, []string{"D1"})

	req := httptest.NewRequest(http.MethodGet, "/protected?dept=D1", nil)
	req = req.WithContext(WithSubject(req.Context(), manager))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("assigned department: status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/protected?dept=D2", nil)
	req = req.WithContext(WithSubject(req.Context(), manager))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign department: status = %d, want 403", rec.Code)
	}
}

func TestRequireAuthzScopedResolverFailure(t *testing.T) {
	a := guardAuthorizer(t)
	resolve := func(r *http.Request) (any, error) {
		return nil, errors.New("no such record")
	}
	handler := RequireAuthzScoped(a, authz.Single(authz.PermLeaveApproveTeam), resolve)(okHandler())

	req := requestWithSubject(authz.NewSubject("u1", authz.RoleHRManager, []string{"D1"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(authz.RoleSuperAdmin, authz.RoleHRAdministrator)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithSubject(authz.NewSubject("u1", authz.RoleHRAdministrator, nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("allowlisted role: status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithSubject(authz.NewSubject("u2", authz.RoleEmployee, nil)))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("outside allowlist: status = %d, want 403", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithSubject(nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: status = %d, want 401", rec.Code)
	}
}

func TestPageGuardRedirectsAnonymousWithDestination(t *testing.T) {
	handler := PageGuard("/login", "/unauthorized")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/admin/settings?tab=roles", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	location := rec.Header().Get("Location")
	if location != "/login?next=%2Fadmin%2Fsettings%3Ftab%3Droles" {
		t.Fatalf("unexpected redirect target %q", location)
	}
}

func TestPageGuardRedirectsDisallowedRole(t *testing.T) {
	handler := PageGuard("/login", "/unauthorized", authz.RoleSuperAdmin)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req = req.WithContext(WithSubject(req.Context(), authz.NewSubject("u1", authz.RoleEmployee, nil)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/unauthorized" {
		t.Fatalf("unexpected redirect target %q", got)
	}
}

func TestPageGuardEmptyAllowlistAdmitsAnyAuthenticated(t *testing.T) {
	handler := PageGuard("/login", "/unauthorized")(okHandler())

	req := requestWithSubject(authz.NewSubject("u1", authz.RoleEmployee, nil))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestPageGuardPendingIsNeutral(t *testing.T) {
	handler := PageGuard("/login", "/unauthorized", authz.RoleSuperAdmin)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req = req.WithContext(contextWithPending(req))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if rec.Header().Get("Location") != "" {
		t.Fatal("pending must not redirect anywhere")
	}
}
