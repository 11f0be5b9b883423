package middleware

import (
	"net/http"
	"net/url"

	"hrportal/internal/authz"
	"hrportal/internal/platform/requestctx"
	"hrportal/internal/transport/http/api"
)

// RequireAuthz gates an API route on a declared requirement. Anonymous
// requests get 401, denied subjects 403, and a request whose subject is
// still being established gets 503 with Retry-After so the client knows
// to retry rather than treat it as a verdict.
func RequireAuthz(authorizer *authz.Authorizer, req authz.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if SubjectPending(r.Context()) {
				retryLater(w, requestctx.GetRequestID(r.Context()))
				return
			}
			subject, ok := GetSubject(r.Context())
			if !ok {
				api.Unauthorized(w, requestctx.GetRequestID(r.Context()))
				return
			}
			if !authorizer.Authorize(subject, req, nil) {
				api.Forbidden(w, requestctx.GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// DepartmentResolver extracts the department of the resource a request
// targets, in any shape NormalizeDepartmentID accepts.
type DepartmentResolver func(r *http.Request) (any, error)

// RequireAuthzScoped additionally checks department scope against the
// resolved resource department. Resolver failure is a plain not-found:
// the guard never confirms the resource exists to a caller it would
// have denied.
func RequireAuthzScoped(authorizer *authz.Authorizer, req authz.Requirement, resolve DepartmentResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if SubjectPending(r.Context()) {
				retryLater(w, requestctx.GetRequestID(r.Context()))
				return
			}
			subject, ok := GetSubject(r.Context())
			if !ok {
				api.Unauthorized(w, requestctx.GetRequestID(r.Context()))
				return
			}
			department, err := resolve(r)
			if err != nil {
				api.Fail(w, http.StatusNotFound, "not_found", "resource not found", requestctx.GetRequestID(r.Context()))
				return
			}
			if !authorizer.Authorize(subject, req, &authz.Resource{Department: department}) {
				api.Forbidden(w, requestctx.GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole gates a route on role membership alone, for surfaces where
// "is generally this kind of role" is the whole question and granular
// permissions would add nothing.
func RequireRole(roles ...authz.Role) func(http.Handler) http.Handler {
	allowed := make(map[authz.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if SubjectPending(r.Context()) {
				retryLater(w, requestctx.GetRequestID(r.Context()))
				return
			}
			subject, ok := GetSubject(r.Context())
			if !ok || !subject.Authenticated {
				api.Unauthorized(w, requestctx.GetRequestID(r.Context()))
				return
			}
			if _, ok := allowed[subject.Role]; !ok {
				api.Forbidden(w, requestctx.GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PageGuard protects browser navigation. Unauthenticated visitors are
// redirected to the login page with the original destination preserved
// in the next parameter; authenticated visitors outside the allowlist
// land on the unauthorized page. An empty allowlist means any
// authenticated role may pass.
func PageGuard(loginPath, unauthorizedPath string, roles ...authz.Role) func(http.Handler) http.Handler {
	allowed := make(map[authz.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if SubjectPending(r.Context()) {
				retryLater(w, requestctx.GetRequestID(r.Context()))
				return
			}
			subject, ok := GetSubject(r.Context())
			if !ok || !subject.Authenticated {
				destination := r.URL.RequestURI()
				http.Redirect(w, r, loginPath+"?next="+url.QueryEscape(destination), http.StatusFound)
				return
			}
			if len(allowed) > 0 {
				if _, ok := allowed[subject.Role]; !ok {
					http.Redirect(w, r, unauthorizedPath, http.StatusFound)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func retryLater(w http.ResponseWriter, requestID string) {
	w.Header().Set("Retry-After", "1")
	api.Fail(w, http.StatusServiceUnavailable, "subject_unavailable", "session not yet established", requestID)
}
