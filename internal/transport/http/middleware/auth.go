package middleware

import (
	"context"
	"net/http"
	"strings"

	"hrportal/internal/authz"
	"hrportal/internal/identity"
)

type ctxKey string

const (
	ctxKeySubject        ctxKey = "subject"
	ctxKeySubjectPending ctxKey = "subject_pending"
)

// SessionCookie carries the token for browser page navigation, where no
// Authorization header exists.
const SessionCookie = "hrportal_session"

// AssignmentSource re-resolves the current department assignments of a
// department-scoped subject on every request, so a changed assignment
// takes effect without waiting for the token to expire.
type AssignmentSource interface {
	AssignedDepartments(ctx context.Context, userID string) ([]string, error)
}

// Auth establishes the per-request Subject from the bearer token or the
// session cookie. Requests without a valid token pass through anonymous;
// the guards decide what anonymity means per route. When an
// AssignmentSource is given and it transiently fails for a scoped role,
// the request is marked subject-pending instead of carrying a Subject
// with stale or empty assignments.
func Auth(secret string, assignments AssignmentSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				if cookie, err := r.Cookie(SessionCookie); err == nil {
					tokenString = cookie.Value
				}
			}
			if tokenString == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := identity.ParseToken(secret, tokenString)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			role := authz.ParseRole(claims.Role)
			var subject *authz.Subject
			if assignments != nil && authz.DepartmentScoped(role) {
				departments, err := assignments.AssignedDepartments(r.Context(), claims.UserID)
				if err != nil {
					ctx := context.WithValue(r.Context(), ctxKeySubjectPending, true)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				subject = authz.NewSubject(claims.UserID, role, departments)
			} else {
				subject = identity.SubjectFromClaims(claims)
			}

			ctx := context.WithValue(r.Context(), ctxKeySubject, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

// WithSubject returns a context carrying the subject, for dispatch that
// happens outside the HTTP middleware chain (tests, internal jobs).
func WithSubject(ctx context.Context, subject *authz.Subject) context.Context {
	return context.WithValue(ctx, ctxKeySubject, subject)
}

func GetSubject(ctx context.Context) (*authz.Subject, bool) {
	subject, ok := ctx.Value(ctxKeySubject).(*authz.Subject)
	return subject, ok && subject != nil
}

// SubjectPending reports that a token was presented but the subject
// could not be established this instant. Guards answer it with a
// retryable status, never a grant or a definitive deny.
func SubjectPending(ctx context.Context) bool {
	pending, ok := ctx.Value(ctxKeySubjectPending).(bool)
	return ok && pending
}
