package identity

import (
	"testing"
	"time"

	"hrportal/internal/authz"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if err := CheckPassword(hash, "s3cret"); err != nil {
		t.Fatalf("check error: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	secret := "test-secret"
	token, err := GenerateToken(secret, Claims{
		UserID:      "u1",
		Role:        string(authz.RoleHRManager),
		Departments: []string{"D1", "D2"},
	}, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != string(authz.RoleHRManager) {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if len(claims.Departments) != 2 {
		t.Fatalf("departments lost: %+v", claims.Departments)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret-a", Claims{UserID: "u1"}, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseToken("secret-b", token); err == nil {
		t.Fatal("expected parse failure with wrong secret")
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "u1"}, -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseToken("secret", token); err == nil {
		t.Fatal("expected parse failure for expired token")
	}
}

func TestSubjectFromClaims(t *testing.T) {
	subject := SubjectFromClaims(&Claims{
		UserID:      "u1",
		Role:        "hr_manager",
		Departments: []string{"D1", " D1 ", ""},
	})
	if !subject.Authenticated {
		t.Fatal("expected authenticated subject")
	}
	if subject.Role != authz.RoleHRManager {
		t.Fatalf("unexpected role %q", subject.Role)
	}
	if got := subject.AssignedDepartments(); len(got) != 1 || got[0] != "D1" {
		t.Fatalf("unexpected assignments: %v", got)
	}
}

func TestSubjectFromClaimsUnknownRole(t *testing.T) {
	subject := SubjectFromClaims(&Claims{UserID: "u1", Role: "owner"})
	if subject.Role != authz.RoleUnknown {
		t.Fatalf("expected RoleUnknown, got %q", subject.Role)
	}
}
