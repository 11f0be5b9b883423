package identity

import (
	"context"
	"errors"
	"time"

	"hrportal/internal/authz"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Service is the identity collaborator of the authorization core: it
// authenticates users, issues session tokens, and turns token claims
// back into authz Subjects.
type Service struct {
	Store    *Store
	Secret   string
	TokenTTL time.Duration
}

func NewService(store *Store, secret string, ttl time.Duration) *Service {
	return &Service{Store: store, Secret: secret, TokenTTL: ttl}
}

// Login verifies the password and issues a token whose claims carry the
// user's role and current department assignments. Credential failures
// are indistinguishable by design.
func (s *Service) Login(ctx context.Context, email, password string) (string, User, error) {
	user, err := s.Store.FindActiveUserByEmail(ctx, email)
	if err != nil {
		return "", User{}, ErrInvalidCredentials
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return "", User{}, ErrInvalidCredentials
	}

	departments, err := s.Store.AssignedDepartments(ctx, user.ID)
	if err != nil {
		return "", User{}, err
	}

	token, err := GenerateToken(s.Secret, Claims{
		UserID:      user.ID,
		Role:        user.RoleName,
		Departments: departments,
	}, s.TokenTTL)
	if err != nil {
		return "", User{}, err
	}
	return token, user, nil
}

// SubjectFromClaims builds the per-request Subject. The role string is
// validated here, at the construction boundary: anything outside the
// closed enumeration becomes RoleUnknown and will simply be denied
// everywhere downstream.
func SubjectFromClaims(claims *Claims) *authz.Subject {
	return authz.NewSubject(claims.UserID, authz.ParseRole(claims.Role), claims.Departments)
}
