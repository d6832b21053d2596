package auth

import (
	"errors"
	"testing"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

func principalWithRole(role domain.Role) *Principal {
	return &Principal{User: &domain.User{ID: "u1", Role: role, Status: domain.UserStatusActive}}
}

func TestAuthorizeRejectsMissingIdentity(t *testing.T) {
	for _, p := range []*Principal{nil, {}} {
		err := Authorize(p)
		var de *apperrors.DomainError
		if !errors.As(err, &de) || de.Code != "not-authorized" || de.HTTPStatus != 401 {
			t.Errorf("principal %v: got %v, want 401 not-authorized", p, err)
		}
	}
}

func TestAuthorizeEmptySetAllowsAnyAuthenticated(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleUser, domain.RoleSupport, domain.RoleAdmin} {
		if err := Authorize(principalWithRole(role)); err != nil {
			t.Errorf("role %s: %v", role, err)
		}
	}
}

func TestAuthorizeRoleMatrix(t *testing.T) {
	cases := []struct {
		role    domain.Role
		allowed []domain.Role
		ok      bool
	}{
		{domain.RoleUser, domain.SupportRoles, false},
		{domain.RoleSupport, domain.SupportRoles, true},
		{domain.RoleAdmin, domain.SupportRoles, true},
		{domain.RoleUser, domain.AdminOnly, false},
		{domain.RoleSupport, domain.AdminOnly, false},
		{domain.RoleAdmin, domain.AdminOnly, true},
	}
	for _, tc := range cases {
		err := Authorize(principalWithRole(tc.role), tc.allowed...)
		if tc.ok && err != nil {
			t.Errorf("role %s allowed %v: unexpected %v", tc.role, tc.allowed, err)
		}
		if !tc.ok {
			var de *apperrors.DomainError
			if !errors.As(err, &de) || de.HTTPStatus != 403 {
				t.Errorf("role %s allowed %v: got %v, want 403", tc.role, tc.allowed, err)
			}
		}
	}
}

func TestPrincipalAccessorsNilSafe(t *testing.T) {
	var p *Principal
	if p.ID() != "" || p.Role() != "" {
		t.Error("nil principal accessors must return zero values")
	}
}
