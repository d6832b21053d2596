package auth

import (
	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// Principal represents the authenticated caller.
type Principal struct {
	User *domain.User
}

// ID returns the caller's user id, or empty when unauthenticated.
func (p *Principal) ID() string {
	if p == nil || p.User == nil {
		return ""
	}
	return p.User.ID
}

// Role returns the caller's role.
func (p *Principal) Role() domain.Role {
	if p == nil || p.User == nil {
		return ""
	}
	return p.User.Role
}

// Authorize is the single policy gate every mutating operation passes
// through: it fails when the identity is absent or the caller's role is not
// in the allowed set. An empty allowed set means any authenticated caller.
func Authorize(p *Principal, allowed ...domain.Role) error {
	if p == nil || p.User == nil {
		return apperrors.NewUnauthenticated("authentication required")
	}
	if len(allowed) == 0 {
		return nil
	}
	for _, role := range allowed {
		if p.User.Role == role {
			return nil
		}
	}
	return apperrors.NewNotAuthorized("insufficient role")
}
