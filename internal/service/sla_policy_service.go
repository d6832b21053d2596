package service

import (
	"context"
	"sort"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// SLAPolicyService manages the per-priority time budgets the escalation
// sweep and resolution stamping read from.
type SLAPolicyService struct {
	policies repository.SLAPolicyRepository
	audit    *AuditService
}

// SLAPolicyDependencies bundles requirements for SLA policy service.
type SLAPolicyDependencies struct {
	PolicyRepo repository.SLAPolicyRepository
	Audit      *AuditService
}

// SLAPolicyInput describes an upsert payload.
type SLAPolicyInput struct {
	ResponseMinutes   int
	ResolutionMinutes int
}

// NewSLAPolicyService constructs the service.
func NewSLAPolicyService(deps SLAPolicyDependencies) *SLAPolicyService {
	return &SLAPolicyService{policies: deps.PolicyRepo, audit: deps.Audit}
}

// ListPolicies returns every configured budget, ordered by severity.
// Support or admin.
func (s *SLAPolicyService) ListPolicies(ctx context.Context, identity *auth.Principal) ([]domain.SLAPolicy, error) {
	if err := auth.Authorize(identity, domain.SupportRoles...); err != nil {
		return nil, err
	}
	policies, err := s.policies.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	rank := map[domain.TicketPriority]int{
		domain.TicketPriorityCritical: 0,
		domain.TicketPriorityHigh:     1,
		domain.TicketPriorityMedium:   2,
		domain.TicketPriorityLow:      3,
	}
	sort.Slice(policies, func(i, j int) bool {
		return rank[policies[i].Priority] < rank[policies[j].Priority]
	})
	return policies, nil
}

// UpsertPolicy replaces the budget for one priority tier. Admin only.
// Already-resolved tickets keep their stamped outcome; the new budget
// applies from the next sweep and resolution onward.
func (s *SLAPolicyService) UpsertPolicy(ctx context.Context, identity *auth.Principal, priority domain.TicketPriority, input SLAPolicyInput) (*domain.SLAPolicy, error) {
	if err := auth.Authorize(identity, domain.AdminOnly...); err != nil {
		return nil, err
	}
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}
	if input.ResponseMinutes <= 0 || input.ResolutionMinutes <= 0 {
		return nil, apperrors.NewValidationError("minutes must be positive", nil)
	}
	policy := &domain.SLAPolicy{
		Priority:          priority,
		ResponseMinutes:   input.ResponseMinutes,
		ResolutionMinutes: input.ResolutionMinutes,
		UpdatedAt:         time.Now(),
	}
	if err := s.policies.Upsert(ctx, policy); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.audit.Record(ctx, identity.ID(), "slaPolicies.upsert", "sla_policy", string(priority), map[string]any{
		"response_minutes":   input.ResponseMinutes,
		"resolution_minutes": input.ResolutionMinutes,
	})
	return policy, nil
}
