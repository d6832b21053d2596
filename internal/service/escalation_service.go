package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// EscalationService evaluates SLA budgets and manages acknowledgements.
type EscalationService struct {
	escalations repository.EscalationRepository
	tickets     repository.TicketRepository
	policies    repository.SLAPolicyRepository
	audit       *AuditService
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// EscalationDependencies bundles requirements for escalation service.
type EscalationDependencies struct {
	EscalationRepo repository.EscalationRepository
	TicketRepo     repository.TicketRepository
	PolicyRepo     repository.SLAPolicyRepository
	Audit          *AuditService
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewEscalationService constructs the service.
func NewEscalationService(deps EscalationDependencies) *EscalationService {
	return &EscalationService{
		escalations: deps.EscalationRepo,
		tickets:     deps.TicketRepo,
		policies:    deps.PolicyRepo,
		audit:       deps.Audit,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
	}
}

// EvaluateOpenTickets is the periodic SLA sweep: for every ticket still in
// its working lifecycle it computes the share of the resolution budget spent
// and appends an escalation row per threshold crossing not yet recorded.
// Returns the number of escalations raised.
func (s *EscalationService) EvaluateOpenTickets(ctx context.Context, now time.Time) (int, error) {
	tickets, err := s.tickets.ListOpenForSLA(ctx)
	if err != nil {
		return 0, err
	}

	policies := map[domain.TicketPriority]*domain.SLAPolicy{}
	raised := 0
	for i := range tickets {
		ticket := &tickets[i]
		policy, ok := policies[ticket.Priority]
		if !ok {
			policy, err = s.policies.GetByPriority(ctx, ticket.Priority)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					continue
				}
				return raised, err
			}
			policies[ticket.Priority] = policy
		}

		pct := policy.PercentageUsed(ticket.CreatedAt, now)
		level := domain.LevelForPercentage(pct)
		if level == 0 {
			continue
		}
		// A critical crossing implies the warning crossing as well; record
		// both if the warning sweep was missed.
		for l := domain.EscalationLevelWarning; l <= level; l++ {
			inserted, err := s.raiseIfAbsent(ctx, ticket, l, pct)
			if err != nil {
				s.logger.Error("raise escalation failed",
					zap.Error(err),
					zap.String("ticket_id", ticket.ID),
					zap.Int("level", int(l)))
				continue
			}
			if inserted {
				raised++
			}
		}
	}
	return raised, nil
}

func (s *EscalationService) raiseIfAbsent(ctx context.Context, ticket *domain.Ticket, level domain.EscalationLevel, pct float64) (bool, error) {
	exists, err := s.escalations.ExistsForTicketLevel(ctx, ticket.ID, level)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	escalation := &domain.Escalation{
		TicketID:       ticket.ID,
		Level:          level,
		PercentageUsed: pct,
	}
	if err := s.escalations.Create(ctx, escalation); err != nil {
		return false, err
	}
	s.audit.Record(ctx, domain.SystemActorID, "escalations.raise", "escalation", escalation.ID, map[string]any{
		"ticket_id":       ticket.ID,
		"level":           level,
		"percentage_used": pct,
	})
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventEscalationRaised,
		EntityID: escalation.ID,
		ActorID:  domain.SystemActorID,
		Payload: events.EscalationRaisedPayload{
			TicketID:       ticket.ID,
			Level:          level,
			PercentageUsed: pct,
		},
	})
	return true, nil
}

// Acknowledge marks an escalation as seen. Support or admin; one-way.
func (s *EscalationService) Acknowledge(ctx context.Context, identity *auth.Principal, escalationID string) (*domain.Escalation, error) {
	if err := auth.Authorize(identity, domain.SupportRoles...); err != nil {
		return nil, err
	}
	escalation, err := s.escalations.GetByID(ctx, escalationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("escalation", map[string]any{"escalation_id": escalationID})
		}
		return nil, apperrors.MapError(err)
	}
	if escalation.Acknowledged {
		return nil, apperrors.NewAlreadyAcknowledged(escalation.ID)
	}
	if err := s.escalations.MarkAcknowledged(ctx, escalation.ID, identity.ID()); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// lost the race with another acknowledger
			return nil, apperrors.NewAlreadyAcknowledged(escalation.ID)
		}
		return nil, apperrors.MapError(err)
	}
	escalation, err = s.escalations.GetByID(ctx, escalation.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.audit.Record(ctx, identity.ID(), "escalations.acknowledge", "escalation", escalation.ID, map[string]any{
		"ticket_id": escalation.TicketID,
	})
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventEscalationAcknowledged,
		EntityID: escalation.ID,
		ActorID:  identity.ID(),
		Payload: events.EscalationAcknowledgedPayload{
			TicketID:       escalation.TicketID,
			AcknowledgedBy: identity.ID(),
		},
	})
	return escalation, nil
}

// ListUnacknowledged returns pending escalations. Support or admin.
func (s *EscalationService) ListUnacknowledged(ctx context.Context, identity *auth.Principal, limit, offset int) ([]domain.Escalation, error) {
	if err := auth.Authorize(identity, domain.SupportRoles...); err != nil {
		return nil, err
	}
	return s.escalations.ListUnacknowledged(ctx, limit, offset)
}

// ListByTicket returns the escalation trail for one ticket. Support or admin.
func (s *EscalationService) ListByTicket(ctx context.Context, identity *auth.Principal, ticketID string) ([]domain.Escalation, error) {
	if err := auth.Authorize(identity, domain.SupportRoles...); err != nil {
		return nil, err
	}
	return s.escalations.ListByTicket(ctx, ticketID)
}
