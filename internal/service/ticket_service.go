package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	categories repository.CategoryRepository
	policies   repository.SLAPolicyRepository
	users      repository.UserRepository
	assets     repository.AssetRepository
	audit      *AuditService
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	CategoryRepo repository.CategoryRepository
	PolicyRepo   repository.SLAPolicyRepository
	UserRepo     repository.UserRepository
	AssetRepo    repository.AssetRepository
	Audit        *AuditService
	Dispatcher   events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Category    string
	Priority    domain.TicketPriority
	AssetID     *string
}

// TicketListFilter describes listing filters.
type TicketListFilter struct {
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	Category    *string
	AssigneeID  *string
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		categories: deps.CategoryRepo,
		policies:   deps.PolicyRepo,
		users:      deps.UserRepo,
		assets:     deps.AssetRepo,
		audit:      deps.Audit,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket creates a ticket reported by the caller.
func (s *TicketService) CreateTicket(ctx context.Context, identity *auth.Principal, input TicketCreateInput) (*domain.Ticket, error) {
	if err := auth.Authorize(identity); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}

	priority := input.Priority
	if priority != "" && !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}
	category, err := s.categories.GetByName(ctx, input.Category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category": input.Category})
		}
		return nil, apperrors.MapError(err)
	}
	if !category.IsActive {
		return nil, apperrors.NewValidationError("category inactive", map[string]any{"category": category.Name})
	}
	if priority == "" {
		priority = category.DefaultPriority
	}

	ticket := &domain.Ticket{
		TicketNumber: generateTicketNumber(),
		Title:        title,
		Description:  strings.TrimSpace(input.Description),
		Status:       domain.TicketStatusOpen,
		Priority:     priority,
		Category:     category.Name,
		ReporterID:   identity.ID(),
		AssetID:      input.AssetID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.audit.Record(ctx, identity.ID(), "tickets.create", "ticket", ticket.ID, map[string]any{
		"ticket_number": ticket.TicketNumber,
		"category":      ticket.Category,
		"priority":      ticket.Priority,
	})
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketCreated,
		EntityID: ticket.ID,
		ActorID:  identity.ID(),
		Payload: events.TicketCreatedPayload{
			TicketNumber: ticket.TicketNumber,
			Category:     ticket.Category,
			Priority:     ticket.Priority,
			Title:        ticket.Title,
		},
	})
	return ticket, nil
}

// ListTickets returns paginated tickets visible to the caller: reporters see
// their own, support and admins see everything matching the filter.
func (s *TicketService) ListTickets(ctx context.Context, identity *auth.Principal, filter TicketListFilter) ([]domain.Ticket, error) {
	if err := auth.Authorize(identity); err != nil {
		return nil, err
	}
	repoFilter := repository.TicketFilter{
		AssignedToID: filter.AssigneeID,
		Statuses:     filter.Statuses,
		Priorities:   filter.Priorities,
		Category:     filter.Category,
		SearchTerm:   filter.SearchTerm,
		CreatedFrom:  filter.CreatedFrom,
		CreatedTo:    filter.CreatedTo,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	}
	if identity.Role() == domain.RoleUser {
		reporterID := identity.ID()
		repoFilter.ReporterID = &reporterID
	}
	return s.tickets.ListWithFilter(ctx, repoFilter)
}

// GetTicket fetches a ticket ensuring the caller may see it.
func (s *TicketService) GetTicket(ctx context.Context, identity *auth.Principal, ticketID string) (*domain.Ticket, error) {
	if err := auth.Authorize(identity); err != nil {
		return nil, err
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if identity.Role() == domain.RoleUser && ticket.ReporterID != identity.ID() {
		return nil, apperrors.NewNotAuthorized("not ticket reporter")
	}
	return ticket, nil
}

// GetTicketByNumber resolves a ticket by its human-facing number, with the
// same visibility rules as GetTicket.
func (s *TicketService) GetTicketByNumber(ctx context.Context, identity *auth.Principal, ticketNumber string) (*domain.Ticket, error) {
	if err := auth.Authorize(identity); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetByNumber(ctx, ticketNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_number": ticketNumber})
		}
		return nil, apperrors.MapError(err)
	}
	if identity.Role() == domain.RoleUser && ticket.ReporterID != identity.ID() {
		return nil, apperrors.NewNotAuthorized("not ticket reporter")
	}
	return ticket, nil
}

// UpdateStatus moves a ticket through its lifecycle. Support or admin.
func (s *TicketService) UpdateStatus(ctx context.Context, identity *auth.Principal, ticketID string, newStatus domain.TicketStatus, comment string) (*domain.Ticket, error) {
	if err := auth.Authorize(identity, domain.SupportRoles...); err != nil {
		return nil, err
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !isValidTransition(ticket.Status, newStatus) {
		return nil, apperrors.NewInvalidStatus("invalid status transition")
	}

	oldStatus := ticket.Status
	now := time.Now()
	switch newStatus {
	case domain.TicketStatusResolved:
		ticket.ResolvedAt = &now
		met := s.resolutionMet(ctx, ticket, now)
		ticket.SLAResolutionMet = &met
	case domain.TicketStatusClosed:
		ticket.ClosedAt = &now
	default:
		// reopening clears resolution bookkeeping
		if oldStatus == domain.TicketStatusResolved {
			ticket.ResolvedAt = nil
			ticket.SLAResolutionMet = nil
		}
	}
	ticket.Status = newStatus
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.audit.Record(ctx, identity.ID(), "tickets.updateStatus", "ticket", ticket.ID, map[string]any{
		"old_status": oldStatus,
		"new_status": newStatus,
		"comment":    comment,
	})
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketStatusChanged,
		EntityID: ticket.ID,
		ActorID:  identity.ID(),
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Comment:   comment,
		},
	})
	return ticket, nil
}

// UpdatePriority changes ticket priority. Support or admin.
func (s *TicketService) UpdatePriority(ctx context.Context, identity *auth.Principal, ticketID string, newPriority domain.TicketPriority) (*domain.Ticket, error) {
	if err := auth.Authorize(identity, domain.SupportRoles...); err != nil {
		return nil, err
	}
	if !domain.ValidPriority(newPriority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": newPriority})
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	oldPriority := ticket.Priority
	ticket.Priority = newPriority
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.audit.Record(ctx, identity.ID(), "tickets.updatePriority", "ticket", ticket.ID, map[string]any{
		"old_priority": oldPriority,
		"new_priority": newPriority,
	})
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketPriorityChanged,
		EntityID: ticket.ID,
		ActorID:  identity.ID(),
		Payload: events.TicketPriorityChangedPayload{
			OldPriority: oldPriority,
			NewPriority: newPriority,
		},
	})
	return ticket, nil
}

// AssignTicket assigns the ticket to a support agent and records the
// assignment time used by agent-performance reporting.
func (s *TicketService) AssignTicket(ctx context.Context, identity *auth.Principal, ticketID, assigneeID string) (*domain.Ticket, error) {
	if err := auth.Authorize(identity, domain.SupportRoles...); err != nil {
		return nil, err
	}
	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": assigneeID})
		}
		return nil, apperrors.MapError(err)
	}
	if assignee.Role == domain.RoleUser {
		return nil, apperrors.NewValidationError("assignee is not support staff", map[string]any{"user_id": assigneeID})
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	ticket.AssignedToID = &assignee.ID
	ticket.AssignedAt = &now
	if ticket.Status == domain.TicketStatusOpen {
		ticket.Status = domain.TicketStatusInProgress
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.audit.Record(ctx, identity.ID(), "tickets.assign", "ticket", ticket.ID, map[string]any{
		"assigned_to_id": assignee.ID,
	})
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketAssigned,
		EntityID: ticket.ID,
		ActorID:  identity.ID(),
		Payload:  events.TicketAssignedPayload{AssignedToID: ticket.AssignedToID},
	})
	return ticket, nil
}

// LinkAsset associates an asset with a ticket. Support or admin.
func (s *TicketService) LinkAsset(ctx context.Context, identity *auth.Principal, ticketID string, assetID *string) (*domain.Ticket, error) {
	if err := auth.Authorize(identity, domain.SupportRoles...); err != nil {
		return nil, err
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if assetID != nil {
		if _, err := s.assets.GetByID(ctx, *assetID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("asset", map[string]any{"asset_id": *assetID})
			}
			return nil, apperrors.MapError(err)
		}
	}
	ticket.AssetID = assetID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.audit.Record(ctx, identity.ID(), "tickets.linkAsset", "ticket", ticket.ID, map[string]any{
		"asset_id": assetID,
	})
	return ticket, nil
}

// DeleteTicket removes a ticket. Admin only.
func (s *TicketService) DeleteTicket(ctx context.Context, identity *auth.Principal, ticketID string) error {
	if err := auth.Authorize(identity, domain.AdminOnly...); err != nil {
		return err
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return err
	}
	if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
		return apperrors.MapError(err)
	}
	s.audit.Record(ctx, identity.ID(), "tickets.delete", "ticket", ticket.ID, map[string]any{
		"ticket_number": ticket.TicketNumber,
	})
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketDeleted,
		EntityID: ticket.ID,
		ActorID:  identity.ID(),
	})
	return nil
}

func (s *TicketService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// resolutionMet stamps SLA compliance at resolution time. A missing policy
// counts as met: tickets without a budget cannot breach it.
func (s *TicketService) resolutionMet(ctx context.Context, ticket *domain.Ticket, resolvedAt time.Time) bool {
	if s.policies == nil {
		return true
	}
	policy, err := s.policies.GetByPriority(ctx, ticket.Priority)
	if err != nil {
		return true
	}
	return policy.ResolutionMet(ticket.CreatedAt, resolvedAt)
}

func generateTicketNumber() string {
	return "TKT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:       {domain.TicketStatusInProgress, domain.TicketStatusResolved},
	domain.TicketStatusInProgress: {domain.TicketStatusOpen, domain.TicketStatusResolved},
	domain.TicketStatusResolved:   {domain.TicketStatusInProgress, domain.TicketStatusClosed},
	domain.TicketStatusClosed:     {},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
