package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// RatingService accepts reporter feedback on resolved tickets.
type RatingService struct {
	ratings    repository.RatingRepository
	tickets    repository.TicketRepository
	audit      *AuditService
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// RatingDependencies bundles requirements for rating service.
type RatingDependencies struct {
	RatingRepo repository.RatingRepository
	TicketRepo repository.TicketRepository
	Audit      *AuditService
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewRatingService constructs the service.
func NewRatingService(deps RatingDependencies) *RatingService {
	return &RatingService{
		ratings:    deps.RatingRepo,
		tickets:    deps.TicketRepo,
		audit:      deps.Audit,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// SubmitRating records a rating for a ticket. Only the original reporter may
// rate, exactly once, and only after resolution. The ticket's denormalized
// rating flags are refreshed after the insert; the two writes are not atomic,
// so a crash in between leaves the flags stale until the next submission
// attempt surfaces already-rated.
func (s *RatingService) SubmitRating(ctx context.Context, identity *auth.Principal, ticketID string, value int, comment string) (*domain.Rating, error) {
	if err := auth.Authorize(identity); err != nil {
		return nil, err
	}
	if value < domain.RatingMin || value > domain.RatingMax {
		return nil, apperrors.NewInvalidRating("rating must be between 1 and 5")
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if ticket.ReporterID != identity.ID() {
		return nil, apperrors.NewNotAuthorized("only the reporter may rate this ticket")
	}
	if !ticket.IsResolvedOrClosed() {
		return nil, apperrors.NewInvalidStatus("ticket must be resolved or closed to rate")
	}
	exists, err := s.ratings.ExistsForTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if exists {
		return nil, apperrors.NewAlreadyRated(ticket.ID)
	}

	rating := &domain.Rating{
		TicketID: ticket.ID,
		Rating:   value,
		Comment:  strings.TrimSpace(comment),
		RatedBy:  identity.ID(),
	}
	if hours, ok := ticket.ResolutionHours(); ok {
		rating.ResolutionHours = &hours
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		// constraint backstop when two submissions race the exists pre-check
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewAlreadyRated(ticket.ID)
		}
		return nil, apperrors.MapError(err)
	}

	if err := s.tickets.SetRatingFlags(ctx, ticket.ID, value); err != nil {
		// The rating row exists but the ticket flags are stale.
		s.logger.Error("denormalize rating flags failed",
			zap.Error(err),
			zap.String("ticket_id", ticket.ID))
	}

	s.audit.Record(ctx, identity.ID(), "ratings.submit", "rating", rating.ID, map[string]any{
		"ticket_id": ticket.ID,
		"rating":    value,
	})
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventRatingSubmitted,
		EntityID: rating.ID,
		ActorID:  identity.ID(),
		Payload: events.RatingSubmittedPayload{
			TicketID: ticket.ID,
			Rating:   value,
		},
	})
	return rating, nil
}

// GetTicketRating returns the rating for a ticket, visible to the reporter
// and to support staff.
func (s *RatingService) GetTicketRating(ctx context.Context, identity *auth.Principal, ticketID string) (*domain.Rating, error) {
	if err := auth.Authorize(identity); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if identity.Role() == domain.RoleUser && ticket.ReporterID != identity.ID() {
		return nil, apperrors.NewNotAuthorized("not ticket reporter")
	}
	rating, err := s.ratings.GetByTicket(ctx, ticket.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("rating", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return rating, nil
}
