package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// AnnouncementService manages time-windowed broadcasts.
type AnnouncementService struct {
	announcements repository.AnnouncementRepository
	audit         *AuditService
	dispatcher    events.Dispatcher
}

// AnnouncementDependencies bundles requirements for announcement service.
type AnnouncementDependencies struct {
	AnnouncementRepo repository.AnnouncementRepository
	Audit            *AuditService
	Dispatcher       events.Dispatcher
}

// AnnouncementInput describes create/update payloads.
type AnnouncementInput struct {
	Title    string
	Body     string
	Type     domain.AnnouncementType
	StartAt  time.Time
	EndAt    time.Time
	IsActive *bool
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(deps AnnouncementDependencies) *AnnouncementService {
	return &AnnouncementService{
		announcements: deps.AnnouncementRepo,
		audit:         deps.Audit,
		dispatcher:    deps.Dispatcher,
	}
}

// CreateAnnouncement publishes a new banner. Admin only.
func (s *AnnouncementService) CreateAnnouncement(ctx context.Context, identity *auth.Principal, input AnnouncementInput) (*domain.Announcement, error) {
	if err := auth.Authorize(identity, domain.AdminOnly...); err != nil {
		return nil, err
	}
	if err := validateAnnouncementInput(input); err != nil {
		return nil, err
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	announcement := &domain.Announcement{
		Title:     strings.TrimSpace(input.Title),
		Body:      strings.TrimSpace(input.Body),
		Type:      input.Type,
		StartAt:   input.StartAt,
		EndAt:     input.EndAt,
		IsActive:  active,
		CreatedBy: identity.ID(),
	}
	if err := s.announcements.Create(ctx, announcement); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.audit.Record(ctx, identity.ID(), "announcements.create", "announcement", announcement.ID, map[string]any{
		"title": announcement.Title,
		"type":  announcement.Type,
	})
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventAnnouncementPublished,
		EntityID: announcement.ID,
		ActorID:  identity.ID(),
		Payload: events.AnnouncementPublishedPayload{
			Title: announcement.Title,
			Type:  announcement.Type,
		},
	})
	return announcement, nil
}

// UpdateAnnouncement edits a banner. Admin only.
func (s *AnnouncementService) UpdateAnnouncement(ctx context.Context, identity *auth.Principal, id string, input AnnouncementInput) (*domain.Announcement, error) {
	if err := auth.Authorize(identity, domain.AdminOnly...); err != nil {
		return nil, err
	}
	announcement, err := s.getAnnouncement(ctx, id)
	if err != nil {
		return nil, err
	}
	if title := strings.TrimSpace(input.Title); title != "" {
		announcement.Title = title
	}
	if body := strings.TrimSpace(input.Body); body != "" {
		announcement.Body = body
	}
	if input.Type != "" {
		if !validAnnouncementType(input.Type) {
			return nil, apperrors.NewValidationError("unknown announcement type", map[string]any{"type": input.Type})
		}
		announcement.Type = input.Type
	}
	if !input.StartAt.IsZero() {
		announcement.StartAt = input.StartAt
	}
	if !input.EndAt.IsZero() {
		announcement.EndAt = input.EndAt
	}
	if input.IsActive != nil {
		announcement.IsActive = *input.IsActive
	}
	if announcement.EndAt.Before(announcement.StartAt) {
		return nil, apperrors.NewValidationError("end_at before start_at", nil)
	}
	if err := s.announcements.Update(ctx, announcement); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.audit.Record(ctx, identity.ID(), "announcements.update", "announcement", announcement.ID, nil)
	return announcement, nil
}

// DeleteAnnouncement removes a banner. Admin only.
func (s *AnnouncementService) DeleteAnnouncement(ctx context.Context, identity *auth.Principal, id string) error {
	if err := auth.Authorize(identity, domain.AdminOnly...); err != nil {
		return err
	}
	announcement, err := s.getAnnouncement(ctx, id)
	if err != nil {
		return err
	}
	if err := s.announcements.Delete(ctx, announcement.ID); err != nil {
		return apperrors.MapError(err)
	}
	s.audit.Record(ctx, identity.ID(), "announcements.delete", "announcement", announcement.ID, map[string]any{
		"title": announcement.Title,
	})
	return nil
}

// ListAll returns every banner for administration. Support or admin.
func (s *AnnouncementService) ListAll(ctx context.Context, identity *auth.Principal, limit, offset int) ([]domain.Announcement, error) {
	if err := auth.Authorize(identity, domain.SupportRoles...); err != nil {
		return nil, err
	}
	return s.announcements.ListAll(ctx, limit, offset)
}

// ListActive returns banners inside their visibility window, for any
// authenticated caller.
func (s *AnnouncementService) ListActive(ctx context.Context, identity *auth.Principal) ([]domain.Announcement, error) {
	if err := auth.Authorize(identity); err != nil {
		return nil, err
	}
	return s.announcements.ListActiveAt(ctx, time.Now())
}

func (s *AnnouncementService) getAnnouncement(ctx context.Context, id string) (*domain.Announcement, error) {
	announcement, err := s.announcements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("announcement", map[string]any{"announcement_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return announcement, nil
}

func validateAnnouncementInput(input AnnouncementInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return apperrors.NewValidationError("title required", nil)
	}
	if !validAnnouncementType(input.Type) {
		return apperrors.NewValidationError("unknown announcement type", map[string]any{"type": input.Type})
	}
	if input.StartAt.IsZero() || input.EndAt.IsZero() || input.EndAt.Before(input.StartAt) {
		return apperrors.NewValidationError("invalid visibility window", nil)
	}
	return nil
}

func validAnnouncementType(t domain.AnnouncementType) bool {
	switch t {
	case domain.AnnouncementInfo, domain.AnnouncementWarning, domain.AnnouncementCritical:
		return true
	default:
		return false
	}
}
