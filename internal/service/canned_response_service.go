package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// CannedResponseService manages reusable reply templates for agents.
type CannedResponseService struct {
	responses repository.CannedResponseRepository
	audit     *AuditService
}

// CannedResponseDependencies bundles requirements for canned response service.
type CannedResponseDependencies struct {
	ResponseRepo repository.CannedResponseRepository
	Audit        *AuditService
}

// CannedResponseInput describes create/update payloads.
type CannedResponseInput struct {
	Title    string
	Body     string
	Category string
}

// NewCannedResponseService constructs the service.
func NewCannedResponseService(deps CannedResponseDependencies) *CannedResponseService {
	return &CannedResponseService{responses: deps.ResponseRepo, audit: deps.Audit}
}

// CreateResponse adds a template. Support or admin.
func (s *CannedResponseService) CreateResponse(ctx context.Context, identity *auth.Principal, input CannedResponseInput) (*domain.CannedResponse, error) {
	if err := auth.Authorize(identity, domain.SupportRoles...); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Body) == "" {
		return nil, apperrors.NewValidationError("title and body required", nil)
	}
	response := &domain.CannedResponse{
		Title:     strings.TrimSpace(input.Title),
		Body:      input.Body,
		Category:  strings.TrimSpace(input.Category),
		CreatedBy: identity.ID(),
	}
	if err := s.responses.Create(ctx, response); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.audit.Record(ctx, identity.ID(), "canned_responses.create", "canned_response", response.ID, map[string]any{
		"title": response.Title,
	})
	return response, nil
}

// UpdateResponse edits a template. Support or admin.
func (s *CannedResponseService) UpdateResponse(ctx context.Context, identity *auth.Principal, id string, input CannedResponseInput) (*domain.CannedResponse, error) {
	if err := auth.Authorize(identity, domain.SupportRoles...); err != nil {
		return nil, err
	}
	response, err := s.getResponse(ctx, id)
	if err != nil {
		return nil, err
	}
	if title := strings.TrimSpace(input.Title); title != "" {
		response.Title = title
	}
	if input.Body != "" {
		response.Body = input.Body
	}
	if category := strings.TrimSpace(input.Category); category != "" {
		response.Category = category
	}
	if err := s.responses.Update(ctx, response); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.audit.Record(ctx, identity.ID(), "canned_responses.update", "canned_response", response.ID, nil)
	return response, nil
}

// DeleteResponse removes a template. Support or admin.
func (s *CannedResponseService) DeleteResponse(ctx context.Context, identity *auth.Principal, id string) error {
	if err := auth.Authorize(identity, domain.SupportRoles...); err != nil {
		return err
	}
	response, err := s.getResponse(ctx, id)
	if err != nil {
		return err
	}
	if err := s.responses.Delete(ctx, response.ID); err != nil {
		return apperrors.MapError(err)
	}
	s.audit.Record(ctx, identity.ID(), "canned_responses.delete", "canned_response", response.ID, map[string]any{
		"title": response.Title,
	})
	return nil
}

// GetResponse fetches a single template. Support or admin.
func (s *CannedResponseService) GetResponse(ctx context.Context, identity *auth.Principal, id string) (*domain.CannedResponse, error) {
	if err := auth.Authorize(identity, domain.SupportRoles...); err != nil {
		return nil, err
	}
	return s.getResponse(ctx, id)
}

// ListResponses lists templates, optionally filtered by category. Support or admin.
func (s *CannedResponseService) ListResponses(ctx context.Context, identity *auth.Principal, category string, limit, offset int) ([]domain.CannedResponse, error) {
	if err := auth.Authorize(identity, domain.SupportRoles...); err != nil {
		return nil, err
	}
	return s.responses.List(ctx, category, limit, offset)
}

func (s *CannedResponseService) getResponse(ctx context.Context, id string) (*domain.CannedResponse, error) {
	response, err := s.responses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("canned response", map[string]any{"canned_response_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return response, nil
}
