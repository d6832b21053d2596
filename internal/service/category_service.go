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

// CategoryService manages ticket category configuration.
type CategoryService struct {
	categories repository.CategoryRepository
	audit      *AuditService
}

// CategoryDependencies bundles requirements for category service.
type CategoryDependencies struct {
	CategoryRepo repository.CategoryRepository
	Audit        *AuditService
}

// CategoryInput describes create/update payloads.
type CategoryInput struct {
	Name            string
	Description     string
	DefaultPriority domain.TicketPriority
	IsActive        *bool
}

// NewCategoryService constructs the service.
func NewCategoryService(deps CategoryDependencies) *CategoryService {
	return &CategoryService{categories: deps.CategoryRepo, audit: deps.Audit}
}

// CreateCategory adds a category config. Admin only.
func (s *CategoryService) CreateCategory(ctx context.Context, identity *auth.Principal, input CategoryInput) (*domain.CategoryConfig, error) {
	if err := auth.Authorize(identity, domain.AdminOnly...); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if !domain.ValidPriority(input.DefaultPriority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.DefaultPriority})
	}
	if existing, err := s.categories.GetByName(ctx, name); err == nil && existing != nil {
		return nil, apperrors.NewConflict("category name already in use", map[string]any{"name": name})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	category := &domain.CategoryConfig{
		Name:            name,
		Description:     strings.TrimSpace(input.Description),
		DefaultPriority: input.DefaultPriority,
		IsActive:        active,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.audit.Record(ctx, identity.ID(), "categories.create", "category", category.ID, map[string]any{
		"name": category.Name,
	})
	return category, nil
}

// UpdateCategory edits a category config. Admin only.
func (s *CategoryService) UpdateCategory(ctx context.Context, identity *auth.Principal, id string, input CategoryInput) (*domain.CategoryConfig, error) {
	if err := auth.Authorize(identity, domain.AdminOnly...); err != nil {
		return nil, err
	}
	category, err := s.getCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(input.Name); name != "" && name != category.Name {
		if existing, err := s.categories.GetByName(ctx, name); err == nil && existing != nil {
			return nil, apperrors.NewConflict("category name already in use", map[string]any{"name": name})
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
		category.Name = name
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		category.Description = desc
	}
	if input.DefaultPriority != "" {
		if !domain.ValidPriority(input.DefaultPriority) {
			return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.DefaultPriority})
		}
		category.DefaultPriority = input.DefaultPriority
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.audit.Record(ctx, identity.ID(), "categories.update", "category", category.ID, nil)
	return category, nil
}

// DeleteCategory removes a category config. Admin only. Existing tickets
// keep their category string.
func (s *CategoryService) DeleteCategory(ctx context.Context, identity *auth.Principal, id string) error {
	if err := auth.Authorize(identity, domain.AdminOnly...); err != nil {
		return err
	}
	category, err := s.getCategory(ctx, id)
	if err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, category.ID); err != nil {
		return apperrors.MapError(err)
	}
	s.audit.Record(ctx, identity.ID(), "categories.delete", "category", category.ID, map[string]any{
		"name": category.Name,
	})
	return nil
}

// ListCategories returns all category configs. Regular users see only
// active ones.
func (s *CategoryService) ListCategories(ctx context.Context, identity *auth.Principal, activeOnly bool) ([]domain.CategoryConfig, error) {
	if err := auth.Authorize(identity); err != nil {
		return nil, err
	}
	if identity.Role() == domain.RoleUser {
		activeOnly = true
	}
	return s.categories.List(ctx, activeOnly)
}

func (s *CategoryService) getCategory(ctx context.Context, id string) (*domain.CategoryConfig, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return category, nil
}
