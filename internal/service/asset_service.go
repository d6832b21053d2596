package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// AssetService manages IT inventory.
type AssetService struct {
	assets     repository.AssetRepository
	users      repository.UserRepository
	audit      *AuditService
	dispatcher events.Dispatcher
}

// AssetDependencies bundles requirements for asset service.
type AssetDependencies struct {
	AssetRepo  repository.AssetRepository
	UserRepo   repository.UserRepository
	Audit      *AuditService
	Dispatcher events.Dispatcher
}

// AssetInput describes create/update payloads.
type AssetInput struct {
	AssetTag string
	Name     string
	Type     string
	Status   domain.AssetStatus
	Notes    string
}

// NewAssetService constructs the service.
func NewAssetService(deps AssetDependencies) *AssetService {
	return &AssetService{
		assets:     deps.AssetRepo,
		users:      deps.UserRepo,
		audit:      deps.Audit,
		dispatcher: deps.Dispatcher,
	}
}

// CreateAsset registers inventory. Support or admin; tags are unique.
func (s *AssetService) CreateAsset(ctx context.Context, identity *auth.Principal, input AssetInput) (*domain.Asset, error) {
	if err := auth.Authorize(identity, domain.SupportRoles...); err != nil {
		return nil, err
	}
	tag := strings.TrimSpace(input.AssetTag)
	if tag == "" || strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("asset_tag and name required", nil)
	}
	if _, err := s.assets.GetByTag(ctx, tag); err == nil {
		return nil, apperrors.NewDuplicateTag(tag)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	status := input.Status
	if status == "" {
		status = domain.AssetStatusAvailable
	}
	asset := &domain.Asset{
		AssetTag: tag,
		Name:     strings.TrimSpace(input.Name),
		Type:     strings.TrimSpace(input.Type),
		Status:   status,
		Notes:    input.Notes,
	}
	if err := s.assets.Create(ctx, asset); err != nil {
		// constraint backstop for concurrent inserts racing the pre-check
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewDuplicateTag(tag)
		}
		return nil, apperrors.MapError(err)
	}
	s.audit.Record(ctx, identity.ID(), "assets.create", "asset", asset.ID, map[string]any{
		"asset_tag": asset.AssetTag,
	})
	return asset, nil
}

// UpdateAsset edits inventory metadata. Support or admin.
func (s *AssetService) UpdateAsset(ctx context.Context, identity *auth.Principal, assetID string, input AssetInput) (*domain.Asset, error) {
	if err := auth.Authorize(identity, domain.SupportRoles...); err != nil {
		return nil, err
	}
	asset, err := s.getAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if tag := strings.TrimSpace(input.AssetTag); tag != "" && tag != asset.AssetTag {
		if existing, err := s.assets.GetByTag(ctx, tag); err == nil && existing.ID != asset.ID {
			return nil, apperrors.NewDuplicateTag(tag)
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
		asset.AssetTag = tag
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		asset.Name = name
	}
	if input.Type != "" {
		asset.Type = strings.TrimSpace(input.Type)
	}
	if input.Status != "" {
		asset.Status = input.Status
	}
	if input.Notes != "" {
		asset.Notes = input.Notes
	}
	if err := s.assets.Update(ctx, asset); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewDuplicateTag(asset.AssetTag)
		}
		return nil, apperrors.MapError(err)
	}
	s.audit.Record(ctx, identity.ID(), "assets.update", "asset", asset.ID, map[string]any{
		"asset_tag": asset.AssetTag,
	})
	return asset, nil
}

// AssignAsset hands an asset to a user, denormalizing the assignee name.
func (s *AssetService) AssignAsset(ctx context.Context, identity *auth.Principal, assetID, userID string) (*domain.Asset, error) {
	if err := auth.Authorize(identity, domain.SupportRoles...); err != nil {
		return nil, err
	}
	asset, err := s.getAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	setAssetAssignee(asset, user)
	if err := s.assets.Update(ctx, asset); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.audit.Record(ctx, identity.ID(), "assets.assign", "asset", asset.ID, map[string]any{
		"assigned_to_id": user.ID,
	})
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventAssetAssigned,
		EntityID: asset.ID,
		ActorID:  identity.ID(),
		Payload: events.AssetAssignedPayload{
			AssetTag:     asset.AssetTag,
			AssignedToID: asset.AssignedToID,
		},
	})
	return asset, nil
}

// UnassignAsset returns an asset to the pool.
func (s *AssetService) UnassignAsset(ctx context.Context, identity *auth.Principal, assetID string) (*domain.Asset, error) {
	if err := auth.Authorize(identity, domain.SupportRoles...); err != nil {
		return nil, err
	}
	asset, err := s.getAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	setAssetAssignee(asset, nil)
	if err := s.assets.Update(ctx, asset); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.audit.Record(ctx, identity.ID(), "assets.unassign", "asset", asset.ID, nil)
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventAssetAssigned,
		EntityID: asset.ID,
		ActorID:  identity.ID(),
		Payload:  events.AssetAssignedPayload{AssetTag: asset.AssetTag},
	})
	return asset, nil
}

// DeleteAsset removes inventory. Admin only.
func (s *AssetService) DeleteAsset(ctx context.Context, identity *auth.Principal, assetID string) error {
	if err := auth.Authorize(identity, domain.AdminOnly...); err != nil {
		return err
	}
	asset, err := s.getAsset(ctx, assetID)
	if err != nil {
		return err
	}
	if err := s.assets.Delete(ctx, asset.ID); err != nil {
		return apperrors.MapError(err)
	}
	s.audit.Record(ctx, identity.ID(), "assets.delete", "asset", asset.ID, map[string]any{
		"asset_tag": asset.AssetTag,
	})
	return nil
}

// ListAssets returns inventory. Support or admin.
func (s *AssetService) ListAssets(ctx context.Context, identity *auth.Principal, filter repository.AssetFilter) ([]domain.Asset, error) {
	if err := auth.Authorize(identity, domain.SupportRoles...); err != nil {
		return nil, err
	}
	return s.assets.List(ctx, filter)
}

// GetAsset fetches one asset. Support or admin.
func (s *AssetService) GetAsset(ctx context.Context, identity *auth.Principal, assetID string) (*domain.Asset, error) {
	if err := auth.Authorize(identity, domain.SupportRoles...); err != nil {
		return nil, err
	}
	return s.getAsset(ctx, assetID)
}

func (s *AssetService) getAsset(ctx context.Context, assetID string) (*domain.Asset, error) {
	asset, err := s.assets.GetByID(ctx, assetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("asset", map[string]any{"asset_id": assetID})
		}
		return nil, apperrors.MapError(err)
	}
	return asset, nil
}

// setAssetAssignee is the single place the denormalized assignee fields are
// written, so the cached name cannot drift per call site.
func setAssetAssignee(asset *domain.Asset, user *domain.User) {
	if user == nil {
		asset.AssignedToID = nil
		asset.AssignedToName = nil
		if asset.Status == domain.AssetStatusAssigned {
			asset.Status = domain.AssetStatusAvailable
		}
		return
	}
	asset.AssignedToID = &user.ID
	asset.AssignedToName = strPtr(user.Name)
	asset.Status = domain.AssetStatusAssigned
}
