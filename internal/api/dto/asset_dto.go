package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// AssetRequest payload for create/update.
type AssetRequest struct {
	AssetTag string             `json:"asset_tag"`
	Name     string             `json:"name"`
	Type     string             `json:"type"`
	Status   domain.AssetStatus `json:"status,omitempty"`
	Notes    string             `json:"notes,omitempty"`
}

// AssignAssetRequest payload.
type AssignAssetRequest struct {
	UserID string `json:"user_id"`
}

// AssetResponse is the inventory representation.
type AssetResponse struct {
	ID             string             `json:"id"`
	AssetTag       string             `json:"asset_tag"`
	Name           string             `json:"name"`
	Type           string             `json:"type"`
	Status         domain.AssetStatus `json:"status"`
	AssignedToID   *string            `json:"assigned_to_id"`
	AssignedToName *string            `json:"assigned_to_name"`
	Notes          string             `json:"notes,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// NewAssetResponse maps a domain asset.
func NewAssetResponse(a *domain.Asset) AssetResponse {
	return AssetResponse{
		ID:             a.ID,
		AssetTag:       a.AssetTag,
		Name:           a.Name,
		Type:           a.Type,
		Status:         a.Status,
		AssignedToID:   a.AssignedToID,
		AssignedToName: a.AssignedToName,
		Notes:          a.Notes,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// NewAssetResponses maps a slice of domain assets.
func NewAssetResponses(assets []domain.Asset) []AssetResponse {
	items := make([]AssetResponse, 0, len(assets))
	for i := range assets {
		items = append(items, NewAssetResponse(&assets[i]))
	}
	return items
}
