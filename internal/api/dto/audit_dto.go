package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// AuditLogResponse is one entry of the mutation trail.
type AuditLogResponse struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// NewAuditLogResponses maps a slice of domain audit entries.
func NewAuditLogResponses(items []domain.AuditLog) []AuditLogResponse {
	out := make([]AuditLogResponse, 0, len(items))
	for i := range items {
		entry := &items[i]
		out = append(out, AuditLogResponse{
			ID:         entry.ID,
			UserID:     entry.UserID,
			Action:     entry.Action,
			EntityType: entry.EntityType,
			EntityID:   entry.EntityID,
			Metadata:   entry.Metadata,
			CreatedAt:  entry.CreatedAt,
		})
	}
	return out
}
