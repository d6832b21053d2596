package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    string                `json:"category"`
	Priority    domain.TicketPriority `json:"priority,omitempty"`
	AssetID     *string               `json:"asset_id,omitempty"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status  domain.TicketStatus `json:"status"`
	Comment string              `json:"comment,omitempty"`
}

// UpdatePriorityRequest payload.
type UpdatePriorityRequest struct {
	Priority domain.TicketPriority `json:"priority"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// LinkAssetRequest payload. A null asset_id unlinks.
type LinkAssetRequest struct {
	AssetID *string `json:"asset_id"`
}

// TicketResponse is the full ticket representation.
type TicketResponse struct {
	ID               string                `json:"id"`
	TicketNumber     string                `json:"ticket_number"`
	Title            string                `json:"title"`
	Description      string                `json:"description"`
	Status           domain.TicketStatus   `json:"status"`
	Priority         domain.TicketPriority `json:"priority"`
	Category         string                `json:"category"`
	ReporterID       string                `json:"reporter_id"`
	AssignedToID     *string               `json:"assigned_to_id"`
	AssignedAt       *time.Time            `json:"assigned_at"`
	AssetID          *string               `json:"asset_id"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
	ResolvedAt       *time.Time            `json:"resolved_at"`
	ClosedAt         *time.Time            `json:"closed_at"`
	SLAResolutionMet *bool                 `json:"sla_resolution_met"`
	HasRating        bool                  `json:"has_rating"`
	RatingValue      *int                  `json:"rating_value,omitempty"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:               t.ID,
		TicketNumber:     t.TicketNumber,
		Title:            t.Title,
		Description:      t.Description,
		Status:           t.Status,
		Priority:         t.Priority,
		Category:         t.Category,
		ReporterID:       t.ReporterID,
		AssignedToID:     t.AssignedToID,
		AssignedAt:       t.AssignedAt,
		AssetID:          t.AssetID,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
		ResolvedAt:       t.ResolvedAt,
		ClosedAt:         t.ClosedAt,
		SLAResolutionMet: t.SLAResolutionMet,
		HasRating:        t.HasRating,
		RatingValue:      t.RatingValue,
	}
}

// NewTicketResponses maps a slice of domain tickets.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, NewTicketResponse(&tickets[i]))
	}
	return items
}
