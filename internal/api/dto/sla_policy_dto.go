package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// SLAPolicyRequest payload for upsert.
type SLAPolicyRequest struct {
	ResponseMinutes   int `json:"response_minutes"`
	ResolutionMinutes int `json:"resolution_minutes"`
}

// SLAPolicyResponse is the per-priority budget representation.
type SLAPolicyResponse struct {
	Priority          domain.TicketPriority `json:"priority"`
	ResponseMinutes   int                   `json:"response_minutes"`
	ResolutionMinutes int                   `json:"resolution_minutes"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// NewSLAPolicyResponse maps a domain policy.
func NewSLAPolicyResponse(p *domain.SLAPolicy) SLAPolicyResponse {
	return SLAPolicyResponse{
		Priority:          p.Priority,
		ResponseMinutes:   p.ResponseMinutes,
		ResolutionMinutes: p.ResolutionMinutes,
		UpdatedAt:         p.UpdatedAt,
	}
}

// NewSLAPolicyResponses maps a slice of domain policies.
func NewSLAPolicyResponses(items []domain.SLAPolicy) []SLAPolicyResponse {
	out := make([]SLAPolicyResponse, 0, len(items))
	for i := range items {
		out = append(out, NewSLAPolicyResponse(&items[i]))
	}
	return out
}
