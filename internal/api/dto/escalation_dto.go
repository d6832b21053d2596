package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EscalationResponse is the SLA escalation representation.
type EscalationResponse struct {
	ID             string                 `json:"id"`
	TicketID       string                 `json:"ticket_id"`
	Level          domain.EscalationLevel `json:"level"`
	PercentageUsed float64                `json:"percentage_used"`
	EscalatedAt    time.Time              `json:"escalated_at"`
	Acknowledged   bool                   `json:"acknowledged"`
	AcknowledgedBy *string                `json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time             `json:"acknowledged_at,omitempty"`
}

// NewEscalationResponse maps a domain escalation.
func NewEscalationResponse(e *domain.Escalation) EscalationResponse {
	return EscalationResponse{
		ID:             e.ID,
		TicketID:       e.TicketID,
		Level:          e.Level,
		PercentageUsed: e.PercentageUsed,
		EscalatedAt:    e.EscalatedAt,
		Acknowledged:   e.Acknowledged,
		AcknowledgedBy: e.AcknowledgedBy,
		AcknowledgedAt: e.AcknowledgedAt,
	}
}

// NewEscalationResponses maps a slice of domain escalations.
func NewEscalationResponses(items []domain.Escalation) []EscalationResponse {
	out := make([]EscalationResponse, 0, len(items))
	for i := range items {
		out = append(out, NewEscalationResponse(&items[i]))
	}
	return out
}
