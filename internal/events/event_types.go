package events

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated          EventType = "ticket_created"
	EventTicketStatusChanged    EventType = "ticket_status_changed"
	EventTicketPriorityChanged  EventType = "ticket_priority_changed"
	EventTicketAssigned         EventType = "ticket_assigned"
	EventTicketDeleted          EventType = "ticket_deleted"
	EventEscalationRaised       EventType = "escalation_raised"
	EventEscalationAcknowledged EventType = "escalation_acknowledged"
	EventRatingSubmitted        EventType = "rating_submitted"
	EventAnnouncementPublished  EventType = "announcement_published"
	EventAssetAssigned          EventType = "asset_assigned"
)

// EntityType returns the collection an event type belongs to, used as the
// change-notification channel suffix.
func (t EventType) EntityType() string {
	switch t {
	case EventEscalationRaised, EventEscalationAcknowledged:
		return "escalations"
	case EventRatingSubmitted:
		return "ratings"
	case EventAnnouncementPublished:
		return "announcements"
	case EventAssetAssigned:
		return "assets"
	default:
		return "tickets"
	}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntityID  string      `json:"entity_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketNumber string                `json:"ticket_number"`
	Category     string                `json:"category"`
	Priority     domain.TicketPriority `json:"priority"`
	Title        string                `json:"title"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Comment   string              `json:"comment,omitempty"`
}

// TicketPriorityChangedPayload payload.
type TicketPriorityChangedPayload struct {
	OldPriority domain.TicketPriority `json:"old_priority"`
	NewPriority domain.TicketPriority `json:"new_priority"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssignedToID *string `json:"assigned_to_id,omitempty"`
}

// EscalationRaisedPayload payload.
type EscalationRaisedPayload struct {
	TicketID       string                 `json:"ticket_id"`
	Level          domain.EscalationLevel `json:"level"`
	PercentageUsed float64                `json:"percentage_used"`
}

// EscalationAcknowledgedPayload payload.
type EscalationAcknowledgedPayload struct {
	TicketID       string `json:"ticket_id"`
	AcknowledgedBy string `json:"acknowledged_by"`
}

// RatingSubmittedPayload payload.
type RatingSubmittedPayload struct {
	TicketID string `json:"ticket_id"`
	Rating   int    `json:"rating"`
}

// AnnouncementPublishedPayload payload.
type AnnouncementPublishedPayload struct {
	Title string                  `json:"title"`
	Type  domain.AnnouncementType `json:"type"`
}

// AssetAssignedPayload payload.
type AssetAssignedPayload struct {
	AssetTag     string  `json:"asset_tag"`
	AssignedToID *string `json:"assigned_to_id,omitempty"`
}
