package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// TicketPriority enumerates SLA urgency tiers.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "LOW"
	TicketPriorityMedium   TicketPriority = "MEDIUM"
	TicketPriorityHigh     TicketPriority = "HIGH"
	TicketPriorityCritical TicketPriority = "CRITICAL"
)

// ValidPriority reports whether p is a known priority tier.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	default:
		return false
	}
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID           string
	TicketNumber string
	Title        string
	Description  string
	Status       TicketStatus
	Priority     TicketPriority
	Category     string
	ReporterID   string
	AssignedToID *string
	AssignedAt   *time.Time
	AssetID      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ResolvedAt   *time.Time
	ClosedAt     *time.Time

	// SLAResolutionMet is stamped when the ticket resolves: nil until then.
	SLAResolutionMet *bool

	// Denormalized rating flags, maintained by the rating service.
	HasRating   bool
	RatingValue *int
}

// IsResolvedOrClosed reports whether the ticket reached a terminal review state.
func (t *Ticket) IsResolvedOrClosed() bool {
	return t.Status == TicketStatusResolved || t.Status == TicketStatusClosed
}

// ResolutionHours returns hours from creation to resolution, or false when the
// ticket has not resolved.
func (t *Ticket) ResolutionHours() (float64, bool) {
	if t.ResolvedAt == nil {
		return 0, false
	}
	return t.ResolvedAt.Sub(t.CreatedAt).Hours(), true
}
