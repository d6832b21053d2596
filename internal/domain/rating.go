package domain

import "time"

// Rating bounds for ticket satisfaction scores.
const (
	RatingMin = 1
	RatingMax = 5
)

// Rating captures reporter feedback on a resolved ticket. At most one rating
// exists per ticket.
type Rating struct {
	ID              string
	TicketID        string
	Rating          int
	Comment         string
	RatedBy         string
	ResolutionHours *float64
	CreatedAt       time.Time
}
