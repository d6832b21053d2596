package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// SubmitRatingRequest payload.
type SubmitRatingRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// RatingResponse is the ticket rating representation.
type RatingResponse struct {
	ID              string    `json:"id"`
	TicketID        string    `json:"ticket_id"`
	Rating          int       `json:"rating"`
	Comment         string    `json:"comment,omitempty"`
	RatedBy         string    `json:"rated_by"`
	ResolutionHours *float64  `json:"resolution_hours,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewRatingResponse maps a domain rating.
func NewRatingResponse(r *domain.Rating) RatingResponse {
	return RatingResponse{
		ID:              r.ID,
		TicketID:        r.TicketID,
		Rating:          r.Rating,
		Comment:         r.Comment,
		RatedBy:         r.RatedBy,
		ResolutionHours: r.ResolutionHours,
		CreatedAt:       r.CreatedAt,
	}
}
