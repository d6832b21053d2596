package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CannedResponseRequest payload for create/update.
type CannedResponseRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category string `json:"category,omitempty"`
}

// CannedResponseResponse is the template representation.
type CannedResponseResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Category  string    `json:"category,omitempty"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCannedResponseResponse maps a domain template.
func NewCannedResponseResponse(r *domain.CannedResponse) CannedResponseResponse {
	return CannedResponseResponse{
		ID:        r.ID,
		Title:     r.Title,
		Body:      r.Body,
		Category:  r.Category,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// NewCannedResponseResponses maps a slice of domain templates.
func NewCannedResponseResponses(items []domain.CannedResponse) []CannedResponseResponse {
	out := make([]CannedResponseResponse, 0, len(items))
	for i := range items {
		out = append(out, NewCannedResponseResponse(&items[i]))
	}
	return out
}
