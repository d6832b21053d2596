package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// AnnouncementRequest payload for create/update.
type AnnouncementRequest struct {
	Title    string                  `json:"title"`
	Body     string                  `json:"body"`
	Type     domain.AnnouncementType `json:"type"`
	StartAt  time.Time               `json:"start_at"`
	EndAt    time.Time               `json:"end_at"`
	IsActive *bool                   `json:"is_active,omitempty"`
}

// AnnouncementResponse is the banner representation.
type AnnouncementResponse struct {
	ID        string                  `json:"id"`
	Title     string                  `json:"title"`
	Body      string                  `json:"body"`
	Type      domain.AnnouncementType `json:"type"`
	StartAt   time.Time               `json:"start_at"`
	EndAt     time.Time               `json:"end_at"`
	IsActive  bool                    `json:"is_active"`
	CreatedBy string                  `json:"created_by"`
	CreatedAt time.Time               `json:"created_at"`
}

// NewAnnouncementResponse maps a domain announcement.
func NewAnnouncementResponse(a *domain.Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:        a.ID,
		Title:     a.Title,
		Body:      a.Body,
		Type:      a.Type,
		StartAt:   a.StartAt,
		EndAt:     a.EndAt,
		IsActive:  a.IsActive,
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt,
	}
}

// NewAnnouncementResponses maps a slice of domain announcements.
func NewAnnouncementResponses(items []domain.Announcement) []AnnouncementResponse {
	out := make([]AnnouncementResponse, 0, len(items))
	for i := range items {
		out = append(out, NewAnnouncementResponse(&items[i]))
	}
	return out
}
