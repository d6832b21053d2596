package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CategoryRequest payload for create/update.
type CategoryRequest struct {
	Name            string                `json:"name"`
	Description     string                `json:"description,omitempty"`
	DefaultPriority domain.TicketPriority `json:"default_priority"`
	IsActive        *bool                 `json:"is_active,omitempty"`
}

// CategoryResponse is the category configuration representation.
type CategoryResponse struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	Description     string                `json:"description,omitempty"`
	DefaultPriority domain.TicketPriority `json:"default_priority"`
	IsActive        bool                  `json:"is_active"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// NewCategoryResponse maps a domain category config.
func NewCategoryResponse(c *domain.CategoryConfig) CategoryResponse {
	return CategoryResponse{
		ID:              c.ID,
		Name:            c.Name,
		Description:     c.Description,
		DefaultPriority: c.DefaultPriority,
		IsActive:        c.IsActive,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// NewCategoryResponses maps a slice of domain category configs.
func NewCategoryResponses(items []domain.CategoryConfig) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(items))
	for i := range items {
		out = append(out, NewCategoryResponse(&items[i]))
	}
	return out
}
