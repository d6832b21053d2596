package domain

import "time"

// CannedResponse is a reusable reply template for support agents.
type CannedResponse struct {
	ID        string
	Title     string
	Body      string
	Category  string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}
