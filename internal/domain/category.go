package domain

import "time"

// CategoryConfig defines a ticket category and its default priority.
type CategoryConfig struct {
	ID              string
	Name            string
	Description     string
	DefaultPriority TicketPriority
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
