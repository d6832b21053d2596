package domain

import "time"

// SystemActorID attributes audit entries generated by background jobs.
const SystemActorID = "system"

// AuditLog is an append-only record of one mutating operation. Every
// successful write path emits exactly one entry keyed by the entity touched.
type AuditLog struct {
	ID         string
	UserID     string
	Action     string
	EntityType string
	EntityID   string
	Metadata   map[string]any
	CreatedAt  time.Time
}
