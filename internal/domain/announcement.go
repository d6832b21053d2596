package domain

import "time"

// AnnouncementType grades banner severity.
type AnnouncementType string

const (
	AnnouncementInfo     AnnouncementType = "info"
	AnnouncementWarning  AnnouncementType = "warning"
	AnnouncementCritical AnnouncementType = "critical"
)

// Announcement is a time-windowed broadcast shown to all users.
type Announcement struct {
	ID        string
	Title     string
	Body      string
	Type      AnnouncementType
	StartAt   time.Time
	EndAt     time.Time
	IsActive  bool
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// VisibleAt reports whether the announcement should display at the given time.
func (a *Announcement) VisibleAt(now time.Time) bool {
	return a.IsActive && !now.Before(a.StartAt) && !now.After(a.EndAt)
}
