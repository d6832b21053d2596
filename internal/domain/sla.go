package domain

import "time"

// SLAPolicy is the time budget attached to a priority tier.
type SLAPolicy struct {
	Priority          TicketPriority
	ResponseMinutes   int
	ResolutionMinutes int
	UpdatedAt         time.Time
}

// ResolutionBudget returns the resolution window as a duration.
func (p SLAPolicy) ResolutionBudget() time.Duration {
	return time.Duration(p.ResolutionMinutes) * time.Minute
}

// PercentageUsed computes how much of the resolution budget has elapsed for a
// ticket created at createdAt, evaluated at now. A zero or negative budget
// yields 0 rather than dividing by zero.
func (p SLAPolicy) PercentageUsed(createdAt, now time.Time) float64 {
	budget := p.ResolutionBudget()
	if budget <= 0 {
		return 0
	}
	elapsed := now.Sub(createdAt)
	if elapsed < 0 {
		return 0
	}
	return float64(elapsed) / float64(budget) * 100
}

// ResolutionMet reports whether a ticket resolved at resolvedAt stayed within
// the budget from createdAt.
func (p SLAPolicy) ResolutionMet(createdAt, resolvedAt time.Time) bool {
	return !resolvedAt.After(createdAt.Add(p.ResolutionBudget()))
}
