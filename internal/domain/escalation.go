package domain

import "time"

// EscalationLevel orders SLA threshold crossings.
type EscalationLevel int

const (
	EscalationLevelWarning  EscalationLevel = 1
	EscalationLevelCritical EscalationLevel = 2
)

// Threshold percentages of the resolution budget that trigger escalation.
const (
	EscalationWarningPercent  = 75.0
	EscalationCriticalPercent = 90.0
)

// Escalation records a single SLA threshold crossing for a ticket. Rows are
// append-only; acknowledgement flips once and never reverts.
type Escalation struct {
	ID             string
	TicketID       string
	Level          EscalationLevel
	PercentageUsed float64
	EscalatedAt    time.Time
	Acknowledged   bool
	AcknowledgedBy *string
	AcknowledgedAt *time.Time
}

// LevelForPercentage maps elapsed budget percentage to the escalation level it
// warrants, or 0 when no threshold has been crossed.
func LevelForPercentage(pct float64) EscalationLevel {
	switch {
	case pct >= EscalationCriticalPercent:
		return EscalationLevelCritical
	case pct >= EscalationWarningPercent:
		return EscalationLevelWarning
	default:
		return 0
	}
}
