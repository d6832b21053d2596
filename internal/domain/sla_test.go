package domain

import (
	"testing"
	"time"
)

func TestPercentageUsed(t *testing.T) {
	policy := SLAPolicy{Priority: TicketPriorityMedium, ResolutionMinutes: 100}
	created := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		elapsed time.Duration
		want    float64
	}{
		{0, 0},
		{50 * time.Minute, 50},
		{75 * time.Minute, 75},
		{100 * time.Minute, 100},
		{150 * time.Minute, 150},
		{-10 * time.Minute, 0},
	}
	for _, tc := range cases {
		got := policy.PercentageUsed(created, created.Add(tc.elapsed))
		if got != tc.want {
			t.Errorf("elapsed %v: got %.2f, want %.2f", tc.elapsed, got, tc.want)
		}
	}
}

func TestPercentageUsedZeroBudget(t *testing.T) {
	policy := SLAPolicy{ResolutionMinutes: 0}
	now := time.Now()
	if got := policy.PercentageUsed(now.Add(-time.Hour), now); got != 0 {
		t.Errorf("zero budget: got %.2f, want 0", got)
	}
	negative := SLAPolicy{ResolutionMinutes: -5}
	if got := negative.PercentageUsed(now.Add(-time.Hour), now); got != 0 {
		t.Errorf("negative budget: got %.2f, want 0", got)
	}
}

func TestResolutionMetBoundary(t *testing.T) {
	policy := SLAPolicy{ResolutionMinutes: 60}
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if !policy.ResolutionMet(created, created.Add(59*time.Minute)) {
		t.Error("resolution inside budget must count as met")
	}
	if !policy.ResolutionMet(created, created.Add(60*time.Minute)) {
		t.Error("resolution exactly at the deadline counts as met")
	}
	if policy.ResolutionMet(created, created.Add(60*time.Minute+time.Second)) {
		t.Error("resolution past the deadline must count as breached")
	}
}

func TestLevelForPercentage(t *testing.T) {
	cases := []struct {
		pct  float64
		want EscalationLevel
	}{
		{0, 0},
		{74.99, 0},
		{75, EscalationLevelWarning},
		{89.99, EscalationLevelWarning},
		{90, EscalationLevelCritical},
		{250, EscalationLevelCritical},
	}
	for _, tc := range cases {
		if got := LevelForPercentage(tc.pct); got != tc.want {
			t.Errorf("pct %.2f: got %d, want %d", tc.pct, got, tc.want)
		}
	}
}
