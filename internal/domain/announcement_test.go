package domain

import (
	"testing"
	"time"
)

func TestAnnouncementVisibleAt(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	banner := &Announcement{Type: AnnouncementInfo, StartAt: start, EndAt: end, IsActive: true}

	cases := []struct {
		at   time.Time
		want bool
	}{
		{start.Add(-time.Second), false},
		{start, true},
		{start.Add(12 * time.Hour), true},
		{end, true},
		{end.Add(time.Second), false},
	}
	for _, tc := range cases {
		if got := banner.VisibleAt(tc.at); got != tc.want {
			t.Errorf("at %v: got %v, want %v", tc.at, got, tc.want)
		}
	}

	banner.IsActive = false
	if banner.VisibleAt(start.Add(time.Hour)) {
		t.Error("inactive banner must never be visible")
	}
}
