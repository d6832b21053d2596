package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func boolPtr(b bool) *bool { return &b }

func TestReduceTicketStats(t *testing.T) {
	created := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	resolved := created.Add(6 * time.Hour)
	tickets := []domain.Ticket{
		{
			Status:           domain.TicketStatusResolved,
			Priority:         domain.TicketPriorityHigh,
			Category:         "Hardware",
			CreatedAt:        created,
			ResolvedAt:       &resolved,
			SLAResolutionMet: boolPtr(true),
		},
		{
			Status:    domain.TicketStatusOpen,
			Priority:  domain.TicketPriorityMedium,
			Category:  "Software",
			CreatedAt: created,
		},
	}

	stats := reduceTicketStats(tickets)
	if stats.TotalTickets != 2 {
		t.Errorf("totalTickets = %d, want 2", stats.TotalTickets)
	}
	if stats.ResolvedCount != 1 {
		t.Errorf("resolvedCount = %d, want 1", stats.ResolvedCount)
	}
	if stats.ResolvedPercentage != 50.0 {
		t.Errorf("resolvedPercentage = %.2f, want 50.0", stats.ResolvedPercentage)
	}
	if stats.SLAMetCount != 1 {
		t.Errorf("slaMetCount = %d, want 1", stats.SLAMetCount)
	}
	if stats.SLAMetPercentage != 100.0 {
		t.Errorf("slaMetPercentage = %.2f, want 100 over the tracked subset", stats.SLAMetPercentage)
	}
	if stats.AvgResolutionHours != 6.0 {
		t.Errorf("avgResolutionHours = %.2f, want 6.0", stats.AvgResolutionHours)
	}
	if stats.CategoryBreakdown["Hardware"] != 1 || stats.CategoryBreakdown["Software"] != 1 {
		t.Errorf("categoryBreakdown = %v", stats.CategoryBreakdown)
	}
	if stats.StatusBreakdown[domain.TicketStatusResolved] != 1 || stats.StatusBreakdown[domain.TicketStatusOpen] != 1 {
		t.Errorf("statusBreakdown = %v", stats.StatusBreakdown)
	}
	if stats.PriorityBreakdown[domain.TicketPriorityHigh] != 1 {
		t.Errorf("priorityBreakdown = %v", stats.PriorityBreakdown)
	}
}

func TestReduceTicketStatsEmptyInput(t *testing.T) {
	stats := reduceTicketStats(nil)
	if stats.TotalTickets != 0 || stats.ResolvedPercentage != 0 || stats.SLAMetPercentage != 0 || stats.AvgResolutionHours != 0 {
		t.Errorf("empty input must produce zeroes, got %+v", stats)
	}
}

func TestReduceAgentPerformance(t *testing.T) {
	assignedA := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	resolvedA := assignedA.Add(4 * time.Hour)
	createdB := time.Date(2026, 8, 2, 8, 0, 0, 0, time.UTC)
	resolvedB := createdB.Add(2 * time.Hour)

	tickets := []domain.Ticket{
		// Agent alpha: one resolved measured from assignment, one active.
		{
			Status:           domain.TicketStatusResolved,
			AssignedToID:     strPtr("alpha"),
			AssignedAt:       &assignedA,
			CreatedAt:        assignedA.Add(-3 * time.Hour),
			ResolvedAt:       &resolvedA,
			SLAResolutionMet: boolPtr(true),
		},
		{
			Status:       domain.TicketStatusInProgress,
			AssignedToID: strPtr("alpha"),
			CreatedAt:    createdB,
		},
		// Agent beta: resolved without an AssignedAt, falls back to creation.
		{
			Status:           domain.TicketStatusClosed,
			AssignedToID:     strPtr("beta"),
			CreatedAt:        createdB,
			ResolvedAt:       &resolvedB,
			SLAResolutionMet: boolPtr(false),
		},
		// Unassigned tickets are excluded.
		{Status: domain.TicketStatusOpen, CreatedAt: createdB},
	}
	names := map[string]string{"alpha": "Agent Alpha", "beta": "Agent Beta"}

	report := reduceAgentPerformance(tickets, names)
	if len(report) != 2 {
		t.Fatalf("agents = %d, want 2", len(report))
	}
	// Tied on resolved count (1 each): sorted by agent id ascending.
	if report[0].AgentID != "alpha" || report[1].AgentID != "beta" {
		t.Errorf("order = [%s %s], want [alpha beta]", report[0].AgentID, report[1].AgentID)
	}

	alpha := report[0]
	if alpha.AgentName != "Agent Alpha" {
		t.Errorf("alpha name = %q", alpha.AgentName)
	}
	if alpha.AssignedCount != 2 || alpha.ResolvedCount != 1 || alpha.ActiveCount != 1 {
		t.Errorf("alpha counts = %+v", alpha)
	}
	if alpha.AvgResolutionHours != 4.0 {
		t.Errorf("alpha avgResolutionHours = %.2f, want 4 measured from assignment", alpha.AvgResolutionHours)
	}
	if alpha.SLAMetPercentage != 100.0 {
		t.Errorf("alpha slaMetPercentage = %.2f", alpha.SLAMetPercentage)
	}

	beta := report[1]
	if beta.AvgResolutionHours != 2.0 {
		t.Errorf("beta avgResolutionHours = %.2f, want 2 measured from creation", beta.AvgResolutionHours)
	}
	if beta.SLAMetPercentage != 0.0 {
		t.Errorf("beta slaMetPercentage = %.2f", beta.SLAMetPercentage)
	}
}

func TestReduceAgentPerformanceSortsByResolvedDesc(t *testing.T) {
	resolved := time.Now()
	mkResolved := func(agent string) domain.Ticket {
		return domain.Ticket{
			Status:       domain.TicketStatusResolved,
			AssignedToID: strPtr(agent),
			CreatedAt:    resolved.Add(-time.Hour),
			ResolvedAt:   &resolved,
		}
	}
	tickets := []domain.Ticket{mkResolved("zed"), mkResolved("zed"), mkResolved("ann")}

	report := reduceAgentPerformance(tickets, map[string]string{})
	if report[0].AgentID != "zed" || report[0].ResolvedCount != 2 {
		t.Errorf("first = %+v, want zed with 2 resolved", report[0])
	}
}

func TestReduceSLADailyBucketsUTCDays(t *testing.T) {
	// 23:30 UTC on the 1st and 00:30 UTC on the 2nd land in distinct buckets
	// even though they are an hour apart.
	lateFirst := time.Date(2026, 8, 1, 23, 30, 0, 0, time.UTC)
	earlySecond := time.Date(2026, 8, 2, 0, 30, 0, 0, time.UTC)
	tickets := []domain.Ticket{
		{
			Status:           domain.TicketStatusResolved,
			Priority:         domain.TicketPriorityHigh,
			Category:         "Hardware",
			ResolvedAt:       &lateFirst,
			SLAResolutionMet: boolPtr(true),
		},
		{
			Status:           domain.TicketStatusResolved,
			Priority:         domain.TicketPriorityLow,
			Category:         "Software",
			ResolvedAt:       &earlySecond,
			SLAResolutionMet: boolPtr(false),
		},
		// An unstamped SLA outcome counts as breached.
		{
			Status:     domain.TicketStatusResolved,
			Priority:   domain.TicketPriorityLow,
			Category:   "Software",
			ResolvedAt: &earlySecond,
		},
		// Unresolved tickets are ignored entirely.
		{Status: domain.TicketStatusOpen, Category: "Software"},
	}

	report := reduceSLADaily(tickets)
	if len(report.Days) != 2 {
		t.Fatalf("days = %d, want 2", len(report.Days))
	}
	if report.Days[0].Day != "2026-08-01" || report.Days[1].Day != "2026-08-02" {
		t.Errorf("day order = [%s %s]", report.Days[0].Day, report.Days[1].Day)
	}
	first := report.Days[0]
	if first.Met != 1 || first.Breached != 0 || first.Percentage != 100.0 {
		t.Errorf("first day = %+v", first)
	}
	second := report.Days[1]
	if second.Met != 0 || second.Breached != 2 || second.Total != 2 || second.Percentage != 0.0 {
		t.Errorf("second day = %+v", second)
	}
	if report.CategoryBreakdown["Software"] != 2 {
		t.Errorf("categoryBreakdown = %v, open ticket must not count", report.CategoryBreakdown)
	}
}

func TestGetTicketStatsAuthorization(t *testing.T) {
	svc := NewReportService(ReportDependencies{
		TicketRepo: newFakeTicketRepo(),
		UserRepo:   newFakeUserRepo(),
		Logger:     zap.NewNop(),
	})

	_, err := svc.GetTicketStats(context.Background(), principalFor("user-1", domain.RoleUser), ReportFilter{})
	if code := errCode(t, err); code != "not-authorized" {
		t.Errorf("code = %q, want not-authorized", code)
	}
	if _, err := svc.GetTicketStats(context.Background(), principalFor("agent-1", domain.RoleSupport), ReportFilter{}); err != nil {
		t.Errorf("support access failed: %v", err)
	}
}

func TestGetFilteredTicketsPagination(t *testing.T) {
	tickets := newFakeTicketRepo()
	for i := 0; i < 3; i++ {
		tickets.add(&domain.Ticket{Status: domain.TicketStatusOpen, Category: "Hardware", CreatedAt: time.Now()})
	}
	svc := NewReportService(ReportDependencies{
		TicketRepo: tickets,
		UserRepo:   newFakeUserRepo(),
		Logger:     zap.NewNop(),
	})

	page, err := svc.GetFilteredTickets(context.Background(), principalFor("agent-1", domain.RoleSupport), ReportFilter{Category: strPtr("Hardware")}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 3 {
		t.Errorf("tickets = %d, want 3", len(page))
	}

	_, err = svc.GetFilteredTickets(context.Background(), principalFor("user-1", domain.RoleUser), ReportFilter{}, 1)
	if code := errCode(t, err); code != "not-authorized" {
		t.Errorf("code = %q, want not-authorized", code)
	}
}
