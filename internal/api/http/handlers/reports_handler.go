package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// ReportsHandler exposes aggregate reporting endpoints.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// TicketStats GET /reports/ticket-stats.
func (h *ReportsHandler) TicketStats(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	stats, err := h.reports.GetTicketStats(c.UserContext(), principal, parseReportFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// AgentPerformance GET /reports/agent-performance.
func (h *ReportsHandler) AgentPerformance(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	report, err := h.reports.GetAgentPerformance(c.UserContext(), principal, parseReportFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

// SLADaily GET /reports/sla-daily.
func (h *ReportsHandler) SLADaily(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	report, err := h.reports.GetSLADailyReport(c.UserContext(), principal, parseReportFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

// FilteredTickets GET /reports/tickets.
func (h *ReportsHandler) FilteredTickets(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	page := c.QueryInt("page", 1)
	tickets, err := h.reports.GetFilteredTickets(c.UserContext(), principal, parseReportFilter(c), page)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponses(tickets), "page": page})
}

func parseReportFilter(c *fiber.Ctx) service.ReportFilter {
	filter := service.ReportFilter{
		Category:   queryString(c, "category"),
		AssigneeID: queryString(c, "assignee_id"),
	}
	if from := queryTime(c, "from"); from != nil {
		filter.From = *from
	}
	if to := queryTime(c, "to"); to != nil {
		filter.To = *to
	} else if !filter.From.IsZero() {
		filter.To = time.Now().UTC()
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := domain.TicketStatus(strings.ToUpper(raw))
		filter.Status = &status
	}
	if raw := strings.TrimSpace(c.Query("priority")); raw != "" {
		priority := domain.TicketPriority(strings.ToUpper(raw))
		filter.Priority = &priority
	}
	return filter
}
