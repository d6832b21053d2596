package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// ReportService aggregates ticket data into management reports. Repositories
// return the matching set; the reducers below are pure in-memory aggregation.
type ReportService struct {
	tickets  repository.TicketRepository
	users    repository.UserRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// ReportDependencies bundles requirements for report service.
type ReportDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Cache      *redis.Client
	CacheTTL   time.Duration
	Logger     *zap.Logger
}

// ReportFilter narrows the ticket set a report covers.
type ReportFilter struct {
	From       time.Time
	To         time.Time
	Status     *domain.TicketStatus
	Category   *string
	Priority   *domain.TicketPriority
	AssigneeID *string
}

// TicketStats is the aggregate summary for a date range.
type TicketStats struct {
	TotalTickets         int                           `json:"totalTickets"`
	ResolvedCount        int                           `json:"resolvedCount"`
	ResolvedPercentage   float64                       `json:"resolvedPercentage"`
	SLAMetCount          int                           `json:"slaMetCount"`
	SLAMetPercentage     float64                       `json:"slaMetPercentage"`
	AvgResolutionHours   float64                       `json:"avgResolutionHours"`
	StatusBreakdown      map[domain.TicketStatus]int   `json:"statusBreakdown"`
	CategoryBreakdown    map[string]int                `json:"categoryBreakdown"`
	PriorityBreakdown    map[domain.TicketPriority]int `json:"priorityBreakdown"`
}

// AgentPerformance summarizes one agent's workload in a date range.
type AgentPerformance struct {
	AgentID            string  `json:"agentId"`
	AgentName          string  `json:"agentName"`
	AssignedCount      int     `json:"assignedCount"`
	ResolvedCount      int     `json:"resolvedCount"`
	ActiveCount        int     `json:"activeCount"`
	AvgResolutionHours float64 `json:"avgResolutionHours"`
	SLAMetPercentage   float64 `json:"slaMetPercentage"`
}

// SLADailyBucket is one UTC calendar day of resolved tickets.
type SLADailyBucket struct {
	Day        string  `json:"day"`
	Met        int     `json:"met"`
	Breached   int     `json:"breached"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// SLADailyReport is the full daily compliance report.
type SLADailyReport struct {
	Days              []SLADailyBucket              `json:"days"`
	PriorityBreakdown map[domain.TicketPriority]int `json:"priorityBreakdown"`
	CategoryBreakdown map[string]int                `json:"categoryBreakdown"`
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	return &ReportService{
		tickets:  deps.TicketRepo,
		users:    deps.UserRepo,
		cache:    deps.Cache,
		cacheTTL: deps.CacheTTL,
		logger:   deps.Logger,
	}
}

// GetTicketStats returns aggregate ticket metrics. Support or admin.
func (s *ReportService) GetTicketStats(ctx context.Context, identity *auth.Principal, filter ReportFilter) (*TicketStats, error) {
	if err := auth.Authorize(identity, domain.SupportRoles...); err != nil {
		return nil, err
	}
	key := s.cacheKey("ticket-stats", filter)
	var cached TicketStats
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}
	tickets, err := s.fetch(ctx, filter)
	if err != nil {
		return nil, err
	}
	stats := reduceTicketStats(tickets)
	s.cacheSet(ctx, key, stats)
	return stats, nil
}

// GetAgentPerformance returns per-agent workload metrics sorted by resolved
// count descending. Support or admin.
func (s *ReportService) GetAgentPerformance(ctx context.Context, identity *auth.Principal, filter ReportFilter) ([]AgentPerformance, error) {
	if err := auth.Authorize(identity, domain.SupportRoles...); err != nil {
		return nil, err
	}
	key := s.cacheKey("agent-performance", filter)
	var cached []AgentPerformance
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}
	tickets, err := s.fetch(ctx, filter)
	if err != nil {
		return nil, err
	}
	names, err := s.agentNames(ctx, tickets)
	if err != nil {
		return nil, err
	}
	report := reduceAgentPerformance(tickets, names)
	s.cacheSet(ctx, key, report)
	return report, nil
}

// GetSLADailyReport buckets resolved tickets by UTC calendar day of
// resolution. Support or admin.
func (s *ReportService) GetSLADailyReport(ctx context.Context, identity *auth.Principal, filter ReportFilter) (*SLADailyReport, error) {
	if err := auth.Authorize(identity, domain.SupportRoles...); err != nil {
		return nil, err
	}
	key := s.cacheKey("sla-daily", filter)
	var cached SLADailyReport
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}
	tickets, err := s.fetch(ctx, filter)
	if err != nil {
		return nil, err
	}
	report := reduceSLADaily(tickets)
	s.cacheSet(ctx, key, report)
	return report, nil
}

// GetFilteredTickets returns the raw ticket listing behind the reports,
// paginated with a fixed page size. Support or admin.
func (s *ReportService) GetFilteredTickets(ctx context.Context, identity *auth.Principal, filter ReportFilter, page int) ([]domain.Ticket, error) {
	if err := auth.Authorize(identity, domain.SupportRoles...); err != nil {
		return nil, err
	}
	const pageSize = 50
	if page < 1 {
		page = 1
	}
	repoFilter := toRepoFilter(filter)
	repoFilter.Limit = pageSize
	repoFilter.Offset = (page - 1) * pageSize
	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

func (s *ReportService) fetch(ctx context.Context, filter ReportFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, toRepoFilter(filter))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

func toRepoFilter(filter ReportFilter) repository.TicketFilter {
	repoFilter := repository.TicketFilter{
		Category:     filter.Category,
		AssignedToID: filter.AssigneeID,
	}
	if !filter.From.IsZero() {
		from := filter.From
		repoFilter.CreatedFrom = &from
	}
	if !filter.To.IsZero() {
		to := filter.To
		repoFilter.CreatedTo = &to
	}
	if filter.Status != nil {
		repoFilter.Statuses = []domain.TicketStatus{*filter.Status}
	}
	if filter.Priority != nil {
		repoFilter.Priorities = []domain.TicketPriority{*filter.Priority}
	}
	return repoFilter
}

func (s *ReportService) agentNames(ctx context.Context, tickets []domain.Ticket) (map[string]string, error) {
	names := make(map[string]string)
	for i := range tickets {
		id := tickets[i].AssignedToID
		if id == nil || *id == "" {
			continue
		}
		if _, ok := names[*id]; ok {
			continue
		}
		user, err := s.users.GetByID(ctx, *id)
		if err != nil {
			// Deleted agents still appear under their id.
			names[*id] = *id
			continue
		}
		names[*id] = user.Name
	}
	return names, nil
}

// reduceTicketStats aggregates a ticket set. Every division guards an empty
// denominator, returning 0 instead of NaN.
func reduceTicketStats(tickets []domain.Ticket) *TicketStats {
	stats := &TicketStats{
		StatusBreakdown:   make(map[domain.TicketStatus]int),
		CategoryBreakdown: make(map[string]int),
		PriorityBreakdown: make(map[domain.TicketPriority]int),
	}
	var slaTracked int
	var resolutionSamples int
	var resolutionTotal float64
	for i := range tickets {
		t := &tickets[i]
		stats.TotalTickets++
		stats.StatusBreakdown[t.Status]++
		stats.CategoryBreakdown[t.Category]++
		stats.PriorityBreakdown[t.Priority]++
		if t.IsResolvedOrClosed() {
			stats.ResolvedCount++
		}
		if t.SLAResolutionMet != nil {
			slaTracked++
			if *t.SLAResolutionMet {
				stats.SLAMetCount++
			}
		}
		if hours, ok := t.ResolutionHours(); ok {
			resolutionSamples++
			resolutionTotal += hours
		}
	}
	if stats.TotalTickets > 0 {
		stats.ResolvedPercentage = float64(stats.ResolvedCount) / float64(stats.TotalTickets) * 100
	}
	if slaTracked > 0 {
		stats.SLAMetPercentage = float64(stats.SLAMetCount) / float64(slaTracked) * 100
	}
	if resolutionSamples > 0 {
		stats.AvgResolutionHours = resolutionTotal / float64(resolutionSamples)
	}
	return stats
}

// reduceAgentPerformance groups tickets by assignee. Resolution time is
// measured from assignment when recorded, otherwise from creation.
func reduceAgentPerformance(tickets []domain.Ticket, names map[string]string) []AgentPerformance {
	type accumulator struct {
		perf            AgentPerformance
		slaTracked      int
		slaMet          int
		resolutionCount int
		resolutionTotal float64
	}
	byAgent := make(map[string]*accumulator)
	for i := range tickets {
		t := &tickets[i]
		if t.AssignedToID == nil || *t.AssignedToID == "" {
			continue
		}
		id := *t.AssignedToID
		acc, ok := byAgent[id]
		if !ok {
			acc = &accumulator{perf: AgentPerformance{AgentID: id, AgentName: names[id]}}
			byAgent[id] = acc
		}
		acc.perf.AssignedCount++
		switch {
		case t.IsResolvedOrClosed():
			acc.perf.ResolvedCount++
		default:
			acc.perf.ActiveCount++
		}
		if t.ResolvedAt != nil {
			start := t.CreatedAt
			if t.AssignedAt != nil {
				start = *t.AssignedAt
			}
			acc.resolutionCount++
			acc.resolutionTotal += t.ResolvedAt.Sub(start).Hours()
		}
		if t.SLAResolutionMet != nil {
			acc.slaTracked++
			if *t.SLAResolutionMet {
				acc.slaMet++
			}
		}
	}

	report := make([]AgentPerformance, 0, len(byAgent))
	for _, acc := range byAgent {
		if acc.resolutionCount > 0 {
			acc.perf.AvgResolutionHours = acc.resolutionTotal / float64(acc.resolutionCount)
		}
		if acc.slaTracked > 0 {
			acc.perf.SLAMetPercentage = float64(acc.slaMet) / float64(acc.slaTracked) * 100
		}
		report = append(report, acc.perf)
	}
	sort.Slice(report, func(i, j int) bool {
		if report[i].ResolvedCount != report[j].ResolvedCount {
			return report[i].ResolvedCount > report[j].ResolvedCount
		}
		return report[i].AgentID < report[j].AgentID
	})
	return report
}

// reduceSLADaily buckets resolved tickets by the UTC calendar day of
// resolvedAt, days ascending.
func reduceSLADaily(tickets []domain.Ticket) *SLADailyReport {
	report := &SLADailyReport{
		PriorityBreakdown: make(map[domain.TicketPriority]int),
		CategoryBreakdown: make(map[string]int),
	}
	byDay := make(map[string]*SLADailyBucket)
	for i := range tickets {
		t := &tickets[i]
		if t.ResolvedAt == nil {
			continue
		}
		day := t.ResolvedAt.UTC().Format("2006-01-02")
		bucket, ok := byDay[day]
		if !ok {
			bucket = &SLADailyBucket{Day: day}
			byDay[day] = bucket
		}
		bucket.Total++
		if t.SLAResolutionMet != nil && *t.SLAResolutionMet {
			bucket.Met++
		} else {
			bucket.Breached++
		}
		report.PriorityBreakdown[t.Priority]++
		report.CategoryBreakdown[t.Category]++
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		bucket := byDay[day]
		if bucket.Total > 0 {
			bucket.Percentage = float64(bucket.Met) / float64(bucket.Total) * 100
		}
		report.Days = append(report.Days, *bucket)
	}
	return report
}

func (s *ReportService) cacheKey(report string, filter ReportFilter) string {
	parts := []string{
		report,
		filter.From.UTC().Format(time.RFC3339),
		filter.To.UTC().Format(time.RFC3339),
	}
	if filter.Status != nil {
		parts = append(parts, "status="+string(*filter.Status))
	}
	if filter.Category != nil {
		parts = append(parts, "category="+*filter.Category)
	}
	if filter.Priority != nil {
		parts = append(parts, "priority="+string(*filter.Priority))
	}
	if filter.AssigneeID != nil {
		parts = append(parts, "assignee="+*filter.AssigneeID)
	}
	return fmt.Sprintf("helpdesk:reports:%s", strings.Join(parts, ":"))
}

func (s *ReportService) cacheGet(ctx context.Context, key string, out any) bool {
	if s.cache == nil || s.cacheTTL <= 0 {
		return false
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Warn("discarding unreadable cached report", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *ReportService) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("failed to cache report", zap.String("key", key), zap.Error(err))
	}
}
