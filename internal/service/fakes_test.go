package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// In-memory repository fakes backing the service tests.

type fakeTicketRepo struct {
	tickets      map[string]*domain.Ticket
	seq          int
	setFlagsErr  error
	flagsSet     map[string]int
	updatedCount int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.Ticket{}, flagsSet: map[string]int{}}
}

func (r *fakeTicketRepo) add(t *domain.Ticket) *domain.Ticket {
	if t.ID == "" {
		r.seq++
		t.ID = fmt.Sprintf("ticket-%d", r.seq)
	}
	if t.TicketNumber == "" {
		t.TicketNumber = fmt.Sprintf("TKT-%04d", r.seq)
	}
	r.tickets[t.ID] = t
	return t
}

func (r *fakeTicketRepo) Create(_ context.Context, t *domain.Ticket) error {
	r.add(t)
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, t *domain.Ticket) error {
	if _, ok := r.tickets[t.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *t
	r.tickets[t.ID] = &copied
	r.updatedCount++
	return nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tickets, id)
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	t, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTicketRepo) GetByNumber(_ context.Context, number string) (*domain.Ticket, error) {
	for _, t := range r.tickets {
		if t.TicketNumber == number {
			copied := *t
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, t := range r.tickets {
		if filter.ReporterID != nil && t.ReporterID != *filter.ReporterID {
			continue
		}
		if filter.AssignedToID != nil && (t.AssignedToID == nil || *t.AssignedToID != *filter.AssignedToID) {
			continue
		}
		if filter.Category != nil && t.Category != *filter.Category {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, t.Status) {
			continue
		}
		if len(filter.Priorities) > 0 && !containsPriority(filter.Priorities, t.Priority) {
			continue
		}
		if filter.CreatedFrom != nil && t.CreatedAt.Before(*filter.CreatedFrom) {
			continue
		}
		if filter.CreatedTo != nil && t.CreatedAt.After(*filter.CreatedTo) {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTicketRepo) ListOpenForSLA(_ context.Context) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, t := range r.tickets {
		if t.Status == domain.TicketStatusOpen || t.Status == domain.TicketStatusInProgress {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTicketRepo) SetRatingFlags(_ context.Context, ticketID string, ratingValue int) error {
	if r.setFlagsErr != nil {
		return r.setFlagsErr
	}
	t, ok := r.tickets[ticketID]
	if !ok {
		return pgx.ErrNoRows
	}
	t.HasRating = true
	t.RatingValue = &ratingValue
	r.flagsSet[ticketID] = ratingValue
	return nil
}

func containsStatus(set []domain.TicketStatus, s domain.TicketStatus) bool {
	for _, candidate := range set {
		if candidate == s {
			return true
		}
	}
	return false
}

func containsPriority(set []domain.TicketPriority, p domain.TicketPriority) bool {
	for _, candidate := range set {
		if candidate == p {
			return true
		}
	}
	return false
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*domain.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context, _, _ int) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

type fakeRatingRepo struct {
	byTicket  map[string]*domain.Rating
	seq       int
	createErr error
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{byTicket: map[string]*domain.Rating{}}
}

func (r *fakeRatingRepo) Create(_ context.Context, rating *domain.Rating) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.seq++
	rating.ID = fmt.Sprintf("rating-%d", r.seq)
	rating.CreatedAt = time.Now()
	r.byTicket[rating.TicketID] = rating
	return nil
}

func (r *fakeRatingRepo) GetByTicket(_ context.Context, ticketID string) (*domain.Rating, error) {
	rating, ok := r.byTicket[ticketID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return rating, nil
}

func (r *fakeRatingRepo) ExistsForTicket(_ context.Context, ticketID string) (bool, error) {
	_, ok := r.byTicket[ticketID]
	return ok, nil
}

func (r *fakeRatingRepo) ListInRange(_ context.Context, from, to time.Time) ([]domain.Rating, error) {
	var out []domain.Rating
	for _, rating := range r.byTicket {
		if !rating.CreatedAt.Before(from) && !rating.CreatedAt.After(to) {
			out = append(out, *rating)
		}
	}
	return out, nil
}

type fakeEscalationRepo struct {
	escalations []*domain.Escalation
	seq         int
}

func (r *fakeEscalationRepo) Create(_ context.Context, e *domain.Escalation) error {
	r.seq++
	e.ID = fmt.Sprintf("esc-%d", r.seq)
	if e.EscalatedAt.IsZero() {
		e.EscalatedAt = time.Now()
	}
	copied := *e
	r.escalations = append(r.escalations, &copied)
	return nil
}

func (r *fakeEscalationRepo) GetByID(_ context.Context, id string) (*domain.Escalation, error) {
	for _, e := range r.escalations {
		if e.ID == id {
			copied := *e
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeEscalationRepo) ExistsForTicketLevel(_ context.Context, ticketID string, level domain.EscalationLevel) (bool, error) {
	for _, e := range r.escalations {
		if e.TicketID == ticketID && e.Level == level {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEscalationRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Escalation, error) {
	var out []domain.Escalation
	for _, e := range r.escalations {
		if e.TicketID == ticketID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEscalationRepo) ListUnacknowledged(_ context.Context, _, _ int) ([]domain.Escalation, error) {
	var out []domain.Escalation
	for _, e := range r.escalations {
		if !e.Acknowledged {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEscalationRepo) MarkAcknowledged(_ context.Context, id, userID string) error {
	for _, e := range r.escalations {
		if e.ID == id {
			if e.Acknowledged {
				return pgx.ErrNoRows
			}
			now := time.Now()
			e.Acknowledged = true
			e.AcknowledgedBy = &userID
			e.AcknowledgedAt = &now
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakePolicyRepo struct {
	policies map[domain.TicketPriority]*domain.SLAPolicy
}

func newFakePolicyRepo(policies ...*domain.SLAPolicy) *fakePolicyRepo {
	r := &fakePolicyRepo{policies: map[domain.TicketPriority]*domain.SLAPolicy{}}
	for _, p := range policies {
		r.policies[p.Priority] = p
	}
	return r
}

func (r *fakePolicyRepo) GetByPriority(_ context.Context, priority domain.TicketPriority) (*domain.SLAPolicy, error) {
	p, ok := r.policies[priority]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return p, nil
}

func (r *fakePolicyRepo) ListAll(_ context.Context) ([]domain.SLAPolicy, error) {
	var out []domain.SLAPolicy
	for _, p := range r.policies {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePolicyRepo) Upsert(_ context.Context, p *domain.SLAPolicy) error {
	r.policies[p.Priority] = p
	return nil
}

type fakeAuditRepo struct {
	entries []domain.AuditLog
}

func (r *fakeAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	entry.ID = fmt.Sprintf("audit-%d", len(r.entries)+1)
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, filter repository.AuditLogFilter) ([]domain.AuditLog, error) {
	var out []domain.AuditLog
	for _, e := range r.entries {
		if filter.UserID != nil && e.UserID != *filter.UserID {
			continue
		}
		if filter.EntityType != nil && e.EntityType != *filter.EntityType {
			continue
		}
		if filter.EntityID != nil && e.EntityID != *filter.EntityID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeAuditRepo) CountByEntity(_ context.Context, entityType, entityID string) (int64, error) {
	var count int64
	for _, e := range r.entries {
		if e.EntityType == entityType && e.EntityID == entityID {
			count++
		}
	}
	return count, nil
}

type fakeCategoryRepo struct {
	byName map[string]*domain.CategoryConfig
	seq    int
}

func newFakeCategoryRepo(categories ...*domain.CategoryConfig) *fakeCategoryRepo {
	r := &fakeCategoryRepo{byName: map[string]*domain.CategoryConfig{}}
	for _, c := range categories {
		r.seq++
		if c.ID == "" {
			c.ID = fmt.Sprintf("cat-%d", r.seq)
		}
		r.byName[c.Name] = c
	}
	return r
}

func (r *fakeCategoryRepo) Create(_ context.Context, c *domain.CategoryConfig) error {
	r.seq++
	c.ID = fmt.Sprintf("cat-%d", r.seq)
	r.byName[c.Name] = c
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, c *domain.CategoryConfig) error {
	for name, existing := range r.byName {
		if existing.ID == c.ID {
			delete(r.byName, name)
			r.byName[c.Name] = c
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id string) error {
	for name, c := range r.byName {
		if c.ID == id {
			delete(r.byName, name)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id string) (*domain.CategoryConfig, error) {
	for _, c := range r.byName {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCategoryRepo) GetByName(_ context.Context, name string) (*domain.CategoryConfig, error) {
	c, ok := r.byName[name]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return c, nil
}

func (r *fakeCategoryRepo) List(_ context.Context, activeOnly bool) ([]domain.CategoryConfig, error) {
	var out []domain.CategoryConfig
	for _, c := range r.byName {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

type fakeAssetRepo struct {
	assets    map[string]*domain.Asset
	seq       int
	createErr error
}

func newFakeAssetRepo(assets ...*domain.Asset) *fakeAssetRepo {
	r := &fakeAssetRepo{assets: map[string]*domain.Asset{}}
	for _, a := range assets {
		r.seq++
		if a.ID == "" {
			a.ID = fmt.Sprintf("asset-%d", r.seq)
		}
		r.assets[a.ID] = a
	}
	return r
}

func (r *fakeAssetRepo) Create(_ context.Context, a *domain.Asset) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.seq++
	a.ID = fmt.Sprintf("asset-%d", r.seq)
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.assets[a.ID] = a
	return nil
}

func (r *fakeAssetRepo) Update(_ context.Context, a *domain.Asset) error {
	if _, ok := r.assets[a.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *a
	r.assets[a.ID] = &copied
	return nil
}

func (r *fakeAssetRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.assets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.assets, id)
	return nil
}

func (r *fakeAssetRepo) GetByID(_ context.Context, id string) (*domain.Asset, error) {
	a, ok := r.assets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAssetRepo) GetByTag(_ context.Context, tag string) (*domain.Asset, error) {
	for _, a := range r.assets {
		if a.AssetTag == tag {
			copied := *a
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAssetRepo) List(_ context.Context, filter repository.AssetFilter) ([]domain.Asset, error) {
	var out []domain.Asset
	for _, a := range r.assets {
		if filter.Type != nil && a.Type != *filter.Type {
			continue
		}
		if filter.AssignedToID != nil && (a.AssignedToID == nil || *a.AssignedToID != *filter.AssignedToID) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}
func (d *recordingDispatcher) SubscribeAll(events.EventHandler)               {}

func (d *recordingDispatcher) typesSeen() []events.EventType {
	out := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Type)
	}
	return out
}

func newTestAudit() (*AuditService, *fakeAuditRepo) {
	repo := &fakeAuditRepo{}
	return NewAuditService(repo, zap.NewNop()), repo
}

func principalFor(id string, role domain.Role) *auth.Principal {
	return &auth.Principal{User: &domain.User{
		ID:     id,
		Name:   "Test " + id,
		Email:  id + "@example.com",
		Role:   role,
		Status: domain.UserStatusActive,
	}}
}
