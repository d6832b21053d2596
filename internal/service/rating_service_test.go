package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

func errCode(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected DomainError, got %T: %v", err, err)
	}
	return de.Code
}

func newRatingFixture(t *testing.T) (*RatingService, *fakeTicketRepo, *fakeRatingRepo, *fakeAuditRepo, *recordingDispatcher) {
	t.Helper()
	tickets := newFakeTicketRepo()
	ratings := newFakeRatingRepo()
	audit, auditRepo := newTestAudit()
	dispatcher := &recordingDispatcher{}
	svc := NewRatingService(RatingDependencies{
		RatingRepo: ratings,
		TicketRepo: tickets,
		Audit:      audit,
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
	})
	return svc, tickets, ratings, auditRepo, dispatcher
}

func resolvedTicket(reporterID string) *domain.Ticket {
	created := time.Now().Add(-4 * time.Hour)
	resolved := time.Now().Add(-1 * time.Hour)
	return &domain.Ticket{
		Status:     domain.TicketStatusResolved,
		Priority:   domain.TicketPriorityMedium,
		Category:   "Hardware",
		ReporterID: reporterID,
		CreatedAt:  created,
		ResolvedAt: &resolved,
	}
}

func TestSubmitRatingHappyPath(t *testing.T) {
	svc, tickets, _, auditRepo, dispatcher := newRatingFixture(t)
	ticket := tickets.add(resolvedTicket("reporter-1"))

	rating, err := svc.SubmitRating(context.Background(), principalFor("reporter-1", domain.RoleUser), ticket.ID, 4, "  quick fix  ")
	if err != nil {
		t.Fatalf("SubmitRating: %v", err)
	}
	if rating.Rating != 4 {
		t.Errorf("rating value = %d, want 4", rating.Rating)
	}
	if rating.Comment != "quick fix" {
		t.Errorf("comment not trimmed: %q", rating.Comment)
	}
	if rating.ResolutionHours == nil || *rating.ResolutionHours < 2.9 || *rating.ResolutionHours > 3.1 {
		t.Errorf("resolution hours = %v, want ~3", rating.ResolutionHours)
	}

	stored, _ := tickets.GetByID(context.Background(), ticket.ID)
	if !stored.HasRating || stored.RatingValue == nil || *stored.RatingValue != 4 {
		t.Errorf("denormalized flags not set: hasRating=%v value=%v", stored.HasRating, stored.RatingValue)
	}
	if len(auditRepo.entries) != 1 || auditRepo.entries[0].Action != "ratings.submit" {
		t.Errorf("expected one ratings.submit audit entry, got %+v", auditRepo.entries)
	}
	if len(dispatcher.events) != 1 || dispatcher.events[0].Type != events.EventRatingSubmitted {
		t.Errorf("expected rating_submitted event, got %v", dispatcher.typesSeen())
	}
}

func TestSubmitRatingOnlyReporter(t *testing.T) {
	svc, tickets, _, auditRepo, _ := newRatingFixture(t)
	ticket := tickets.add(resolvedTicket("reporter-1"))

	// Role does not matter: even an admin who is not the reporter is refused.
	for _, role := range []domain.Role{domain.RoleUser, domain.RoleSupport, domain.RoleAdmin} {
		_, err := svc.SubmitRating(context.Background(), principalFor("someone-else", role), ticket.ID, 5, "")
		if code := errCode(t, err); code != "not-authorized" {
			t.Errorf("role %s: code = %q, want not-authorized", role, code)
		}
	}
	if len(auditRepo.entries) != 0 {
		t.Errorf("denied submissions must not write audit entries, got %d", len(auditRepo.entries))
	}
}

func TestSubmitRatingValueBounds(t *testing.T) {
	svc, tickets, _, _, _ := newRatingFixture(t)
	ticket := tickets.add(resolvedTicket("reporter-1"))

	for _, value := range []int{0, -1, 6, 100} {
		_, err := svc.SubmitRating(context.Background(), principalFor("reporter-1", domain.RoleUser), ticket.ID, value, "")
		if code := errCode(t, err); code != "invalid-rating" {
			t.Errorf("value %d: code = %q, want invalid-rating", value, code)
		}
	}
}

func TestSubmitRatingStatusGate(t *testing.T) {
	svc, tickets, _, _, _ := newRatingFixture(t)
	for _, status := range []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusInProgress} {
		ticket := tickets.add(&domain.Ticket{Status: status, ReporterID: "reporter-1", CreatedAt: time.Now()})
		_, err := svc.SubmitRating(context.Background(), principalFor("reporter-1", domain.RoleUser), ticket.ID, 3, "")
		if code := errCode(t, err); code != "invalid-status" {
			t.Errorf("status %s: code = %q, want invalid-status", status, code)
		}
	}

	closedAt := time.Now()
	closed := tickets.add(&domain.Ticket{Status: domain.TicketStatusClosed, ReporterID: "reporter-1", CreatedAt: time.Now().Add(-time.Hour), ClosedAt: &closedAt})
	if _, err := svc.SubmitRating(context.Background(), principalFor("reporter-1", domain.RoleUser), closed.ID, 3, ""); err != nil {
		t.Errorf("closed tickets should accept ratings: %v", err)
	}
}

func TestSubmitRatingOnce(t *testing.T) {
	svc, tickets, _, _, _ := newRatingFixture(t)
	ticket := tickets.add(resolvedTicket("reporter-1"))

	if _, err := svc.SubmitRating(context.Background(), principalFor("reporter-1", domain.RoleUser), ticket.ID, 5, ""); err != nil {
		t.Fatalf("first rating: %v", err)
	}
	_, err := svc.SubmitRating(context.Background(), principalFor("reporter-1", domain.RoleUser), ticket.ID, 2, "")
	if code := errCode(t, err); code != "already-rated" {
		t.Errorf("code = %q, want already-rated", code)
	}
}

func TestSubmitRatingUniqueConstraintBackstop(t *testing.T) {
	svc, tickets, ratings, _, _ := newRatingFixture(t)
	ticket := tickets.add(resolvedTicket("reporter-1"))
	// Two submissions race: the exists pre-check passes for both, the
	// one-rating-per-ticket constraint rejects the loser.
	ratings.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "ratings_ticket_id_key"}

	_, err := svc.SubmitRating(context.Background(), principalFor("reporter-1", domain.RoleUser), ticket.ID, 4, "")
	if code := errCode(t, err); code != "already-rated" {
		t.Errorf("code = %q, want already-rated", code)
	}
}

func TestSubmitRatingUnknownTicket(t *testing.T) {
	svc, _, _, _, _ := newRatingFixture(t)
	_, err := svc.SubmitRating(context.Background(), principalFor("reporter-1", domain.RoleUser), "missing", 3, "")
	if code := errCode(t, err); code != "not-found" {
		t.Errorf("code = %q, want not-found", code)
	}
}

func TestSubmitRatingSurvivesFlagFailure(t *testing.T) {
	svc, tickets, ratings, _, _ := newRatingFixture(t)
	ticket := tickets.add(resolvedTicket("reporter-1"))
	tickets.setFlagsErr = errors.New("connection reset")

	rating, err := svc.SubmitRating(context.Background(), principalFor("reporter-1", domain.RoleUser), ticket.ID, 4, "")
	if err != nil {
		t.Fatalf("rating insert succeeded, flag failure must not surface: %v", err)
	}
	if exists, _ := ratings.ExistsForTicket(context.Background(), ticket.ID); !exists {
		t.Error("rating row missing")
	}
	if rating.ID == "" {
		t.Error("rating not persisted")
	}
	stored, _ := tickets.GetByID(context.Background(), ticket.ID)
	if stored.HasRating {
		t.Error("flags should be stale after failed denormalization")
	}
}
