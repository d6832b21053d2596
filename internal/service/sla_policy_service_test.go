package service

import (
	"context"
	"testing"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func newPolicyFixture(t *testing.T, seed ...*domain.SLAPolicy) (*SLAPolicyService, *fakePolicyRepo) {
	t.Helper()
	repo := newFakePolicyRepo(seed...)
	audit, _ := newTestAudit()
	return NewSLAPolicyService(SLAPolicyDependencies{PolicyRepo: repo, Audit: audit}), repo
}

func TestListPoliciesOrderedBySeverity(t *testing.T) {
	svc, _ := newPolicyFixture(t,
		&domain.SLAPolicy{Priority: domain.TicketPriorityLow, ResponseMinutes: 480, ResolutionMinutes: 4320},
		&domain.SLAPolicy{Priority: domain.TicketPriorityCritical, ResponseMinutes: 15, ResolutionMinutes: 240},
		&domain.SLAPolicy{Priority: domain.TicketPriorityMedium, ResponseMinutes: 240, ResolutionMinutes: 1440},
	)

	policies, err := svc.ListPolicies(context.Background(), principalFor("agent-1", domain.RoleSupport))
	if err != nil {
		t.Fatal(err)
	}
	want := []domain.TicketPriority{domain.TicketPriorityCritical, domain.TicketPriorityMedium, domain.TicketPriorityLow}
	if len(policies) != len(want) {
		t.Fatalf("policies = %d, want %d", len(policies), len(want))
	}
	for i, priority := range want {
		if policies[i].Priority != priority {
			t.Errorf("position %d = %s, want %s", i, policies[i].Priority, priority)
		}
	}

	_, err = svc.ListPolicies(context.Background(), principalFor("user-1", domain.RoleUser))
	if code := errCode(t, err); code != "not-authorized" {
		t.Errorf("code = %q, want not-authorized", code)
	}
}

func TestUpsertPolicy(t *testing.T) {
	svc, repo := newPolicyFixture(t)
	admin := principalFor("admin-1", domain.RoleAdmin)

	policy, err := svc.UpsertPolicy(context.Background(), admin, domain.TicketPriorityHigh, SLAPolicyInput{
		ResponseMinutes:   30,
		ResolutionMinutes: 360,
	})
	if err != nil {
		t.Fatalf("UpsertPolicy: %v", err)
	}
	if policy.ResolutionMinutes != 360 {
		t.Errorf("resolution minutes = %d", policy.ResolutionMinutes)
	}
	if stored, _ := repo.GetByPriority(context.Background(), domain.TicketPriorityHigh); stored.ResponseMinutes != 30 {
		t.Errorf("stored policy = %+v", stored)
	}

	_, err = svc.UpsertPolicy(context.Background(), admin, "URGENT", SLAPolicyInput{ResponseMinutes: 1, ResolutionMinutes: 1})
	if code := errCode(t, err); code != "validation-failed" {
		t.Errorf("unknown priority: code = %q", code)
	}
	_, err = svc.UpsertPolicy(context.Background(), admin, domain.TicketPriorityLow, SLAPolicyInput{ResponseMinutes: 0, ResolutionMinutes: 60})
	if code := errCode(t, err); code != "validation-failed" {
		t.Errorf("zero minutes: code = %q", code)
	}
	_, err = svc.UpsertPolicy(context.Background(), principalFor("agent-1", domain.RoleSupport), domain.TicketPriorityLow, SLAPolicyInput{ResponseMinutes: 1, ResolutionMinutes: 1})
	if code := errCode(t, err); code != "not-authorized" {
		t.Errorf("support upsert: code = %q", code)
	}
}
