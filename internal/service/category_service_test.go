package service

import (
	"context"
	"testing"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func newCategoryFixture(t *testing.T, seed ...*domain.CategoryConfig) (*CategoryService, *fakeCategoryRepo) {
	t.Helper()
	repo := newFakeCategoryRepo(seed...)
	audit, _ := newTestAudit()
	return NewCategoryService(CategoryDependencies{CategoryRepo: repo, Audit: audit}), repo
}

func TestCreateCategory(t *testing.T) {
	svc, _ := newCategoryFixture(t)
	admin := principalFor("admin-1", domain.RoleAdmin)

	category, err := svc.CreateCategory(context.Background(), admin, CategoryInput{
		Name:            " Network ",
		Description:     "connectivity issues",
		DefaultPriority: domain.TicketPriorityHigh,
	})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if category.Name != "Network" {
		t.Errorf("name not trimmed: %q", category.Name)
	}
	if !category.IsActive {
		t.Error("new categories default to active")
	}

	_, err = svc.CreateCategory(context.Background(), admin, CategoryInput{Name: "Network", DefaultPriority: domain.TicketPriorityLow})
	if code := errCode(t, err); code != "conflict" {
		t.Errorf("duplicate name: code = %q, want conflict", code)
	}

	_, err = svc.CreateCategory(context.Background(), admin, CategoryInput{Name: "Misc", DefaultPriority: "URGENT"})
	if code := errCode(t, err); code != "validation-failed" {
		t.Errorf("bad priority: code = %q, want validation-failed", code)
	}
}

func TestCategoryWritesAdminOnly(t *testing.T) {
	svc, _ := newCategoryFixture(t, &domain.CategoryConfig{ID: "cat-1", Name: "Hardware", DefaultPriority: domain.TicketPriorityHigh, IsActive: true})
	support := principalFor("agent-1", domain.RoleSupport)

	_, err := svc.CreateCategory(context.Background(), support, CategoryInput{Name: "x", DefaultPriority: domain.TicketPriorityLow})
	if code := errCode(t, err); code != "not-authorized" {
		t.Errorf("create: code = %q", code)
	}
	_, err = svc.UpdateCategory(context.Background(), support, "cat-1", CategoryInput{Description: "y"})
	if code := errCode(t, err); code != "not-authorized" {
		t.Errorf("update: code = %q", code)
	}
	if err := svc.DeleteCategory(context.Background(), support, "cat-1"); errCode(t, err) != "not-authorized" {
		t.Error("delete must be admin only")
	}
}

func TestListCategoriesForcesActiveForUsers(t *testing.T) {
	svc, _ := newCategoryFixture(t,
		&domain.CategoryConfig{Name: "Hardware", DefaultPriority: domain.TicketPriorityHigh, IsActive: true},
		&domain.CategoryConfig{Name: "Legacy", DefaultPriority: domain.TicketPriorityLow, IsActive: false},
	)

	// A user asking for everything still only sees active categories.
	forUser, err := svc.ListCategories(context.Background(), principalFor("user-1", domain.RoleUser), false)
	if err != nil {
		t.Fatal(err)
	}
	if len(forUser) != 1 || forUser[0].Name != "Hardware" {
		t.Errorf("user listing = %+v", forUser)
	}

	forAdmin, err := svc.ListCategories(context.Background(), principalFor("admin-1", domain.RoleAdmin), false)
	if err != nil {
		t.Fatal(err)
	}
	if len(forAdmin) != 2 {
		t.Errorf("admin listing = %d categories, want 2", len(forAdmin))
	}
}
