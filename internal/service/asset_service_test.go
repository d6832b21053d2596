package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
)

func newAssetFixture(t *testing.T) (*AssetService, *fakeAssetRepo, *fakeAuditRepo, *recordingDispatcher) {
	t.Helper()
	assets := newFakeAssetRepo()
	users := newFakeUserRepo(
		&domain.User{ID: "user-1", Name: "User One", Role: domain.RoleUser, Status: domain.UserStatusActive},
	)
	audit, auditRepo := newTestAudit()
	dispatcher := &recordingDispatcher{}
	svc := NewAssetService(AssetDependencies{
		AssetRepo:  assets,
		UserRepo:   users,
		Audit:      audit,
		Dispatcher: dispatcher,
	})
	return svc, assets, auditRepo, dispatcher
}

func TestCreateAsset(t *testing.T) {
	svc, _, auditRepo, _ := newAssetFixture(t)
	asset, err := svc.CreateAsset(context.Background(), principalFor("agent-1", domain.RoleSupport), AssetInput{
		AssetTag: " LPT-0042 ",
		Name:     "ThinkPad T14",
		Type:     "laptop",
	})
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	if asset.AssetTag != "LPT-0042" {
		t.Errorf("tag not trimmed: %q", asset.AssetTag)
	}
	if asset.Status != domain.AssetStatusAvailable {
		t.Errorf("status = %s, want AVAILABLE default", asset.Status)
	}
	if len(auditRepo.entries) != 1 || auditRepo.entries[0].Action != "assets.create" {
		t.Errorf("audit entries = %+v", auditRepo.entries)
	}
}

func TestCreateAssetDuplicateTag(t *testing.T) {
	svc, _, _, _ := newAssetFixture(t)
	agent := principalFor("agent-1", domain.RoleSupport)
	if _, err := svc.CreateAsset(context.Background(), agent, AssetInput{AssetTag: "LPT-0042", Name: "first"}); err != nil {
		t.Fatal(err)
	}
	_, err := svc.CreateAsset(context.Background(), agent, AssetInput{AssetTag: "LPT-0042", Name: "second"})
	if code := errCode(t, err); code != "duplicate-tag" {
		t.Errorf("code = %q, want duplicate-tag", code)
	}
}

func TestCreateAssetUniqueConstraintBackstop(t *testing.T) {
	svc, assets, _, _ := newAssetFixture(t)
	// A concurrent insert slips past the pre-check; the UNIQUE constraint
	// fires instead.
	assets.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "assets_asset_tag_key"}

	_, err := svc.CreateAsset(context.Background(), principalFor("agent-1", domain.RoleSupport), AssetInput{AssetTag: "LPT-0042", Name: "laptop"})
	if code := errCode(t, err); code != "duplicate-tag" {
		t.Errorf("code = %q, want duplicate-tag", code)
	}
}

func TestCreateAssetValidation(t *testing.T) {
	svc, _, _, _ := newAssetFixture(t)
	agent := principalFor("agent-1", domain.RoleSupport)
	for _, input := range []AssetInput{
		{AssetTag: "", Name: "x"},
		{AssetTag: "TAG", Name: "   "},
	} {
		_, err := svc.CreateAsset(context.Background(), agent, input)
		if code := errCode(t, err); code != "validation-failed" {
			t.Errorf("input %+v: code = %q, want validation-failed", input, code)
		}
	}
}

func TestCreateAssetDeniedForUsers(t *testing.T) {
	svc, _, _, _ := newAssetFixture(t)
	_, err := svc.CreateAsset(context.Background(), principalFor("user-1", domain.RoleUser), AssetInput{AssetTag: "T", Name: "n"})
	if code := errCode(t, err); code != "not-authorized" {
		t.Errorf("code = %q, want not-authorized", code)
	}
}

func TestAssignAndUnassignAsset(t *testing.T) {
	svc, assets, _, dispatcher := newAssetFixture(t)
	agent := principalFor("agent-1", domain.RoleSupport)
	seed := &domain.Asset{AssetTag: "MON-7", Name: "Dell U2720Q", Status: domain.AssetStatusAvailable}
	if err := assets.Create(context.Background(), seed); err != nil {
		t.Fatal(err)
	}

	assigned, err := svc.AssignAsset(context.Background(), agent, seed.ID, "user-1")
	if err != nil {
		t.Fatalf("AssignAsset: %v", err)
	}
	if assigned.AssignedToID == nil || *assigned.AssignedToID != "user-1" {
		t.Errorf("assignee = %v", assigned.AssignedToID)
	}
	if assigned.AssignedToName == nil || *assigned.AssignedToName != "User One" {
		t.Errorf("assignee name not denormalized: %v", assigned.AssignedToName)
	}
	if assigned.Status != domain.AssetStatusAssigned {
		t.Errorf("status = %s, want ASSIGNED", assigned.Status)
	}
	if len(dispatcher.events) != 1 || dispatcher.events[0].Type != events.EventAssetAssigned {
		t.Errorf("events = %v", dispatcher.typesSeen())
	}

	released, err := svc.UnassignAsset(context.Background(), agent, seed.ID)
	if err != nil {
		t.Fatalf("UnassignAsset: %v", err)
	}
	if released.AssignedToID != nil || released.AssignedToName != nil {
		t.Errorf("assignment not cleared: %+v", released)
	}
	if released.Status != domain.AssetStatusAvailable {
		t.Errorf("status = %s, want AVAILABLE", released.Status)
	}
}

func TestUnassignPreservesNonAssignedStatus(t *testing.T) {
	svc, assets, _, _ := newAssetFixture(t)
	seed := &domain.Asset{AssetTag: "PRN-1", Name: "Printer", Status: domain.AssetStatusInRepair, AssignedToID: strPtr("user-1")}
	if err := assets.Create(context.Background(), seed); err != nil {
		t.Fatal(err)
	}
	released, err := svc.UnassignAsset(context.Background(), principalFor("agent-1", domain.RoleSupport), seed.ID)
	if err != nil {
		t.Fatal(err)
	}
	if released.Status != domain.AssetStatusInRepair {
		t.Errorf("status = %s, IN_REPAIR must survive unassignment", released.Status)
	}
}

func TestAssignAssetUnknownUser(t *testing.T) {
	svc, assets, _, _ := newAssetFixture(t)
	seed := &domain.Asset{AssetTag: "KB-1", Name: "Keyboard", Status: domain.AssetStatusAvailable}
	if err := assets.Create(context.Background(), seed); err != nil {
		t.Fatal(err)
	}
	_, err := svc.AssignAsset(context.Background(), principalFor("agent-1", domain.RoleSupport), seed.ID, "ghost")
	if code := errCode(t, err); code != "not-found" {
		t.Errorf("code = %q, want not-found", code)
	}
}

func TestDeleteAssetAdminOnly(t *testing.T) {
	svc, assets, _, _ := newAssetFixture(t)
	seed := &domain.Asset{AssetTag: "OLD-1", Name: "Retired box", Status: domain.AssetStatusRetired}
	if err := assets.Create(context.Background(), seed); err != nil {
		t.Fatal(err)
	}

	err := svc.DeleteAsset(context.Background(), principalFor("agent-1", domain.RoleSupport), seed.ID)
	if code := errCode(t, err); code != "not-authorized" {
		t.Errorf("support delete: code = %q, want not-authorized", code)
	}
	if err := svc.DeleteAsset(context.Background(), principalFor("admin-1", domain.RoleAdmin), seed.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if _, err := assets.GetByID(context.Background(), seed.ID); err == nil {
		t.Error("asset still present after delete")
	}
}
