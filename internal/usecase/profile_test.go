package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/pcbuilder/storefront/internal/domain/model"
	testhelpers "github.com/pcbuilder/storefront/internal/test"
)

func TestProfileUseCaseUpdateTrimsAndUpserts(t *testing.T) {
	repo := testhelpers.NewProfileRepositoryStub()
	uc := NewProfileUseCase(repo)
	userID := uuid.New()

	profile, err := uc.Update(context.Background(), userID, model.ProfileUpdate{
		DisplayName: "  Linh Tran ",
		Username:    "linh ",
		Phone:       " 0901234567",
	})
	if err != nil {
		t.Fatalf("update returned error: %v", err)
	}
	if profile.DisplayName != "Linh Tran" || profile.Username != "linh" || profile.Phone != "0901234567" {
		t.Fatalf("fields were not trimmed: %+v", profile)
	}
	if profile.Role != model.RoleUser {
		t.Fatalf("expected default role, got %q", profile.Role)
	}

	fetched, err := uc.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("get returned error: %v", err)
	}
	if fetched.DisplayName != "Linh Tran" {
		t.Fatalf("unexpected stored profile %+v", fetched)
	}
}

func TestProfileUseCaseIsAdmin(t *testing.T) {
	repo := testhelpers.NewProfileRepositoryStub()
	uc := NewProfileUseCase(repo)
	admin, member := uuid.New(), uuid.New()
	repo.Profiles[admin] = &model.Profile{ID: admin, Role: model.RoleAdmin}
	repo.Profiles[member] = &model.Profile{ID: member, Role: model.RoleUser}

	for id, want := range map[uuid.UUID]bool{admin: true, member: false, uuid.New(): false} {
		got, err := uc.IsAdmin(context.Background(), id)
		if err != nil {
			t.Fatalf("is admin returned error: %v", err)
		}
		if got != want {
			t.Fatalf("expected %v for %s, got %v", want, id, got)
		}
	}

	repo.Err = errors.New("db down")
	if _, err := uc.IsAdmin(context.Background(), admin); err == nil {
		t.Fatal("expected repository error")
	}
}

func TestProfileUseCaseList(t *testing.T) {
	repo := testhelpers.NewProfileRepositoryStub()
	uc := NewProfileUseCase(repo)

	list, err := uc.List(context.Background())
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty list, got %v", list)
	}

	repo.Profiles[uuid.New()] = &model.Profile{Role: model.RoleUser}
	list, err = uc.List(context.Background())
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one profile, got %v (%v)", list, err)
	}
}
