package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/justai-labs/justai-engine/pkg/apperrors"
)

func newUserServiceForTest() (UserService, *fakeUserRepo) {
	userRepo := newFakeUserRepo()
	return NewUserService(userRepo, zap.NewNop()), userRepo
}

func TestUserCreateAndGet(t *testing.T) {
	svc, _ := newUserServiceForTest()
	ctx := context.Background()

	if err := svc.Create(ctx, "alice"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	user, err := svc.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if user.UserName != "alice" {
		t.Errorf("user name = %q, want %q", user.UserName, "alice")
	}

	err = svc.Create(ctx, "alice")
	if !errors.Is(err, apperrors.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestUserDelete(t *testing.T) {
	svc, userRepo := newUserServiceForTest()
	ctx := context.Background()

	if err := svc.Create(ctx, "alice"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := svc.Delete(ctx, "alice"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := userRepo.users["alice"]; ok {
		t.Error("user still present after delete")
	}

	err := svc.Delete(ctx, "alice")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUserEdit(t *testing.T) {
	svc, userRepo := newUserServiceForTest()
	ctx := context.Background()

	if err := svc.Create(ctx, "alice"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := svc.Edit(ctx, "alice", "alicia"); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if _, ok := userRepo.users["alice"]; ok {
		t.Error("old user name still present after rename")
	}
	if _, ok := userRepo.users["alicia"]; !ok {
		t.Error("renamed user not found")
	}
}

func TestUserEditCollision(t *testing.T) {
	svc, _ := newUserServiceForTest()
	ctx := context.Background()

	if err := svc.Create(ctx, "alice"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := svc.Create(ctx, "bob"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err := svc.Edit(ctx, "alice", "bob")
	if !errors.Is(err, apperrors.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	err = svc.Edit(ctx, "ghost", "casper")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
