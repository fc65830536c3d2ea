package service

import (
	"context"
	"errors"
	"testing"

	"github.com/octobees/accounts/api/internal/dto"
	"github.com/octobees/accounts/api/internal/entity"
)

func TestDirectoryService_Lookup(t *testing.T) {
	repo := &mockUsersRepository{
		findByUsername: func(ctx context.Context, username string) (entity.User, bool, error) {
			if username == "alice" {
				return entity.User{ID: 1, Username: "alice", Email: "alice@example.com", PasswordHash: "hash", Role: entity.RoleAdmin}, true, nil
			}
			return entity.User{}, false, nil
		},
	}
	svc := NewDirectoryService(repo)

	summary, found, err := svc.Lookup(context.Background(), " alice ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := dto.UserSummary{Username: "alice", Email: "alice@example.com", Role: entity.RoleAdmin}
	if !found || summary != want {
		t.Fatalf("expected %+v, got found=%v %+v", want, found, summary)
	}

	summary, found, err = svc.Lookup(context.Background(), "bob")
	if err != nil || found || summary != (dto.UserSummary{}) {
		t.Fatalf("expected absent result, got found=%v summary=%+v err=%v", found, summary, err)
	}

	if _, _, err := svc.Lookup(context.Background(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank username, got %v", err)
	}
}

func TestDirectoryService_Lookup_StorageError(t *testing.T) {
	boom := errors.New("db down")
	svc := NewDirectoryService(&mockUsersRepository{
		findByUsername: func(ctx context.Context, username string) (entity.User, bool, error) {
			return entity.User{}, false, boom
		},
	})

	if _, found, err := svc.Lookup(context.Background(), "alice"); !errors.Is(err, boom) || found {
		t.Fatalf("expected storage error, got found=%v err=%v", found, err)
	}
}

func TestDirectoryService_List(t *testing.T) {
	var gotLimit, gotOffset int
	repo := &mockUsersRepository{
		list: func(ctx context.Context, limit, offset int) ([]entity.User, int64, error) {
			gotLimit, gotOffset = limit, offset
			return []entity.User{
				{ID: 2, Username: "bob", Email: "bob@example.com", Role: entity.RoleUser},
				{ID: 1, Username: "alice", Email: "alice@example.com", Role: entity.RoleAdmin},
			}, 42, nil
		},
	}
	svc := NewDirectoryService(repo)

	page, err := svc.List(context.Background(), 3, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 10 || gotOffset != 20 {
		t.Fatalf("expected limit 10 offset 20, got %d/%d", gotLimit, gotOffset)
	}
	if page.Total != 42 || page.Page != 3 || page.PageSize != 10 || len(page.Users) != 2 || page.Users[0].Username != "bob" {
		t.Fatalf("unexpected page: %+v", page)
	}

	page, err = svc.List(context.Background(), 0, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Page != 1 || page.PageSize != DefaultPageSize || gotOffset != 0 {
		t.Fatalf("expected defaults, got page=%d size=%d offset=%d", page.Page, page.PageSize, gotOffset)
	}

	repo.list = func(ctx context.Context, limit, offset int) ([]entity.User, int64, error) {
		return nil, 0, errors.New("boom")
	}
	if _, err := svc.List(context.Background(), 1, 10); err == nil {
		t.Fatalf("expected list error")
	}
}
