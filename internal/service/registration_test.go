package service

import (
	"context"
	"errors"
	"testing"

	"github.com/octobees/accounts/api/internal/dto"
	"github.com/octobees/accounts/api/internal/entity"
	"github.com/octobees/accounts/api/internal/repository"
)

func storingRepo(captured *repository.NewUser) *mockUsersRepository {
	return &mockUsersRepository{
		create: func(ctx context.Context, user repository.NewUser) (entity.User, error) {
			*captured = user
			return entity.User{
				ID:           1,
				Username:     user.Username,
				Email:        user.Email,
				PasswordHash: user.PasswordHash,
				Role:         user.Role,
			}, nil
		},
	}
}

func TestRegistrationService_Register(t *testing.T) {
	var captured repository.NewUser
	svc := NewRegistrationService(storingRepo(&captured), stubHasher{})

	summary, err := svc.Register(context.Background(), dto.RegistrationRequest{
		Username: "  alice ",
		Password: "correct-horse",
		Email:    " Alice@Example.COM ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := dto.UserSummary{Username: "alice", Email: "alice@example.com", Role: entity.RoleUser}
	if summary != want {
		t.Fatalf("expected %+v, got %+v", want, summary)
	}
	if captured.PasswordHash != "hashed:correct-horse" {
		t.Fatalf("expected hashed password to be stored, got %q", captured.PasswordHash)
	}
	if captured.Role != entity.RoleUser {
		t.Fatalf("expected default role USER, got %s", captured.Role)
	}
}

func TestRegistrationService_Register_Validation(t *testing.T) {
	valid := dto.RegistrationRequest{Username: "alice", Password: "correct-horse", Email: "alice@example.com"}

	tests := map[string]func(r *dto.RegistrationRequest){
		"blank username":        func(r *dto.RegistrationRequest) { r.Username = "   " },
		"short username":        func(r *dto.RegistrationRequest) { r.Username = "al" },
		"username with space":   func(r *dto.RegistrationRequest) { r.Username = "al ice" },
		"missing email":         func(r *dto.RegistrationRequest) { r.Email = "" },
		"email without at":      func(r *dto.RegistrationRequest) { r.Email = "alice.example.com" },
		"email without tld":     func(r *dto.RegistrationRequest) { r.Email = "alice@localhost" },
		"short password":        func(r *dto.RegistrationRequest) { r.Password = "short" },
		"whitespace password":   func(r *dto.RegistrationRequest) { r.Password = "          " },
		"unknown role":          func(r *dto.RegistrationRequest) { r.Role = "ROOT" },
		"password over 72 byte": func(r *dto.RegistrationRequest) { r.Password = string(make([]byte, 73)) + "x" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			repo := &mockUsersRepository{
				findByUsername: func(ctx context.Context, username string) (entity.User, bool, error) {
					t.Fatalf("invalid input must not reach the directory")
					return entity.User{}, false, nil
				},
			}
			svc := NewRegistrationService(repo, stubHasher{})

			req := valid
			mutate(&req)
			if _, err := svc.Register(context.Background(), req); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestRegistrationService_Register_AdminRole(t *testing.T) {
	req := dto.RegistrationRequest{Username: "root", Password: "correct-horse", Email: "root@example.com", Role: "admin"}

	var captured repository.NewUser
	svc := NewRegistrationService(storingRepo(&captured), stubHasher{})
	if _, err := svc.Register(context.Background(), req); !errors.Is(err, ErrRoleNotAllowed) {
		t.Fatalf("expected ErrRoleNotAllowed, got %v", err)
	}

	svc = NewRegistrationService(storingRepo(&captured), stubHasher{}, WithAdminSignup(true))
	summary, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Role != entity.RoleAdmin || captured.Role != entity.RoleAdmin {
		t.Fatalf("expected ADMIN role, got %s", summary.Role)
	}
}

func TestRegistrationService_Register_Conflicts(t *testing.T) {
	req := dto.RegistrationRequest{Username: "alice", Password: "correct-horse", Email: "alice@example.com"}

	t.Run("existing username", func(t *testing.T) {
		repo := &mockUsersRepository{
			findByUsername: func(ctx context.Context, username string) (entity.User, bool, error) {
				return entity.User{ID: 1, Username: username}, true, nil
			},
		}
		svc := NewRegistrationService(repo, stubHasher{})
		if _, err := svc.Register(context.Background(), req); !errors.Is(err, repository.ErrUsernameTaken) {
			t.Fatalf("expected ErrUsernameTaken, got %v", err)
		}
	})

	t.Run("email taken on insert", func(t *testing.T) {
		repo := &mockUsersRepository{
			create: func(ctx context.Context, user repository.NewUser) (entity.User, error) {
				return entity.User{}, repository.ErrEmailTaken
			},
		}
		svc := NewRegistrationService(repo, stubHasher{})
		if _, err := svc.Register(context.Background(), req); !errors.Is(err, repository.ErrEmailTaken) {
			t.Fatalf("expected ErrEmailTaken, got %v", err)
		}
	})

	t.Run("directory failure", func(t *testing.T) {
		boom := errors.New("db down")
		repo := &mockUsersRepository{
			findByUsername: func(ctx context.Context, username string) (entity.User, bool, error) {
				return entity.User{}, false, boom
			},
		}
		svc := NewRegistrationService(repo, stubHasher{})
		if _, err := svc.Register(context.Background(), req); !errors.Is(err, boom) {
			t.Fatalf("expected storage error, got %v", err)
		}
	})

	t.Run("hasher failure", func(t *testing.T) {
		boom := errors.New("entropy exhausted")
		svc := NewRegistrationService(&mockUsersRepository{}, stubHasher{err: boom})
		if _, err := svc.Register(context.Background(), req); !errors.Is(err, boom) {
			t.Fatalf("expected hasher error, got %v", err)
		}
	})
}
