package service

import (
	"context"
	"errors"

	"github.com/octobees/accounts/api/internal/entity"
	"github.com/octobees/accounts/api/internal/repository"
)

type mockUsersRepository struct {
	findByUsername func(ctx context.Context, username string) (entity.User, bool, error)
	create         func(ctx context.Context, user repository.NewUser) (entity.User, error)
	list           func(ctx context.Context, limit, offset int) ([]entity.User, int64, error)
	ping           func(ctx context.Context) error
}

func (m *mockUsersRepository) FindByUsername(ctx context.Context, username string) (entity.User, bool, error) {
	if m.findByUsername != nil {
		return m.findByUsername(ctx, username)
	}
	return entity.User{}, false, nil
}

func (m *mockUsersRepository) Create(ctx context.Context, user repository.NewUser) (entity.User, error) {
	if m.create != nil {
		return m.create(ctx, user)
	}
	return entity.User{}, errors.New("create not implemented")
}

func (m *mockUsersRepository) List(ctx context.Context, limit, offset int) ([]entity.User, int64, error) {
	if m.list != nil {
		return m.list(ctx, limit, offset)
	}
	return nil, 0, errors.New("list not implemented")
}

func (m *mockUsersRepository) Ping(ctx context.Context) error {
	if m.ping != nil {
		return m.ping(ctx)
	}
	return nil
}

type stubHasher struct {
	err error
}

func (s stubHasher) Hash(password string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "hashed:" + password, nil
}
