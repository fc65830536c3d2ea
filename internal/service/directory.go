package service

import (
	"context"
	"strings"

	"github.com/octobees/accounts/api/internal/dto"
	"github.com/octobees/accounts/api/internal/repository"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// DirectoryService answers read-only questions about registered users.
type DirectoryService struct {
	users repository.UsersRepository
}

// NewDirectoryService builds a DirectoryService.
func NewDirectoryService(users repository.UsersRepository) *DirectoryService {
	return &DirectoryService{users: users}
}

// Lookup returns the summary of the user with exactly this username, if any.
func (s *DirectoryService) Lookup(ctx context.Context, username string) (dto.UserSummary, bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return dto.UserSummary{}, false, invalid("username is required")
	}

	user, found, err := s.users.FindByUsername(ctx, username)
	if err != nil || !found {
		return dto.UserSummary{}, false, err
	}
	return dto.NewUserSummary(user), true, nil
}

// List returns one page of user summaries. Out-of-range paging values fall back to defaults.
func (s *DirectoryService) List(ctx context.Context, page, pageSize int) (dto.UserPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}

	users, total, err := s.users.List(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return dto.UserPage{}, err
	}

	summaries := make([]dto.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, dto.NewUserSummary(u))
	}
	return dto.UserPage{Users: summaries, Total: total, Page: page, PageSize: pageSize}, nil
}

// Ping reports whether the backing store is reachable.
func (s *DirectoryService) Ping(ctx context.Context) error {
	return s.users.Ping(ctx)
}
