package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/octobees/accounts/api/internal/credentials"
	"github.com/octobees/accounts/api/internal/dto"
	"github.com/octobees/accounts/api/internal/entity"
	"github.com/octobees/accounts/api/internal/repository"
)

// ErrRoleNotAllowed is returned when a caller asks for a role self-registration cannot grant.
var ErrRoleNotAllowed = errors.New("role not allowed for self-registration")

// RegistrationService turns registration requests into stored users.
type RegistrationService struct {
	users            repository.UsersRepository
	hasher           credentials.Hasher
	allowAdminSignup bool
}

// RegistrationOption configures optional behaviour.
type RegistrationOption func(*RegistrationService)

// WithAdminSignup lets self-registration request the ADMIN role.
func WithAdminSignup(allowed bool) RegistrationOption {
	return func(s *RegistrationService) {
		s.allowAdminSignup = allowed
	}
}

// NewRegistrationService builds a RegistrationService.
func NewRegistrationService(users repository.UsersRepository, hasher credentials.Hasher, opts ...RegistrationOption) *RegistrationService {
	s := &RegistrationService{users: users, hasher: hasher}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register validates the request, stores the user and returns its public summary.
func (s *RegistrationService) Register(ctx context.Context, req dto.RegistrationRequest) (dto.UserSummary, error) {
	username, err := normalizeUsername(req.Username)
	if err != nil {
		return dto.UserSummary{}, err
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return dto.UserSummary{}, err
	}
	if err := validatePassword(req.Password); err != nil {
		return dto.UserSummary{}, err
	}

	role, err := s.resolveRole(req.Role)
	if err != nil {
		return dto.UserSummary{}, err
	}

	if _, found, err := s.users.FindByUsername(ctx, username); err != nil {
		return dto.UserSummary{}, err
	} else if found {
		return dto.UserSummary{}, repository.ErrUsernameTaken
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, credentials.ErrPasswordTooLong) {
			return dto.UserSummary{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return dto.UserSummary{}, err
	}

	user, err := s.users.Create(ctx, repository.NewUser{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return dto.UserSummary{}, err
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return dto.NewUserSummary(user), nil
}

func (s *RegistrationService) resolveRole(requested entity.Role) (entity.Role, error) {
	if requested == "" {
		return entity.RoleUser, nil
	}
	role, err := entity.ParseRole(string(requested))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	switch role {
	case entity.RoleAdmin:
		if !s.allowAdminSignup {
			return "", ErrRoleNotAllowed
		}
	case entity.RoleUser:
	}
	return role, nil
}
