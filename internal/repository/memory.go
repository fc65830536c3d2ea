package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/octobees/accounts/api/internal/entity"
)

// MemoryUsersRepository keeps users in process, indexed by id, username and email.
type MemoryUsersRepository struct {
	mu         sync.RWMutex
	nextID     int64
	byID       map[int64]entity.User
	byUsername map[string]int64
	byEmail    map[string]int64
	now        func() time.Time
}

// NewMemoryUsersRepository builds an empty in-memory store.
func NewMemoryUsersRepository() *MemoryUsersRepository {
	return &MemoryUsersRepository{
		byID:       make(map[int64]entity.User),
		byUsername: make(map[string]int64),
		byEmail:    make(map[string]int64),
		now:        time.Now,
	}
}

// FindByUsername looks the username up in the index.
func (r *MemoryUsersRepository) FindByUsername(ctx context.Context, username string) (entity.User, bool, error) {
	if err := ctx.Err(); err != nil {
		return entity.User{}, false, err
	}
	if username == "" {
		return entity.User{}, false, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return entity.User{}, false, nil
	}
	return r.byID[id], true, nil
}

// Create stores a user, enforcing unique usernames and emails.
func (r *MemoryUsersRepository) Create(ctx context.Context, nu NewUser) (entity.User, error) {
	if err := ctx.Err(); err != nil {
		return entity.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byUsername[nu.Username]; taken {
		return entity.User{}, ErrUsernameTaken
	}
	if _, taken := r.byEmail[nu.Email]; taken {
		return entity.User{}, ErrEmailTaken
	}

	r.nextID++
	now := r.now().UTC()
	user := entity.User{
		ID:           r.nextID,
		Username:     nu.Username,
		Email:        nu.Email,
		PasswordHash: nu.PasswordHash,
		Role:         nu.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.byID[user.ID] = user
	r.byUsername[user.Username] = user.ID
	r.byEmail[user.Email] = user.ID

	return user, nil
}

// List returns users newest first, mirroring the SQL ordering.
func (r *MemoryUsersRepository) List(ctx context.Context, limit, offset int) ([]entity.User, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	r.mu.RLock()
	all := make([]entity.User, 0, len(r.byID))
	for _, u := range r.byID {
		all = append(all, u)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	total := int64(len(all))
	offset = max(offset, 0)
	if limit <= 0 || offset >= len(all) {
		return []entity.User{}, total, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], total, nil
}

// Ping always succeeds.
func (r *MemoryUsersRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}
