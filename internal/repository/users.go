package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/octobees/accounts/api/internal/entity"
)

var (
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already exists")
)

const uniqueViolation = "23505"

// UserDirectory resolves stored users by their unique username.
type UserDirectory interface {
	// FindByUsername reports found=false with a nil error when no user matches.
	FindByUsername(ctx context.Context, username string) (entity.User, bool, error)
}

// NewUser holds the columns supplied when inserting a user.
type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
	Role         entity.Role
}

// UsersRepository declares the persistence operations for users.
type UsersRepository interface {
	UserDirectory
	Create(ctx context.Context, user NewUser) (entity.User, error)
	List(ctx context.Context, limit, offset int) ([]entity.User, int64, error)
	Ping(ctx context.Context) error
}

// Querier is the subset of *pgxpool.Pool used by PGXUsersRepository.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
}

// PGXUsersRepository implements UsersRepository with pgx.
type PGXUsersRepository struct {
	pool Querier
}

// NewPGXUsersRepository instantiates a users repository.
func NewPGXUsersRepository(pool Querier) *PGXUsersRepository {
	return &PGXUsersRepository{pool: pool}
}

const userColumns = `id, username, email, password_hash, role, created_at, updated_at`

// FindByUsername fetches a user by exact username match.
func (r *PGXUsersRepository) FindByUsername(ctx context.Context, username string) (entity.User, bool, error) {
	if username == "" {
		return entity.User{}, false, nil
	}

	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.User{}, false, nil
		}
		return entity.User{}, false, fmt.Errorf("query user by username: %w", err)
	}

	return user, true, nil
}

// Create inserts a new user row.
func (r *PGXUsersRepository) Create(ctx context.Context, nu NewUser) (entity.User, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO users (username, email, password_hash, role)
        VALUES ($1, $2, $3, $4)
        RETURNING `+userColumns, nu.Username, nu.Email, nu.PasswordHash, string(nu.Role))

	user, err := scanUser(row)
	if err != nil {
		if dup := duplicateError(err); dup != nil {
			return entity.User{}, dup
		}
		return entity.User{}, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

// List returns a page of users, newest first, together with the total count.
func (r *PGXUsersRepository) List(ctx context.Context, limit, offset int) ([]entity.User, int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]entity.User, 0, max(limit, 0))
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	return users, total, nil
}

// Ping checks database connectivity.
func (r *PGXUsersRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanUser(row pgx.Row) (entity.User, error) {
	var (
		user entity.User
		role string
	)
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &role, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return entity.User{}, err
	}
	user.Role = entity.Role(role)
	return user, nil
}

func duplicateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "username"):
		return fmt.Errorf("%w: %v", ErrUsernameTaken, pgErr)
	case strings.Contains(pgErr.ConstraintName, "email"):
		return fmt.Errorf("%w: %v", ErrEmailTaken, pgErr)
	default:
		return nil
	}
}
