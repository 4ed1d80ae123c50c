package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/accounts-api/internal/domain/entity"
	"github.com/oksasatya/accounts-api/internal/domain/repository"
)

// uniqueViolation is the SQLSTATE raised by the users_email_key constraint.
const uniqueViolation = "23505"

const userColumns = `id::text, name, email, password_hash, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return mapWriteError("insert user", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.scanUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.scanUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]entity.PublicUser, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, name, email
		FROM users
		ORDER BY created_at, id
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]entity.PublicUser, 0, limit)
	for rows.Next() {
		var u entity.PublicUser
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, patch entity.ProfilePatch) (*entity.PublicUser, error) {
	return r.scanPublic(ctx, "update user", `
		UPDATE users
		SET name = COALESCE($2, name), email = COALESCE($3, email), updated_at = $4
		WHERE id = $1
		RETURNING id::text, name, email
	`, id, patch.Name, patch.Email, time.Now().UTC())
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) (*entity.PublicUser, error) {
	return r.scanPublic(ctx, "update password", `
		UPDATE users
		SET password_hash = $2, updated_at = $3
		WHERE id = $1
		RETURNING id::text, name, email
	`, id, passwordHash, time.Now().UTC())
}

func (r *UserRepository) Delete(ctx context.Context, id string) (*entity.PublicUser, error) {
	return r.scanPublic(ctx, "delete user", `
		DELETE FROM users
		WHERE id = $1
		RETURNING id::text, name, email
	`, id)
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *UserRepository) scanUser(ctx context.Context, query string, arg any) (*entity.User, error) {
	u := &entity.User{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) scanPublic(ctx context.Context, op, query string, args ...any) (*entity.PublicUser, error) {
	u := &entity.PublicUser{}
	err := r.pool.QueryRow(ctx, query, args...).Scan(&u.ID, &u.Name, &u.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, mapWriteError(op, err)
	}
	return u, nil
}

func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrDuplicateEmail
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ repository.UserRepository = (*UserRepository)(nil)
