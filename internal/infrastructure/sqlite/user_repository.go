package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/accounts-api/internal/domain/entity"
	"github.com/oksasatya/accounts-api/internal/domain/repository"
)

const userColumns = `id, name, email, password_hash, created_at, updated_at`

// UserRepository implements repository.UserRepository on SQLite.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert user", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.scanUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.scanUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]entity.PublicUser, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email FROM users ORDER BY rowid LIMIT ? OFFSET ?`, limit, offset)
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
	return r.scanPublic(ctx, "update user",
		`UPDATE users
		 SET name = COALESCE(?, name), email = COALESCE(?, email), updated_at = ?
		 WHERE id = ?
		 RETURNING id, name, email`,
		nullString(patch.Name), nullString(patch.Email), time.Now().UTC(), id)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) (*entity.PublicUser, error) {
	return r.scanPublic(ctx, "update password",
		`UPDATE users SET password_hash = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING id, name, email`,
		passwordHash, time.Now().UTC(), id)
}

func (r *UserRepository) Delete(ctx context.Context, id string) (*entity.PublicUser, error) {
	return r.scanPublic(ctx, "delete user",
		`DELETE FROM users WHERE id = ? RETURNING id, name, email`, id)
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *UserRepository) scanUser(ctx context.Context, query string, arg any) (*entity.User, error) {
	u := &entity.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) scanPublic(ctx context.Context, op, query string, args ...any) (*entity.PublicUser, error) {
	u := &entity.PublicUser{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.Name, &u.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, mapWriteError(op, err)
	}
	return u, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func mapWriteError(op string, err error) error {
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return repository.ErrDuplicateEmail
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ repository.UserRepository = (*UserRepository)(nil)
