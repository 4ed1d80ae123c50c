package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/accounts-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no user matches the lookup key.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when the storage unique constraint on email rejects a write.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines the interface for user-related database operations.
// Implementations enforce email uniqueness with a storage constraint.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// List returns users in insertion order without password hashes.
	List(ctx context.Context, offset, limit int) ([]entity.PublicUser, error)
	// Update merges the non-nil patch fields into the stored row.
	Update(ctx context.Context, id string, patch entity.ProfilePatch) (*entity.PublicUser, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) (*entity.PublicUser, error)
	// Delete removes the row and returns its last state.
	Delete(ctx context.Context, id string) (*entity.PublicUser, error)
	Ping(ctx context.Context) error
}
