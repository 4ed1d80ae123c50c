package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/oksasatya/accounts-api/db/migrations"
	"github.com/oksasatya/accounts-api/internal/domain/repository"
	"github.com/oksasatya/accounts-api/internal/domain/repository/repositorytest"
	"github.com/oksasatya/accounts-api/internal/infrastructure/sqlite"
)

func newTestRepo(t *testing.T) repository.UserRepository {
	t.Helper()
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := migrations.Up(db, "sqlite", nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return sqlite.NewUserRepository(db)
}

func TestUserRepository(t *testing.T) {
	repositorytest.Run(t, newTestRepo)
}

func TestUserRepository_Ping(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestMigrations_Idempotent(t *testing.T) {
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "twice.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	if err := migrations.Up(db, "sqlite", nil); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if err := migrations.Up(db, "sqlite", nil); err != nil {
		t.Fatalf("second migrate should be a no-op, got %v", err)
	}
}
