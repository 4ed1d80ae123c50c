// Package repositorytest holds the behavior every repository.UserRepository must satisfy.
package repositorytest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/oksasatya/accounts-api/internal/domain/entity"
	"github.com/oksasatya/accounts-api/internal/domain/repository"
)

// Factory returns an empty repository for one subtest.
type Factory func(t *testing.T) repository.UserRepository

// Run executes the contract against repositories produced by newRepo.
func Run(t *testing.T, newRepo Factory) {
	t.Run("CreateAssignsID", func(t *testing.T) { testCreateAssignsID(t, newRepo(t)) })
	t.Run("CreateDuplicateEmail", func(t *testing.T) { testCreateDuplicateEmail(t, newRepo(t)) })
	t.Run("CreateConcurrentDuplicate", func(t *testing.T) { testCreateConcurrentDuplicate(t, newRepo(t)) })
	t.Run("GetNotFound", func(t *testing.T) { testGetNotFound(t, newRepo(t)) })
	t.Run("ListPagination", func(t *testing.T) { testListPagination(t, newRepo(t)) })
	t.Run("UpdateMerges", func(t *testing.T) { testUpdateMerges(t, newRepo(t)) })
	t.Run("UpdateDuplicateEmail", func(t *testing.T) { testUpdateDuplicateEmail(t, newRepo(t)) })
	t.Run("UpdateNotFound", func(t *testing.T) { testUpdateNotFound(t, newRepo(t)) })
	t.Run("UpdatePassword", func(t *testing.T) { testUpdatePassword(t, newRepo(t)) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, newRepo(t)) })
}

func mustCreate(t *testing.T, repo repository.UserRepository, name, email string) *entity.User {
	t.Helper()
	u := &entity.User{Name: name, Email: email, PasswordHash: "hash-" + name}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("Create %s: %v", email, err)
	}
	return u
}

func testCreateAssignsID(t *testing.T, repo repository.UserRepository) {
	u := mustCreate(t, repo, "Ana", "ana@x.com")
	if _, err := uuid.Parse(u.ID); err != nil {
		t.Fatalf("expected uuid id, got %q", u.ID)
	}
	if u.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}

	got, err := repo.GetByID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Ana" || got.Email != "ana@x.com" || got.PasswordHash != "hash-Ana" {
		t.Fatalf("unexpected user %+v", got)
	}

	byEmail, err := repo.GetByEmail(context.Background(), "ana@x.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != u.ID {
		t.Fatalf("expected id %s, got %s", u.ID, byEmail.ID)
	}
}

func testCreateDuplicateEmail(t *testing.T, repo repository.UserRepository) {
	mustCreate(t, repo, "One", "dup@x.com")
	err := repo.Create(context.Background(), &entity.User{Name: "Two", Email: "dup@x.com", PasswordHash: "h"})
	if !errors.Is(err, repository.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func testCreateConcurrentDuplicate(t *testing.T, repo repository.UserRepository) {
	const workers = 8
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		ok    int
		dupes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.Create(context.Background(), &entity.User{
				Name: fmt.Sprintf("Racer%d", i), Email: "race@x.com", PasswordHash: "h",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, repository.ErrDuplicateEmail):
				dupes++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()
	if ok != 1 || dupes != workers-1 {
		t.Fatalf("expected 1 success and %d duplicates, got %d and %d", workers-1, ok, dupes)
	}
}

func testGetNotFound(t *testing.T, repo repository.UserRepository) {
	if _, err := repo.GetByID(context.Background(), uuid.NewString()); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("GetByID: expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByEmail(context.Background(), "nobody@x.com"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("GetByEmail: expected ErrNotFound, got %v", err)
	}
}

func testListPagination(t *testing.T, repo repository.UserRepository) {
	for i := 1; i <= 25; i++ {
		mustCreate(t, repo, fmt.Sprintf("User%d", i), fmt.Sprintf("user%d@example.com", i))
	}
	ctx := context.Background()

	page2, err := repo.List(ctx, 10, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page2) != 10 {
		t.Fatalf("expected 10 users, got %d", len(page2))
	}
	if page2[0].Name != "User11" || page2[9].Name != "User20" {
		t.Fatalf("expected User11..User20, got %s..%s", page2[0].Name, page2[9].Name)
	}

	tail, err := repo.List(ctx, 20, 10)
	if err != nil {
		t.Fatalf("List tail: %v", err)
	}
	if len(tail) != 5 {
		t.Fatalf("expected 5 users on last page, got %d", len(tail))
	}

	empty, err := repo.List(ctx, 100, 10)
	if err != nil {
		t.Fatalf("List out of range: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}
}

func testUpdateMerges(t *testing.T, repo repository.UserRepository) {
	u := mustCreate(t, repo, "Ana", "ana@x.com")
	ctx := context.Background()

	name := "Ana Maria"
	got, err := repo.Update(ctx, u.ID, entity.ProfilePatch{Name: &name})
	if err != nil {
		t.Fatalf("Update name: %v", err)
	}
	if got.Name != "Ana Maria" || got.Email != "ana@x.com" || got.ID != u.ID {
		t.Fatalf("name update changed email: %+v", got)
	}

	email := "maria@x.com"
	got, err = repo.Update(ctx, u.ID, entity.ProfilePatch{Email: &email})
	if err != nil {
		t.Fatalf("Update email: %v", err)
	}
	if got.Name != "Ana Maria" || got.Email != "maria@x.com" {
		t.Fatalf("email update changed name: %+v", got)
	}

	stored, err := repo.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.PasswordHash != "hash-Ana" {
		t.Fatal("profile update must not touch the password hash")
	}
}

func testUpdateDuplicateEmail(t *testing.T, repo repository.UserRepository) {
	mustCreate(t, repo, "Ana", "ana@x.com")
	bia := mustCreate(t, repo, "Bia", "bia@x.com")
	taken := "ana@x.com"
	_, err := repo.Update(context.Background(), bia.ID, entity.ProfilePatch{Email: &taken})
	if !errors.Is(err, repository.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func testUpdateNotFound(t *testing.T, repo repository.UserRepository) {
	name := "Ghost"
	_, err := repo.Update(context.Background(), uuid.NewString(), entity.ProfilePatch{Name: &name})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func testUpdatePassword(t *testing.T, repo repository.UserRepository) {
	u := mustCreate(t, repo, "Ana", "ana@x.com")
	ctx := context.Background()

	got, err := repo.UpdatePassword(ctx, u.ID, "new-hash")
	if err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	if got.ID != u.ID || got.Email != "ana@x.com" {
		t.Fatalf("unexpected result %+v", got)
	}
	stored, _ := repo.GetByID(ctx, u.ID)
	if stored.PasswordHash != "new-hash" {
		t.Fatalf("expected new hash, got %q", stored.PasswordHash)
	}

	if _, err := repo.UpdatePassword(ctx, uuid.NewString(), "x"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func testDelete(t *testing.T, repo repository.UserRepository) {
	u := mustCreate(t, repo, "Ana", "ana@x.com")
	ctx := context.Background()

	snap, err := repo.Delete(ctx, u.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if snap.ID != u.ID || snap.Name != "Ana" || snap.Email != "ana@x.com" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if _, err := repo.Delete(ctx, u.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByID(ctx, u.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected deleted user to be gone, got %v", err)
	}
}
