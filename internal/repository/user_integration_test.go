//go:build integration

package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/esxdocs/esxdocs/internal/model"
	"github.com/esxdocs/esxdocs/internal/testutil"
)

func TestIntegrationUserRepository_CreateAndGet(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	user := testutil.NewTestUser(t, "awb001@esx.com")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	retrieved, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if retrieved.Email != user.Email {
		t.Errorf("Email mismatch: got %q, want %q", retrieved.Email, user.Email)
	}
	if retrieved.Role != model.RoleUser {
		t.Errorf("Role mismatch: got %q, want %q", retrieved.Role, model.RoleUser)
	}
}

func TestIntegrationUserRepository_GetByEmail_CaseInsensitive(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	user := testutil.NewTestUser(t, "awb001@esx.com")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	retrieved, err := repo.GetUserByEmail(ctx, strings.ToUpper(user.Email))
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if retrieved.ID != user.ID {
		t.Errorf("ID mismatch: got %q, want %q", retrieved.ID, user.ID)
	}
}

func TestIntegrationUserRepository_DuplicateEmail(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	first := testutil.NewTestUser(t, "dup001@esx.com")
	if err := repo.CreateUser(ctx, first); err != nil {
		t.Fatalf("CreateUser (first) failed: %v", err)
	}

	// Same email in a different case must still collide.
	second := testutil.NewTestUser(t, "DUP001@esx.com")
	err := repo.CreateUser(ctx, second)
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("Expected ErrEmailExists, got: %v", err)
	}
}

func TestIntegrationUserRepository_UpdateRole(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	user := testutil.NewTestUser(t, "promote@esx.com")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	updated, err := repo.UpdateUserRole(ctx, user.ID, model.RoleAdmin)
	if err != nil {
		t.Fatalf("UpdateUserRole failed: %v", err)
	}
	if updated.Role != model.RoleAdmin {
		t.Errorf("Role mismatch: got %q, want %q", updated.Role, model.RoleAdmin)
	}
	if !updated.UpdatedAt.After(user.UpdatedAt) {
		t.Error("UpdatedAt should move forward on role change")
	}
}

func TestIntegrationUserRepository_UpdateRole_NotFound(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	_, err := repo.UpdateUserRole(ctx, "missing", model.RoleAdmin)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got: %v", err)
	}
}

func TestIntegrationUserRepository_UpdatePassword(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	user := testutil.NewTestUser(t, "rotate@esx.com")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if err := repo.UpdateUserPassword(ctx, user.ID, "$argon2id$rotated"); err != nil {
		t.Fatalf("UpdateUserPassword failed: %v", err)
	}

	retrieved, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if retrieved.PasswordHash != "$argon2id$rotated" {
		t.Errorf("PasswordHash mismatch: got %q", retrieved.PasswordHash)
	}
	if !retrieved.UpdatedAt.After(user.UpdatedAt) {
		t.Error("UpdatedAt should move forward on password change")
	}

	if err := repo.UpdateUserPassword(ctx, "missing", "x"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got: %v", err)
	}
}

func TestIntegrationUserRepository_List_NewestFirst(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	first := testutil.NewTestUser(t, "first@esx.com")
	if err := repo.CreateUser(ctx, first); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	second := testutil.NewTestUser(t, "second@esx.com")
	second.CreatedAt = first.CreatedAt.Add(1)
	second.UpdatedAt = second.CreatedAt
	if err := repo.CreateUser(ctx, second); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	users, err := repo.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d users, want 2", len(users))
	}
	if users[0].ID != second.ID {
		t.Errorf("expected newest user first, got %q", users[0].Email)
	}
}

func newUserTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetUsersSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset users schema: %v", err)
	}

	return ctx, repo
}
