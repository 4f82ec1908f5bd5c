package server

import (
	"context"
	"testing"

	"github.com/Yadyoyollo/rabopkanean-app/internal/contest"
)

func TestSeedAdmin(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	logger := discardLogger()

	if err := SeedAdmin(ctx, logger, e.store, "boss@example.com", "changeme"); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	users, err := e.store.ListUsers(ctx, contest.RoleAdmin)
	if err != nil {
		t.Fatalf("listing users: %v", err)
	}
	if len(users) != 1 || users[0].Email != "boss@example.com" {
		t.Fatalf("expected one seeded admin, got %+v", users)
	}

	// Second run is a no-op.
	if err := SeedAdmin(ctx, logger, e.store, "boss@example.com", "changeme"); err != nil {
		t.Fatalf("re-seeding: %v", err)
	}
	if users, _ = e.store.ListUsers(ctx, ""); len(users) != 1 {
		t.Fatalf("expected seed to be idempotent, got %d users", len(users))
	}
}

func TestSeedAdminSkipsWhenUsersExist(t *testing.T) {
	e := newTestEnv(t)
	e.createUser(t, "judge@example.com", "Judge", contest.RoleJudge)

	if err := SeedAdmin(context.Background(), discardLogger(), e.store, "boss@example.com", "changeme"); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	admins, err := e.store.ListUsers(context.Background(), contest.RoleAdmin)
	if err != nil {
		t.Fatalf("listing users: %v", err)
	}
	if len(admins) != 0 {
		t.Fatalf("expected no bootstrap admin, got %+v", admins)
	}
}
