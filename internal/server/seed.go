package server

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/Yadyoyollo/rabopkanean-app/internal/contest"
)

// SeedAdmin creates the bootstrap admin account on an empty database.
// Idempotent: does nothing once any user exists.
func SeedAdmin(ctx context.Context, logger *slog.Logger, store Store, email, password string) error {
	count, err := store.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if email == "" || password == "" {
		logger.Warn("no users exist and ADMIN_EMAIL/ADMIN_PASSWORD are unset, skipping admin bootstrap")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	if _, err := store.CreateUser(ctx, email, "Administrator", string(hash), contest.RoleAdmin); err != nil {
		return fmt.Errorf("creating bootstrap admin: %w", err)
	}

	logger.Info("bootstrap admin created", "email", email)
	return nil
}
