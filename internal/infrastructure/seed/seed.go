// Package seed inserts demo users for local environments.
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shopworks/fulfillment/internal/domain/user"
	"github.com/shopworks/fulfillment/internal/pkg/security"
)

type demoUser struct {
	email    string
	username string
	password string
}

var demoUsers = []demoUser{
	{email: "user1@example.com", username: "user1", password: "password123"},
	{email: "user2@example.com", username: "user2", password: "password123"},
	{email: "admin@example.com", username: "admin", password: "admin123"},
}

// Users inserts the demo accounts unless the user table already has rows.
func Users(ctx context.Context, repo user.Repository, logger *zap.Logger) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed: count users: %w", err)
	}
	if count > 0 {
		logger.Info("seed_skipped", zap.Int64("existing_users", count))
		return nil
	}

	for _, du := range demoUsers {
		hash, err := security.HashPassword(du.password)
		if err != nil {
			return fmt.Errorf("seed: hash password for %s: %w", du.username, err)
		}
		u := &user.User{
			Email:          du.email,
			Username:       du.username,
			HashedPassword: hash,
			IsActive:       true,
		}
		if err := repo.Create(ctx, u); err != nil {
			return fmt.Errorf("seed: create %s: %w", du.username, err)
		}
	}
	logger.Info("seed_done", zap.Int("users", len(demoUsers)))
	return nil
}
