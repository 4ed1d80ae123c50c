package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/accounts-api/config"
	"github.com/oksasatya/accounts-api/internal/application"
	"github.com/oksasatya/accounts-api/internal/container"
	"github.com/oksasatya/accounts-api/pkg/helpers"
)

// Seeds SEED_USERS demo accounts: User{i} / user{i}@example.com / senha{i}.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("startup failed: %v", err)
	}
	defer c.Close()

	if cfg.SeedReset {
		if err := c.ResetUsers(ctx); err != nil {
			logger.Fatalf("failed to reset users: %v", err)
		}
		logger.Warn("all users deleted (SEED_RESET=true)")
	}

	created, skipped := 0, 0
	for i := 1; i <= cfg.SeedUsers; i++ {
		in := application.RegisterInput{
			Name:     fmt.Sprintf("User%d", i),
			Email:    fmt.Sprintf("user%d@example.com", i),
			Password: fmt.Sprintf("senha%d", i),
		}
		u, err := c.Service.Register(ctx, in)
		switch {
		case errors.Is(err, application.ErrEmailTaken):
			skipped++
			continue
		case err != nil:
			logger.Fatalf("failed to seed %s: %v", in.Email, err)
		}
		created++
		logger.WithFields(logrus.Fields{"id": u.ID, "email": u.Email}).Debug("seeded user")
	}
	logger.WithFields(logrus.Fields{"created": created, "skipped": skipped}).Info("seed complete")
}
