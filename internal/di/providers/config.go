// Package providers contains dependency injection providers for the
// PromptHub server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/prompthubapp/prompthub-server/internal/auth"
	"github.com/prompthubapp/prompthub-server/internal/config"
	"github.com/prompthubapp/prompthub-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	log.Info("Starting PromptHub Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"database_path", cfg.Database.Path,
	)

	return log, nil
}

// AdminHash is the argon2id hash of the admin password, computed once at
// startup.
type AdminHash string

// ProvideAdminHash hashes the configured admin password.
func ProvideAdminHash(i do.Injector) (AdminHash, error) {
	cfg := do.MustInvoke[*config.Config](i)

	hash, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		return "", err
	}
	return AdminHash(hash), nil
}
