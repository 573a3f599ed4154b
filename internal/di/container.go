// Package di provides dependency injection configuration for the PromptHub
// server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/prompthubapp/prompthub-server/internal/backup"
	"github.com/prompthubapp/prompthub-server/internal/config"
	"github.com/prompthubapp/prompthub-server/internal/di/providers"
	"github.com/prompthubapp/prompthub-server/internal/logger"
	"github.com/prompthubapp/prompthub-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAdminHash)

	// Database layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideBackupManager)

	// Business services
	do.Provide(injector, providers.ProvidePromptService)
	do.Provide(injector, providers.ProvideCategoryService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideStatsService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AdminHash](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*backup.Manager](injector)

	_ = do.MustInvoke[*service.PromptService](injector)
	_ = do.MustInvoke[*service.CategoryService](injector)
	_ = do.MustInvoke[*service.TagService](injector)
	_ = do.MustInvoke[*service.StatsService](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
