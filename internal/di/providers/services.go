package providers

import (
	"github.com/samber/do/v2"

	"github.com/prompthubapp/prompthub-server/internal/logger"
	"github.com/prompthubapp/prompthub-server/internal/service"
)

// ProvidePromptService provides the prompt service.
func ProvidePromptService(i do.Injector) (*service.PromptService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewPromptService(storeHandle.Store, log.Logger), nil
}

// ProvideCategoryService provides the category service.
func ProvideCategoryService(i do.Injector) (*service.CategoryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewCategoryService(storeHandle.Store, log.Logger), nil
}

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewTagService(storeHandle.Store, log.Logger), nil
}

// ProvideStatsService provides the stats service.
func ProvideStatsService(i do.Injector) (*service.StatsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewStatsService(storeHandle.Store, log.Logger), nil
}
