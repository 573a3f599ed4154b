package providers

import (
	"context"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/prompthubapp/prompthub-server/internal/api"
	"github.com/prompthubapp/prompthub-server/internal/backup"
	"github.com/prompthubapp/prompthub-server/internal/config"
	"github.com/prompthubapp/prompthub-server/internal/logger"
	"github.com/prompthubapp/prompthub-server/internal/service"
)

const shutdownTimeout = 10 * time.Second

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server with all routes configured.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	adminHash := do.MustInvoke[AdminHash](i)

	services := api.Services{
		Prompts:    do.MustInvoke[*service.PromptService](i),
		Categories: do.MustInvoke[*service.CategoryService](i),
		Tags:       do.MustInvoke[*service.TagService](i),
		Stats:      do.MustInvoke[*service.StatsService](i),
		Backup:     do.MustInvoke[*backup.Manager](i),
	}

	handler := api.NewServer(storeHandle.Store, services, api.Config{
		Name:        cfg.Server.Name,
		CORSOrigins: cfg.Server.CORSOrigins,
		AdminHash:   string(adminHash),
	}, log.Logger)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &HTTPServerHandle{Server: server}, nil
}
