package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/prompthubapp/prompthub-server/internal/backup"
	"github.com/prompthubapp/prompthub-server/internal/config"
	"github.com/prompthubapp/prompthub-server/internal/logger"
	"github.com/prompthubapp/prompthub-server/internal/store/sqlite"
)

const seedTimeout = 30 * time.Second

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the SQLite store, seeded with the default categories
// on first run.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	st, err := sqlite.Open(cfg.Database.Path, log.Logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()
	if err := st.SeedDefaultCategories(ctx); err != nil {
		st.Close()
		return nil, err
	}

	log.Info("Database initialized", "path", cfg.Database.Path)
	return &StoreHandle{Store: st}, nil
}

// ProvideBackupManager provides the JSON backup manager.
func ProvideBackupManager(i do.Injector) (*backup.Manager, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	return backup.NewManager(cfg.Backup.Dir, storeHandle.Store, log.Logger)
}
