// Package backup handles JSON snapshots of the prompt library and
// re-importing them.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prompthubapp/prompthub-server/internal/domain"
	"github.com/prompthubapp/prompthub-server/internal/store"
)

// Snapshot is the on-disk backup format.
type Snapshot struct {
	CreatedAt  time.Time          `json:"created_at"`
	Schema     string             `json:"schema"`
	Prompts    []*domain.Prompt   `json:"prompts"`
	Categories []*domain.Category `json:"categories"`
	Tags       []*domain.Tag      `json:"tags"`
	Settings   map[string]string  `json:"settings"`
}

// ImportStats summarizes an import run.
type ImportStats struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// Manager writes snapshots to a directory and imports prompt lists.
type Manager struct {
	dir    string
	store  store.Store
	logger *slog.Logger
}

// NewManager creates a backup manager rooted at dir, creating it if needed.
func NewManager(dir string, st store.Store, logger *slog.Logger) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}
	return &Manager{dir: dir, store: st, logger: logger}, nil
}

// Dir returns the backup directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Snapshot writes a timestamped JSON backup of the whole library and
// returns the file path.
func (m *Manager) Snapshot(ctx context.Context) (string, error) {
	snap, err := m.collect(ctx)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("prompthub-backup-%s.json", snap.CreatedAt.Format("20060102-150405"))
	path := filepath.Join(m.dir, name)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	m.logger.Info("backup written", "path", path, "prompts", len(snap.Prompts))
	return path, nil
}

func (m *Manager) collect(ctx context.Context) (*Snapshot, error) {
	prompts, err := m.store.ListPrompts(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := m.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := m.store.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	settings := map[string]string{}
	for _, key := range []string{store.SettingSchemaVersion, store.SettingLastUpdated} {
		value, err := m.store.GetSetting(ctx, key)
		if err == nil {
			settings[key] = value
		}
	}

	return &Snapshot{
		CreatedAt:  time.Now(),
		Schema:     store.SchemaVersion,
		Prompts:    prompts,
		Categories: categories,
		Tags:       tags,
		Settings:   settings,
	}, nil
}

// ImportPrompts upserts a list of prompts, counting creates, updates, and
// failures. A failed prompt is logged and skipped; the rest still land.
func (m *Manager) ImportPrompts(ctx context.Context, prompts []*domain.Prompt) ImportStats {
	var stats ImportStats
	for _, p := range prompts {
		created, err := m.store.ImportPrompt(ctx, p)
		if err != nil {
			stats.Failed++
			m.logger.Warn("import failed", "id", p.ID, "title", p.Title, "error", err)
			continue
		}
		if created {
			stats.Created++
		} else {
			stats.Updated++
		}
	}

	m.logger.Info("import finished",
		"created", stats.Created, "updated", stats.Updated, "failed", stats.Failed)
	return stats
}

// Restore loads a snapshot file and imports its prompts.
func (m *Manager) Restore(ctx context.Context, path string) (ImportStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportStats{}, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return ImportStats{}, fmt.Errorf("parse snapshot: %w", err)
	}

	return m.ImportPrompts(ctx, snap.Prompts), nil
}
