// Package store defines the persistence interface for the PromptHub server.
package store

import (
	"context"

	"github.com/prompthubapp/prompthub-server/internal/domain"
)

// Store defines the interface for all persistence operations.
// Every mutating operation is a single transaction: on error, no partial
// tree, linkage, or denormalized state is left behind.
type Store interface {
	// Lifecycle
	Close() error

	// Categories
	CreateCategory(ctx context.Context, c *domain.Category) error
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, upd CategoryUpdate) (*domain.Category, error)
	DeleteCategoryPreview(ctx context.Context, id string) (*domain.CategoryImpact, error)
	ForceDeleteCategory(ctx context.Context, id string) (*ForceDeleteResult, error)
	GetCategoryDescendants(ctx context.Context, id string) ([]string, error)
	SeedDefaultCategories(ctx context.Context) error

	// Tags
	FindOrCreateTag(ctx context.Context, name, color string) (*domain.Tag, bool, error)
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	UpdateTag(ctx context.Context, id string, upd TagUpdate) (*domain.Tag, error)
	DeleteTag(ctx context.Context, id string) (int, error)

	// Prompts
	CreatePrompt(ctx context.Context, p *domain.Prompt) error
	GetPrompt(ctx context.Context, id string) (*domain.Prompt, error)
	ListPrompts(ctx context.Context) ([]*domain.Prompt, error)
	UpdatePrompt(ctx context.Context, id string, upd PromptUpdate) (*domain.Prompt, error)
	DeletePrompt(ctx context.Context, id string) error
	UsePrompt(ctx context.Context, id string) (*domain.Prompt, error)
	SearchPrompts(ctx context.Context, filter SearchFilter) ([]*domain.Prompt, error)
	ImportPrompt(ctx context.Context, p *domain.Prompt) (created bool, err error)

	// Versions
	CreatePromptVersion(ctx context.Context, promptID string, v *domain.PromptVersion) error
	SwitchPromptVersion(ctx context.Context, promptID, version string) (*domain.Prompt, error)
	DeletePromptVersion(ctx context.Context, promptID, version string) error

	// Settings
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error

	// Admin
	ClearData(ctx context.Context) error
}
