package service

import (
	"context"
	"log/slog"

	"github.com/prompthubapp/prompthub-server/internal/domain"
	"github.com/prompthubapp/prompthub-server/internal/id"
	"github.com/prompthubapp/prompthub-server/internal/store"
	"github.com/prompthubapp/prompthub-server/internal/validation"
)

// CategoryService orchestrates category tree operations.
type CategoryService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewCategoryService creates a new category service.
func NewCategoryService(store store.Store, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// ListCategories returns all categories as a flat list ordered by (level, name).
func (s *CategoryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.store.ListCategories(ctx)
}

// GetCategoryTree returns the categories assembled into a forest of nodes.
func (s *CategoryService) GetCategoryTree(ctx context.Context) ([]*domain.CategoryNode, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return domain.BuildCategoryTree(categories), nil
}

// GetCategory returns a single category.
func (s *CategoryService) GetCategory(ctx context.Context, categoryID string) (*domain.Category, error) {
	return s.store.GetCategory(ctx, categoryID)
}

// CreateCategoryRequest contains fields for creating a category.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
	Description string `json:"description" validate:"max=500"`
	ParentID    string `json:"parent_id"`
}

// CreateCategory creates a new category under the requested parent.
func (s *CategoryService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*domain.Category, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	categoryID, err := id.Generate("cat")
	if err != nil {
		return nil, err
	}

	color := req.Color
	if color == "" {
		color = domain.DefaultCategoryColor
	}

	c := &domain.Category{
		Entity:      domain.Entity{ID: categoryID},
		Name:        req.Name,
		Color:       color,
		Description: req.Description,
		ParentID:    req.ParentID,
	}
	c.InitTimestamps()

	if err := s.store.CreateCategory(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("category created", "id", categoryID, "name", req.Name, "parent", req.ParentID)
	return c, nil
}

// UpdateCategoryRequest contains fields for updating a category. Nil fields
// are left unchanged; a non-nil empty ParentID moves the category to the root.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	ParentID    *string `json:"parent_id"`
}

// UpdateCategory applies a partial update, including re-parenting.
func (s *CategoryService) UpdateCategory(ctx context.Context, categoryID string, req UpdateCategoryRequest) (*domain.Category, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	c, err := s.store.UpdateCategory(ctx, categoryID, store.CategoryUpdate{
		Name:        req.Name,
		Color:       req.Color,
		Description: req.Description,
		ParentID:    req.ParentID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("category updated", "id", categoryID, "path", c.Path)
	return c, nil
}

// PreviewDeleteCategory reports what a deletion would affect without
// performing it.
func (s *CategoryService) PreviewDeleteCategory(ctx context.Context, categoryID string) (*domain.CategoryImpact, error) {
	return s.store.DeleteCategoryPreview(ctx, categoryID)
}

// ForceDeleteCategory deletes a category subtree, moving its prompts to the
// fallback category.
func (s *CategoryService) ForceDeleteCategory(ctx context.Context, categoryID string) (*store.ForceDeleteResult, error) {
	result, err := s.store.ForceDeleteCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("category force-deleted",
		"id", categoryID,
		"deleted_categories", result.DeletedCategoriesCount,
		"affected_prompts", result.AffectedPromptsCount)
	return result, nil
}

// SeedDefaults creates the default categories if none exist.
func (s *CategoryService) SeedDefaults(ctx context.Context) error {
	return s.store.SeedDefaultCategories(ctx)
}
