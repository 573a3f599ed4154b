package service

import (
	"context"
	"log/slog"

	"github.com/prompthubapp/prompthub-server/internal/domain"
	"github.com/prompthubapp/prompthub-server/internal/store"
	"github.com/prompthubapp/prompthub-server/internal/validation"
)

// TagService orchestrates tag registry operations.
type TagService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, logger *slog.Logger) *TagService {
	return &TagService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// ListTags returns all tags ordered by name.
func (s *TagService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return s.store.ListTags(ctx)
}

// GetTag returns a single tag.
func (s *TagService) GetTag(ctx context.Context, tagID string) (*domain.Tag, error) {
	return s.store.GetTag(ctx, tagID)
}

// CreateTagRequest contains fields for creating a tag.
type CreateTagRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=50"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// CreateTag finds or creates a tag by name. Tag names are unique; creating
// an existing name returns the existing tag.
func (s *TagService) CreateTag(ctx context.Context, req CreateTagRequest) (*domain.Tag, bool, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, false, err
	}

	tag, created, err := s.store.FindOrCreateTag(ctx, req.Name, req.Color)
	if err != nil {
		return nil, false, err
	}

	if created {
		s.logger.Info("tag created", "id", tag.ID, "name", tag.Name)
	}
	return tag, created, nil
}

// UpdateTagRequest contains fields for updating a tag. Nil fields are left
// unchanged.
type UpdateTagRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=50"`
	Color *string `json:"color" validate:"omitempty,hexcolor"`
}

// UpdateTag applies a partial update. A rename propagates to every prompt
// holding the tag through the shared registry entry.
func (s *TagService) UpdateTag(ctx context.Context, tagID string, req UpdateTagRequest) (*domain.Tag, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	tag, err := s.store.UpdateTag(ctx, tagID, store.TagUpdate{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tag updated", "id", tagID, "name", tag.Name)
	return tag, nil
}

// DeleteTag removes a tag from the registry and from every prompt holding
// it, returning how many prompts were affected.
func (s *TagService) DeleteTag(ctx context.Context, tagID string) (int, error) {
	affected, err := s.store.DeleteTag(ctx, tagID)
	if err != nil {
		return 0, err
	}

	s.logger.Info("tag deleted", "id", tagID, "affected_prompts", affected)
	return affected, nil
}
