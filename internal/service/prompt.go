package service

import (
	"context"
	"log/slog"

	"github.com/prompthubapp/prompthub-server/internal/domain"
	"github.com/prompthubapp/prompthub-server/internal/id"
	"github.com/prompthubapp/prompthub-server/internal/store"
	"github.com/prompthubapp/prompthub-server/internal/validation"
)

// PromptService orchestrates prompt and version operations.
type PromptService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewPromptService creates a new prompt service.
func NewPromptService(store store.Store, logger *slog.Logger) *PromptService {
	return &PromptService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// ListPrompts returns all prompts ordered by most recently updated.
func (s *PromptService) ListPrompts(ctx context.Context) ([]*domain.Prompt, error) {
	return s.store.ListPrompts(ctx)
}

// GetPrompt returns a prompt with tags and full version history.
func (s *PromptService) GetPrompt(ctx context.Context, promptID string) (*domain.Prompt, error) {
	return s.store.GetPrompt(ctx, promptID)
}

// CreatePromptRequest contains fields for creating a prompt.
type CreatePromptRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Content     string   `json:"content" validate:"required,min=1"`
	Description string   `json:"description" validate:"max=1000"`
	CategoryID  string   `json:"category_id"`
	Tags        []string `json:"tags" validate:"max=20,dive,min=1,max=50"`
}

// CreatePrompt creates a prompt with its seeded initial version.
func (s *PromptService) CreatePrompt(ctx context.Context, req CreatePromptRequest) (*domain.Prompt, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	promptID, err := id.Generate("prompt")
	if err != nil {
		return nil, err
	}

	p := &domain.Prompt{
		Entity:      domain.Entity{ID: promptID},
		Title:       req.Title,
		Content:     req.Content,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Tags:        req.Tags,
	}
	p.InitTimestamps()

	if err := s.store.CreatePrompt(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("prompt created", "id", promptID, "title", req.Title, "category", p.CategoryName)
	return p, nil
}

// UpdatePromptRequest contains fields for updating a prompt. Nil fields are
// left unchanged; a non-nil Tags replaces the whole tag set.
type UpdatePromptRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Content     *string   `json:"content" validate:"omitempty,min=1"`
	Description *string   `json:"description" validate:"omitempty,max=1000"`
	CategoryID  *string   `json:"category_id"`
	Tags        *[]string `json:"tags" validate:"omitempty,max=20,dive,min=1,max=50"`
}

// UpdatePrompt applies a partial update. Direct edits never touch the
// version history; use CreateVersion to record a snapshot.
func (s *PromptService) UpdatePrompt(ctx context.Context, promptID string, req UpdatePromptRequest) (*domain.Prompt, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	p, err := s.store.UpdatePrompt(ctx, promptID, store.PromptUpdate{
		Title:       req.Title,
		Content:     req.Content,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Tags:        req.Tags,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("prompt updated", "id", promptID)
	return p, nil
}

// DeletePrompt removes a prompt and its version history.
func (s *PromptService) DeletePrompt(ctx context.Context, promptID string) error {
	if err := s.store.DeletePrompt(ctx, promptID); err != nil {
		return err
	}

	s.logger.Info("prompt deleted", "id", promptID)
	return nil
}

// UsePrompt records a usage of the prompt and returns it with the bumped
// counter.
func (s *PromptService) UsePrompt(ctx context.Context, promptID string) (*domain.Prompt, error) {
	return s.store.UsePrompt(ctx, promptID)
}

// SearchPrompts filters prompts by substring query and category scope.
func (s *PromptService) SearchPrompts(ctx context.Context, filter store.SearchFilter) ([]*domain.Prompt, error) {
	return s.store.SearchPrompts(ctx, filter)
}

// CreateVersionRequest contains fields for snapshotting a new version.
type CreateVersionRequest struct {
	Version     string `json:"version" validate:"required,min=1,max=50"`
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Content     string `json:"content" validate:"required,min=1"`
	Description string `json:"description" validate:"max=1000"`
	ChangeNote  string `json:"change_note" validate:"max=500"`
}

// CreateVersion appends a version to a prompt's history and activates it.
func (s *PromptService) CreateVersion(ctx context.Context, promptID string, req CreateVersionRequest) (*domain.Prompt, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	v := &domain.PromptVersion{
		Version:     req.Version,
		Title:       req.Title,
		Content:     req.Content,
		Description: req.Description,
		ChangeNote:  req.ChangeNote,
	}
	if err := s.store.CreatePromptVersion(ctx, promptID, v); err != nil {
		return nil, err
	}

	s.logger.Info("prompt version created", "id", promptID, "version", req.Version)
	return s.store.GetPrompt(ctx, promptID)
}

// SwitchVersion makes an existing version active, restoring its snapshot.
func (s *PromptService) SwitchVersion(ctx context.Context, promptID, version string) (*domain.Prompt, error) {
	p, err := s.store.SwitchPromptVersion(ctx, promptID, version)
	if err != nil {
		return nil, err
	}

	s.logger.Info("prompt version activated", "id", promptID, "version", version)
	return p, nil
}

// DeleteVersion removes a historical version. The active version and the
// last remaining version are protected.
func (s *PromptService) DeleteVersion(ctx context.Context, promptID, version string) error {
	if err := s.store.DeletePromptVersion(ctx, promptID, version); err != nil {
		return err
	}

	s.logger.Info("prompt version deleted", "id", promptID, "version", version)
	return nil
}
