package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/prompthubapp/prompthub-server/internal/domain"
	"github.com/prompthubapp/prompthub-server/internal/service"
)

func (s *Server) registerPromptRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPrompts",
		Method:      http.MethodGet,
		Path:        "/api/v1/prompts",
		Summary:     "List prompts",
		Description: "Returns all prompts ordered by most recently updated",
		Tags:        []string{"Prompts"},
	}, s.handleListPrompts)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createPrompt",
		Method:        http.MethodPost,
		Path:          "/api/v1/prompts",
		Summary:       "Create prompt",
		Description:   "Creates a prompt with its seeded initial version",
		Tags:          []string{"Prompts"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreatePrompt)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPrompt",
		Method:      http.MethodGet,
		Path:        "/api/v1/prompts/{id}",
		Summary:     "Get prompt",
		Description: "Returns a prompt with tags and full version history",
		Tags:        []string{"Prompts"},
	}, s.handleGetPrompt)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePrompt",
		Method:      http.MethodPatch,
		Path:        "/api/v1/prompts/{id}",
		Summary:     "Update prompt",
		Description: "Partially updates a prompt; absent fields are unchanged",
		Tags:        []string{"Prompts"},
	}, s.handleUpdatePrompt)

	huma.Register(s.api, huma.Operation{
		OperationID: "deletePrompt",
		Method:      http.MethodDelete,
		Path:        "/api/v1/prompts/{id}",
		Summary:     "Delete prompt",
		Description: "Deletes a prompt and its version history",
		Tags:        []string{"Prompts"},
	}, s.handleDeletePrompt)

	huma.Register(s.api, huma.Operation{
		OperationID: "usePrompt",
		Method:      http.MethodPost,
		Path:        "/api/v1/prompts/{id}/use",
		Summary:     "Record prompt usage",
		Description: "Increments the prompt's usage counter",
		Tags:        []string{"Prompts"},
	}, s.handleUsePrompt)
}

// === DTOs ===

// VersionResponse contains one entry of a prompt's version history.
type VersionResponse struct {
	Version     string    `json:"version" doc:"Version label"`
	Title       string    `json:"title" doc:"Title snapshot"`
	Content     string    `json:"content" doc:"Content snapshot"`
	Description string    `json:"description,omitempty" doc:"Description snapshot"`
	ChangeNote  string    `json:"change_note,omitempty" doc:"What changed in this version"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
}

// PromptResponse contains prompt data in API responses.
type PromptResponse struct {
	ID             string            `json:"id" doc:"Prompt ID"`
	Title          string            `json:"title" doc:"Prompt title"`
	Content        string            `json:"content" doc:"Prompt content"`
	Description    string            `json:"description,omitempty" doc:"Prompt description"`
	CategoryID     string            `json:"category_id,omitempty" doc:"Linked category ID"`
	CategoryName   string            `json:"category_name,omitempty" doc:"Category display name"`
	CategoryPath   string            `json:"category_path,omitempty" doc:"Full category path"`
	Tags           []string          `json:"tags" doc:"Tag names"`
	UsageCount     int               `json:"usage_count" doc:"Times the prompt was used"`
	CurrentVersion string            `json:"current_version" doc:"Active version label"`
	Versions       []VersionResponse `json:"versions,omitempty" doc:"Version history, oldest first"`
	CreatedAt      time.Time         `json:"created_at" doc:"Creation time"`
	UpdatedAt      time.Time         `json:"updated_at" doc:"Last update time"`
}

func toVersionResponse(v *domain.PromptVersion) VersionResponse {
	return VersionResponse{
		Version:     v.Version,
		Title:       v.Title,
		Content:     v.Content,
		Description: v.Description,
		ChangeNote:  v.ChangeNote,
		CreatedAt:   v.CreatedAt,
	}
}

func toPromptResponse(p *domain.Prompt) PromptResponse {
	resp := PromptResponse{
		ID:             p.ID,
		Title:          p.Title,
		Content:        p.Content,
		Description:    p.Description,
		CategoryID:     p.CategoryID,
		CategoryName:   p.CategoryName,
		CategoryPath:   p.CategoryPath,
		Tags:           p.Tags,
		UsageCount:     p.UsageCount,
		CurrentVersion: p.CurrentVersion,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	for _, v := range p.Versions {
		resp.Versions = append(resp.Versions, toVersionResponse(v))
	}
	return resp
}

func toPromptResponses(prompts []*domain.Prompt) []PromptResponse {
	resp := make([]PromptResponse, len(prompts))
	for i, p := range prompts {
		resp[i] = toPromptResponse(p)
	}
	return resp
}

// ListPromptsResponse contains a list of prompts.
type ListPromptsResponse struct {
	Prompts []PromptResponse `json:"prompts" doc:"List of prompts"`
	Total   int              `json:"total" doc:"Number of prompts"`
}

// ListPromptsOutput wraps the list prompts response for Huma.
type ListPromptsOutput struct {
	Body ListPromptsResponse
}

// CreatePromptRequest is the request body for creating a prompt.
type CreatePromptRequest struct {
	Title       string   `json:"title" doc:"Prompt title"`
	Content     string   `json:"content" doc:"Prompt content"`
	Description string   `json:"description,omitempty" doc:"Prompt description"`
	CategoryID  string   `json:"category_id,omitempty" doc:"Category to file the prompt under"`
	Tags        []string `json:"tags,omitempty" doc:"Tag names"`
}

// CreatePromptInput wraps the create prompt request for Huma.
type CreatePromptInput struct {
	Body CreatePromptRequest
}

// PromptOutput wraps a single prompt response for Huma.
type PromptOutput struct {
	Body PromptResponse
}

// GetPromptInput contains parameters for getting a prompt.
type GetPromptInput struct {
	ID string `path:"id" doc:"Prompt ID"`
}

// UpdatePromptRequest is the request body for updating a prompt.
type UpdatePromptRequest struct {
	Title       *string   `json:"title,omitempty" doc:"Prompt title"`
	Content     *string   `json:"content,omitempty" doc:"Prompt content"`
	Description *string   `json:"description,omitempty" doc:"Prompt description"`
	CategoryID  *string   `json:"category_id,omitempty" doc:"Category to file the prompt under"`
	Tags        *[]string `json:"tags,omitempty" doc:"Replacement tag set"`
}

// UpdatePromptInput wraps the update prompt request for Huma.
type UpdatePromptInput struct {
	ID   string `path:"id" doc:"Prompt ID"`
	Body UpdatePromptRequest
}

// DeletePromptInput contains parameters for deleting a prompt.
type DeletePromptInput struct {
	ID string `path:"id" doc:"Prompt ID"`
}

// DeletePromptOutput wraps the delete confirmation for Huma.
type DeletePromptOutput struct {
	Body struct {
		Deleted bool `json:"deleted" doc:"Whether the prompt was deleted"`
	}
}

// UsePromptInput contains parameters for recording prompt usage.
type UsePromptInput struct {
	ID string `path:"id" doc:"Prompt ID"`
}

// === Handlers ===

func (s *Server) handleListPrompts(ctx context.Context, _ *struct{}) (*ListPromptsOutput, error) {
	prompts, err := s.services.Prompts.ListPrompts(ctx)
	if err != nil {
		return nil, err
	}

	return &ListPromptsOutput{Body: ListPromptsResponse{
		Prompts: toPromptResponses(prompts),
		Total:   len(prompts),
	}}, nil
}

func (s *Server) handleCreatePrompt(ctx context.Context, input *CreatePromptInput) (*PromptOutput, error) {
	p, err := s.services.Prompts.CreatePrompt(ctx, service.CreatePromptRequest{
		Title:       input.Body.Title,
		Content:     input.Body.Content,
		Description: input.Body.Description,
		CategoryID:  input.Body.CategoryID,
		Tags:        input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}

	return &PromptOutput{Body: toPromptResponse(p)}, nil
}

func (s *Server) handleGetPrompt(ctx context.Context, input *GetPromptInput) (*PromptOutput, error) {
	p, err := s.services.Prompts.GetPrompt(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &PromptOutput{Body: toPromptResponse(p)}, nil
}

func (s *Server) handleUpdatePrompt(ctx context.Context, input *UpdatePromptInput) (*PromptOutput, error) {
	p, err := s.services.Prompts.UpdatePrompt(ctx, input.ID, service.UpdatePromptRequest{
		Title:       input.Body.Title,
		Content:     input.Body.Content,
		Description: input.Body.Description,
		CategoryID:  input.Body.CategoryID,
		Tags:        input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}

	return &PromptOutput{Body: toPromptResponse(p)}, nil
}

func (s *Server) handleDeletePrompt(ctx context.Context, input *DeletePromptInput) (*DeletePromptOutput, error) {
	if err := s.services.Prompts.DeletePrompt(ctx, input.ID); err != nil {
		return nil, err
	}

	out := &DeletePromptOutput{}
	out.Body.Deleted = true
	return out, nil
}

func (s *Server) handleUsePrompt(ctx context.Context, input *UsePromptInput) (*PromptOutput, error) {
	p, err := s.services.Prompts.UsePrompt(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &PromptOutput{Body: toPromptResponse(p)}, nil
}
