package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/prompthubapp/prompthub-server/internal/service"
)

func (s *Server) registerVersionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPromptVersions",
		Method:      http.MethodGet,
		Path:        "/api/v1/prompts/{id}/versions",
		Summary:     "List prompt versions",
		Description: "Returns a prompt's version history, oldest first",
		Tags:        []string{"Versions"},
	}, s.handleListVersions)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createPromptVersion",
		Method:        http.MethodPost,
		Path:          "/api/v1/prompts/{id}/versions",
		Summary:       "Create prompt version",
		Description:   "Appends a snapshot to the prompt's history and activates it",
		Tags:          []string{"Versions"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateVersion)

	huma.Register(s.api, huma.Operation{
		OperationID: "activatePromptVersion",
		Method:      http.MethodPost,
		Path:        "/api/v1/prompts/{id}/versions/{version}/activate",
		Summary:     "Activate prompt version",
		Description: "Makes an existing version active, restoring its snapshot",
		Tags:        []string{"Versions"},
	}, s.handleActivateVersion)

	huma.Register(s.api, huma.Operation{
		OperationID: "deletePromptVersion",
		Method:      http.MethodDelete,
		Path:        "/api/v1/prompts/{id}/versions/{version}",
		Summary:     "Delete prompt version",
		Description: "Removes a historical version; the active and sole versions are protected",
		Tags:        []string{"Versions"},
	}, s.handleDeleteVersion)
}

// === DTOs ===

// ListVersionsInput contains parameters for listing a prompt's versions.
type ListVersionsInput struct {
	ID string `path:"id" doc:"Prompt ID"`
}

// ListVersionsResponse contains a prompt's version history.
type ListVersionsResponse struct {
	Versions       []VersionResponse `json:"versions" doc:"Version history, oldest first"`
	CurrentVersion string            `json:"current_version" doc:"Active version label"`
}

// ListVersionsOutput wraps the version list for Huma.
type ListVersionsOutput struct {
	Body ListVersionsResponse
}

// CreateVersionRequest is the request body for snapshotting a version.
type CreateVersionRequest struct {
	Version     string `json:"version" doc:"New version label, unique within the prompt"`
	Title       string `json:"title" doc:"Title snapshot"`
	Content     string `json:"content" doc:"Content snapshot"`
	Description string `json:"description,omitempty" doc:"Description snapshot"`
	ChangeNote  string `json:"change_note,omitempty" doc:"What changed in this version"`
}

// CreateVersionInput wraps the create version request for Huma.
type CreateVersionInput struct {
	ID   string `path:"id" doc:"Prompt ID"`
	Body CreateVersionRequest
}

// VersionRefInput identifies one version of a prompt.
type VersionRefInput struct {
	ID      string `path:"id" doc:"Prompt ID"`
	Version string `path:"version" doc:"Version label"`
}

// DeleteVersionOutput wraps the delete confirmation for Huma.
type DeleteVersionOutput struct {
	Body struct {
		Deleted bool `json:"deleted" doc:"Whether the version was deleted"`
	}
}

// === Handlers ===

func (s *Server) handleListVersions(ctx context.Context, input *ListVersionsInput) (*ListVersionsOutput, error) {
	p, err := s.services.Prompts.GetPrompt(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	resp := ListVersionsResponse{
		Versions:       []VersionResponse{},
		CurrentVersion: p.CurrentVersion,
	}
	for _, v := range p.Versions {
		resp.Versions = append(resp.Versions, toVersionResponse(v))
	}

	return &ListVersionsOutput{Body: resp}, nil
}

func (s *Server) handleCreateVersion(ctx context.Context, input *CreateVersionInput) (*PromptOutput, error) {
	p, err := s.services.Prompts.CreateVersion(ctx, input.ID, service.CreateVersionRequest{
		Version:     input.Body.Version,
		Title:       input.Body.Title,
		Content:     input.Body.Content,
		Description: input.Body.Description,
		ChangeNote:  input.Body.ChangeNote,
	})
	if err != nil {
		return nil, err
	}

	return &PromptOutput{Body: toPromptResponse(p)}, nil
}

func (s *Server) handleActivateVersion(ctx context.Context, input *VersionRefInput) (*PromptOutput, error) {
	p, err := s.services.Prompts.SwitchVersion(ctx, input.ID, input.Version)
	if err != nil {
		return nil, err
	}

	return &PromptOutput{Body: toPromptResponse(p)}, nil
}

func (s *Server) handleDeleteVersion(ctx context.Context, input *VersionRefInput) (*DeleteVersionOutput, error) {
	if err := s.services.Prompts.DeleteVersion(ctx, input.ID, input.Version); err != nil {
		return nil, err
	}

	out := &DeleteVersionOutput{}
	out.Body.Deleted = true
	return out, nil
}
