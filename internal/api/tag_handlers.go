package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/prompthubapp/prompthub-server/internal/service"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns all tags ordered by name",
		Tags:        []string{"Tags"},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createTag",
		Method:        http.MethodPost,
		Path:          "/api/v1/tags",
		Summary:       "Create tag",
		Description:   "Finds or creates a tag by its unique name",
		Tags:          []string{"Tags"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTag",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Get tag",
		Description: "Returns a tag by ID",
		Tags:        []string{"Tags"},
	}, s.handleGetTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTag",
		Method:      http.MethodPatch,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Update tag",
		Description: "Updates a tag; a rename propagates to every prompt holding it",
		Tags:        []string{"Tags"},
	}, s.handleUpdateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTag",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Delete tag",
		Description: "Deletes a tag and removes it from every prompt holding it",
		Tags:        []string{"Tags"},
	}, s.handleDeleteTag)
}

// === DTOs ===

// TagResponse contains tag data in API responses.
type TagResponse struct {
	ID        string    `json:"id" doc:"Tag ID"`
	Name      string    `json:"name" doc:"Tag name, unique"`
	Color     string    `json:"color" doc:"Display color"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

// ListTagsResponse contains a list of tags.
type ListTagsResponse struct {
	Tags []TagResponse `json:"tags" doc:"List of tags"`
}

// ListTagsOutput wraps the list tags response for Huma.
type ListTagsOutput struct {
	Body ListTagsResponse
}

// CreateTagRequest is the request body for creating a tag.
type CreateTagRequest struct {
	Name  string `json:"name" doc:"Tag name"`
	Color string `json:"color,omitempty" doc:"Display color, hex"`
}

// CreateTagInput wraps the create tag request for Huma.
type CreateTagInput struct {
	Body CreateTagRequest
}

// TagOutput wraps a single tag response for Huma.
type TagOutput struct {
	Body TagResponse
}

// GetTagInput contains parameters for getting a tag.
type GetTagInput struct {
	ID string `path:"id" doc:"Tag ID"`
}

// UpdateTagRequest is the request body for updating a tag.
type UpdateTagRequest struct {
	Name  *string `json:"name,omitempty" doc:"Tag name"`
	Color *string `json:"color,omitempty" doc:"Display color, hex"`
}

// UpdateTagInput wraps the update tag request for Huma.
type UpdateTagInput struct {
	ID   string `path:"id" doc:"Tag ID"`
	Body UpdateTagRequest
}

// DeleteTagInput contains parameters for deleting a tag.
type DeleteTagInput struct {
	ID string `path:"id" doc:"Tag ID"`
}

// DeleteTagOutput reports the result of a tag deletion.
type DeleteTagOutput struct {
	Body struct {
		Deleted         bool `json:"deleted" doc:"Whether the tag was deleted"`
		AffectedPrompts int  `json:"affected_prompts" doc:"Prompts the tag was removed from"`
	}
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*ListTagsOutput, error) {
	tags, err := s.services.Tags.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]TagResponse, len(tags))
	for i, t := range tags {
		resp[i] = TagResponse{
			ID:        t.ID,
			Name:      t.Name,
			Color:     t.Color,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
		}
	}

	return &ListTagsOutput{Body: ListTagsResponse{Tags: resp}}, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	t, _, err := s.services.Tags.CreateTag(ctx, service.CreateTagRequest{
		Name:  input.Body.Name,
		Color: input.Body.Color,
	})
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: TagResponse{
		ID:        t.ID,
		Name:      t.Name,
		Color:     t.Color,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}}, nil
}

func (s *Server) handleGetTag(ctx context.Context, input *GetTagInput) (*TagOutput, error) {
	t, err := s.services.Tags.GetTag(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: TagResponse{
		ID:        t.ID,
		Name:      t.Name,
		Color:     t.Color,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}}, nil
}

func (s *Server) handleUpdateTag(ctx context.Context, input *UpdateTagInput) (*TagOutput, error) {
	t, err := s.services.Tags.UpdateTag(ctx, input.ID, service.UpdateTagRequest{
		Name:  input.Body.Name,
		Color: input.Body.Color,
	})
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: TagResponse{
		ID:        t.ID,
		Name:      t.Name,
		Color:     t.Color,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *DeleteTagInput) (*DeleteTagOutput, error) {
	affected, err := s.services.Tags.DeleteTag(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	out := &DeleteTagOutput{}
	out.Body.Deleted = true
	out.Body.AffectedPrompts = affected
	return out, nil
}
