package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/prompthubapp/prompthub-server/internal/store"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchPrompts",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search prompts",
		Description: "Case-insensitive substring search over title, content, and description, optionally scoped to a category subtree",
		Tags:        []string{"Search"},
	}, s.handleSearchPrompts)
}

// SearchInput contains search query parameters.
type SearchInput struct {
	Query        string `query:"q" doc:"Substring to match against title, content, and description"`
	CategoryID   string `query:"category_id" doc:"Scope to this category and its descendants"`
	CategoryName string `query:"category" doc:"Scope to this category name (legacy filter)"`
}

// SearchResponse contains search results.
type SearchResponse struct {
	Prompts []PromptResponse `json:"prompts" doc:"Matching prompts, most recently updated first"`
	Total   int              `json:"total" doc:"Number of matches"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body SearchResponse
}

func (s *Server) handleSearchPrompts(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	prompts, err := s.services.Prompts.SearchPrompts(ctx, store.SearchFilter{
		Query:        input.Query,
		CategoryID:   input.CategoryID,
		CategoryName: input.CategoryName,
	})
	if err != nil {
		return nil, err
	}

	return &SearchOutput{Body: SearchResponse{
		Prompts: toPromptResponses(prompts),
		Total:   len(prompts),
	}}, nil
}
