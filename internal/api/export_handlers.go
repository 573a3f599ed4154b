package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/prompthubapp/prompthub-server/internal/domain"
	"github.com/prompthubapp/prompthub-server/internal/id"
	"github.com/prompthubapp/prompthub-server/internal/store"
)

func (s *Server) registerExportRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "exportPrompts",
		Method:      http.MethodGet,
		Path:        "/api/v1/export",
		Summary:     "Export prompts",
		Description: "Returns a flat JSON export of prompts, optionally filtered like search",
		Tags:        []string{"Export"},
	}, s.handleExportPrompts)

	huma.Register(s.api, huma.Operation{
		OperationID: "importPrompts",
		Method:      http.MethodPost,
		Path:        "/api/v1/import",
		Summary:     "Import prompts",
		Description: "Upserts a list of exported prompts, preserving local usage counters",
		Tags:        []string{"Export"},
	}, s.handleImportPrompts)
}

// === DTOs ===

// ExportInput contains export filter parameters.
type ExportInput struct {
	Query        string `query:"q" doc:"Substring filter"`
	CategoryID   string `query:"category_id" doc:"Scope to this category and its descendants"`
	CategoryName string `query:"category" doc:"Scope to this category name"`
	Tags         string `query:"tags" doc:"Comma-separated tag names, any match"`
}

// ExportedPrompt is one prompt in the flat export format.
type ExportedPrompt struct {
	ID             string            `json:"id" doc:"Prompt ID"`
	Title          string            `json:"title" doc:"Prompt title"`
	Content        string            `json:"content" doc:"Prompt content"`
	Description    string            `json:"description,omitempty" doc:"Prompt description"`
	CategoryID     string            `json:"category_id,omitempty" doc:"Linked category ID"`
	Category       string            `json:"category" doc:"Category display path"`
	Tags           []string          `json:"tags" doc:"Tag names"`
	UsageCount     int               `json:"usage_count" doc:"Times the prompt was used"`
	CurrentVersion string            `json:"current_version" doc:"Active version label"`
	Versions       []VersionResponse `json:"versions,omitempty" doc:"Version history"`
	CreatedAt      time.Time         `json:"created_at" doc:"Creation time"`
	UpdatedAt      time.Time         `json:"updated_at" doc:"Last update time"`
}

// ExportResponse contains the exported prompt list.
type ExportResponse struct {
	ExportedAt time.Time        `json:"exported_at" doc:"Export timestamp"`
	Total      int              `json:"total" doc:"Number of exported prompts"`
	Prompts    []ExportedPrompt `json:"prompts" doc:"Exported prompts"`
}

// ExportOutput wraps the export response for Huma.
type ExportOutput struct {
	Body ExportResponse
}

// ImportInput wraps the import request for Huma.
type ImportInput struct {
	Body struct {
		Prompts []ExportedPrompt `json:"prompts" doc:"Prompts to upsert"`
	}
}

// ImportOutput reports import counts.
type ImportOutput struct {
	Body struct {
		Created int `json:"created" doc:"Prompts created"`
		Updated int `json:"updated" doc:"Prompts updated"`
		Failed  int `json:"failed" doc:"Prompts that could not be imported"`
	}
}

// === Handlers ===

func (s *Server) handleExportPrompts(ctx context.Context, input *ExportInput) (*ExportOutput, error) {
	prompts, err := s.services.Prompts.SearchPrompts(ctx, store.SearchFilter{
		Query:        input.Query,
		CategoryID:   input.CategoryID,
		CategoryName: input.CategoryName,
	})
	if err != nil {
		return nil, err
	}

	if input.Tags != "" {
		wanted := strings.Split(input.Tags, ",")
		filtered := prompts[:0]
		for _, p := range prompts {
			for _, tag := range wanted {
				if p.HasTag(strings.TrimSpace(tag)) {
					filtered = append(filtered, p)
					break
				}
			}
		}
		prompts = filtered
	}

	resp := ExportResponse{
		ExportedAt: time.Now(),
		Total:      len(prompts),
		Prompts:    make([]ExportedPrompt, len(prompts)),
	}
	for i, p := range prompts {
		exported := ExportedPrompt{
			ID:             p.ID,
			Title:          p.Title,
			Content:        p.Content,
			Description:    p.Description,
			CategoryID:     p.CategoryID,
			Category:       p.CategoryPath,
			Tags:           p.Tags,
			UsageCount:     p.UsageCount,
			CurrentVersion: p.CurrentVersion,
			CreatedAt:      p.CreatedAt,
			UpdatedAt:      p.UpdatedAt,
		}
		if exported.Tags == nil {
			exported.Tags = []string{}
		}
		for _, v := range p.Versions {
			exported.Versions = append(exported.Versions, toVersionResponse(v))
		}
		resp.Prompts[i] = exported
	}

	return &ExportOutput{Body: resp}, nil
}

func (s *Server) handleImportPrompts(ctx context.Context, input *ImportInput) (*ImportOutput, error) {
	prompts := make([]*domain.Prompt, len(input.Body.Prompts))
	for i, e := range input.Body.Prompts {
		p := &domain.Prompt{
			Entity: domain.Entity{
				ID:        e.ID,
				CreatedAt: e.CreatedAt,
				UpdatedAt: e.UpdatedAt,
			},
			Title:          e.Title,
			Content:        e.Content,
			Description:    e.Description,
			CategoryID:     e.CategoryID,
			Tags:           e.Tags,
			UsageCount:     e.UsageCount,
			CurrentVersion: e.CurrentVersion,
		}
		if p.ID == "" {
			p.ID = id.MustGenerate("prompt")
		}
		if p.CreatedAt.IsZero() {
			p.InitTimestamps()
		}
		for _, v := range e.Versions {
			p.Versions = append(p.Versions, &domain.PromptVersion{
				Version:     v.Version,
				Title:       v.Title,
				Content:     v.Content,
				Description: v.Description,
				ChangeNote:  v.ChangeNote,
				CreatedAt:   v.CreatedAt,
			})
		}
		prompts[i] = p
	}

	stats := s.services.Backup.ImportPrompts(ctx, prompts)

	out := &ImportOutput{}
	out.Body.Created = stats.Created
	out.Body.Updated = stats.Updated
	out.Body.Failed = stats.Failed
	return out, nil
}
