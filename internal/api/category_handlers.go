package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/prompthubapp/prompthub-server/internal/domain"
	"github.com/prompthubapp/prompthub-server/internal/service"
)

func (s *Server) registerCategoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List categories",
		Description: "Returns all categories as a flat list ordered by level then name",
		Tags:        []string{"Categories"},
	}, s.handleListCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCategoryTree",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories/tree",
		Summary:     "Get category tree",
		Description: "Returns the categories assembled into a forest",
		Tags:        []string{"Categories"},
	}, s.handleGetCategoryTree)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createCategory",
		Method:        http.MethodPost,
		Path:          "/api/v1/categories",
		Summary:       "Create category",
		Description:   "Creates a category under the requested parent, up to five levels deep",
		Tags:          []string{"Categories"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCategory",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories/{id}",
		Summary:     "Get category",
		Description: "Returns a category by ID",
		Tags:        []string{"Categories"},
	}, s.handleGetCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCategory",
		Method:      http.MethodPatch,
		Path:        "/api/v1/categories/{id}",
		Summary:     "Update category",
		Description: "Partially updates a category, including re-parenting",
		Tags:        []string{"Categories"},
	}, s.handleUpdateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "previewDeleteCategory",
		Method:      http.MethodDelete,
		Path:        "/api/v1/categories/{id}",
		Summary:     "Preview category deletion",
		Description: "Reports what deleting the category would affect, without deleting. Confirm with the force variant.",
		Tags:        []string{"Categories"},
	}, s.handlePreviewDeleteCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "forceDeleteCategory",
		Method:      http.MethodDelete,
		Path:        "/api/v1/categories/{id}/force",
		Summary:     "Force delete category",
		Description: "Deletes a category subtree, moving its prompts to the fallback category",
		Tags:        []string{"Categories"},
	}, s.handleForceDeleteCategory)
}

// === DTOs ===

// CategoryResponse contains category data in API responses.
type CategoryResponse struct {
	ID          string    `json:"id" doc:"Category ID"`
	Name        string    `json:"name" doc:"Category name"`
	Color       string    `json:"color" doc:"Display color"`
	Description string    `json:"description,omitempty" doc:"Category description"`
	ParentID    string    `json:"parent_id,omitempty" doc:"Parent category ID, empty for roots"`
	Level       int       `json:"level" doc:"Depth in the tree, roots are level 1"`
	Path        string    `json:"path" doc:"Materialized name path from the root"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

// CategoryTreeNode is a category with its children nested.
type CategoryTreeNode struct {
	CategoryResponse
	Children []CategoryTreeNode `json:"children" doc:"Child categories"`
}

func toCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Color:       c.Color,
		Description: c.Description,
		ParentID:    c.ParentID,
		Level:       c.Level,
		Path:        c.Path,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCategoryTree(nodes []*domain.CategoryNode) []CategoryTreeNode {
	resp := make([]CategoryTreeNode, len(nodes))
	for i, n := range nodes {
		resp[i] = CategoryTreeNode{
			CategoryResponse: toCategoryResponse(n.Category),
			Children:         toCategoryTree(n.Children),
		}
	}
	return resp
}

// ListCategoriesResponse contains a flat category list.
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories" doc:"List of categories"`
}

// ListCategoriesOutput wraps the category list for Huma.
type ListCategoriesOutput struct {
	Body ListCategoriesResponse
}

// CategoryTreeResponse contains the category forest.
type CategoryTreeResponse struct {
	Tree []CategoryTreeNode `json:"tree" doc:"Root categories with nested children"`
}

// CategoryTreeOutput wraps the category tree for Huma.
type CategoryTreeOutput struct {
	Body CategoryTreeResponse
}

// CreateCategoryRequest is the request body for creating a category.
type CreateCategoryRequest struct {
	Name        string `json:"name" doc:"Category name"`
	Color       string `json:"color,omitempty" doc:"Display color, hex"`
	Description string `json:"description,omitempty" doc:"Category description"`
	ParentID    string `json:"parent_id,omitempty" doc:"Parent category ID, empty for a root"`
}

// CreateCategoryInput wraps the create category request for Huma.
type CreateCategoryInput struct {
	Body CreateCategoryRequest
}

// CategoryOutput wraps a single category response for Huma.
type CategoryOutput struct {
	Body CategoryResponse
}

// GetCategoryInput contains parameters for getting a category.
type GetCategoryInput struct {
	ID string `path:"id" doc:"Category ID"`
}

// UpdateCategoryRequest is the request body for updating a category.
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" doc:"Category name"`
	Color       *string `json:"color,omitempty" doc:"Display color, hex"`
	Description *string `json:"description,omitempty" doc:"Category description"`
	ParentID    *string `json:"parent_id,omitempty" doc:"New parent ID; empty string moves to the root"`
}

// UpdateCategoryInput wraps the update category request for Huma.
type UpdateCategoryInput struct {
	ID   string `path:"id" doc:"Category ID"`
	Body UpdateCategoryRequest
}

// CategoryImpactResponse reports the blast radius of a category deletion.
type CategoryImpactResponse struct {
	CategoryName         string   `json:"category_name" doc:"Name of the category"`
	ChildCategoriesCount int      `json:"child_categories_count" doc:"Number of direct children"`
	AffectedPromptsCount int      `json:"affected_prompts_count" doc:"Prompts that would be reassigned"`
	ChildCategories      []string `json:"child_categories" doc:"Names of direct children"`
}

// CategoryImpactOutput wraps the impact response for Huma.
type CategoryImpactOutput struct {
	Body CategoryImpactResponse
}

// ForceDeleteOutput wraps the force-delete result for Huma.
type ForceDeleteOutput struct {
	Body struct {
		DeletedCategoriesCount int `json:"deleted_categories_count" doc:"Categories removed, subtree included"`
		AffectedPromptsCount   int `json:"affected_prompts_count" doc:"Prompts moved to the fallback category"`
	}
}

// === Handlers ===

func (s *Server) handleListCategories(ctx context.Context, _ *struct{}) (*ListCategoriesOutput, error) {
	categories, err := s.services.Categories.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = toCategoryResponse(c)
	}

	return &ListCategoriesOutput{Body: ListCategoriesResponse{Categories: resp}}, nil
}

func (s *Server) handleGetCategoryTree(ctx context.Context, _ *struct{}) (*CategoryTreeOutput, error) {
	tree, err := s.services.Categories.GetCategoryTree(ctx)
	if err != nil {
		return nil, err
	}

	return &CategoryTreeOutput{Body: CategoryTreeResponse{Tree: toCategoryTree(tree)}}, nil
}

func (s *Server) handleCreateCategory(ctx context.Context, input *CreateCategoryInput) (*CategoryOutput, error) {
	c, err := s.services.Categories.CreateCategory(ctx, service.CreateCategoryRequest{
		Name:        input.Body.Name,
		Color:       input.Body.Color,
		Description: input.Body.Description,
		ParentID:    input.Body.ParentID,
	})
	if err != nil {
		return nil, err
	}

	return &CategoryOutput{Body: toCategoryResponse(c)}, nil
}

func (s *Server) handleGetCategory(ctx context.Context, input *GetCategoryInput) (*CategoryOutput, error) {
	c, err := s.services.Categories.GetCategory(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &CategoryOutput{Body: toCategoryResponse(c)}, nil
}

func (s *Server) handleUpdateCategory(ctx context.Context, input *UpdateCategoryInput) (*CategoryOutput, error) {
	c, err := s.services.Categories.UpdateCategory(ctx, input.ID, service.UpdateCategoryRequest{
		Name:        input.Body.Name,
		Color:       input.Body.Color,
		Description: input.Body.Description,
		ParentID:    input.Body.ParentID,
	})
	if err != nil {
		return nil, err
	}

	return &CategoryOutput{Body: toCategoryResponse(c)}, nil
}

func (s *Server) handlePreviewDeleteCategory(ctx context.Context, input *GetCategoryInput) (*CategoryImpactOutput, error) {
	impact, err := s.services.Categories.PreviewDeleteCategory(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &CategoryImpactOutput{Body: CategoryImpactResponse{
		CategoryName:         impact.CategoryName,
		ChildCategoriesCount: impact.ChildCategoriesCount,
		AffectedPromptsCount: impact.AffectedPromptsCount,
		ChildCategories:      impact.ChildCategories,
	}}, nil
}

func (s *Server) handleForceDeleteCategory(ctx context.Context, input *GetCategoryInput) (*ForceDeleteOutput, error) {
	result, err := s.services.Categories.ForceDeleteCategory(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	out := &ForceDeleteOutput{}
	out.Body.DeletedCategoriesCount = result.DeletedCategoriesCount
	out.Body.AffectedPromptsCount = result.AffectedPromptsCount
	return out, nil
}
