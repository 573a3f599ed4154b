package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) createCategory(t *testing.T, body map[string]any) CategoryResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/categories", body)
	require.Equal(t, http.StatusCreated, resp.Code, "create failed: %s", resp.Body.String())

	var c CategoryResponse
	decode(t, resp.Body.Bytes(), &c)
	return c
}

func TestCategoryHandlers(t *testing.T) {
	ts := newTestServer(t)

	root := ts.createCategory(t, map[string]any{
		"name":  "MyProg",
		"color": "#112233",
	})
	assert.Equal(t, 1, root.Level)
	assert.Equal(t, "MyProg", root.Path)

	child := ts.createCategory(t, map[string]any{
		"name":      "Python",
		"parent_id": root.ID,
	})
	assert.Equal(t, 2, child.Level)
	assert.Equal(t, "MyProg/Python", child.Path)

	// Unknown parent.
	resp := ts.api.Post("/api/v1/categories", map[string]any{
		"name":      "Orphan",
		"parent_id": "cat-missing",
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// Rename the root; the child's path follows.
	resp = ts.api.Patch("/api/v1/categories/"+root.ID, map[string]any{
		"name": "Dev",
	})
	require.Equal(t, http.StatusOK, resp.Code, "body: %s", resp.Body.String())

	resp = ts.api.Get("/api/v1/categories/" + child.ID)
	require.Equal(t, http.StatusOK, resp.Code)

	var got CategoryResponse
	decode(t, resp.Body.Bytes(), &got)
	assert.Equal(t, "Dev/Python", got.Path)
}

func TestCategoryTreeHandler(t *testing.T) {
	ts := newTestServer(t)

	root := ts.createCategory(t, map[string]any{"name": "ZRoot"})
	ts.createCategory(t, map[string]any{"name": "Leaf", "parent_id": root.ID})

	resp := ts.api.Get("/api/v1/categories/tree")
	require.Equal(t, http.StatusOK, resp.Code)

	var body CategoryTreeResponse
	decode(t, resp.Body.Bytes(), &body)

	// Seven seeded roots plus the new one.
	require.Len(t, body.Tree, 8)

	var found *CategoryTreeNode
	for i := range body.Tree {
		if body.Tree[i].Name == "ZRoot" {
			found = &body.Tree[i]
		}
	}
	require.NotNil(t, found)
	require.Len(t, found.Children, 1)
	assert.Equal(t, "Leaf", found.Children[0].Name)
}

func TestCategoryCycleHandler(t *testing.T) {
	ts := newTestServer(t)

	a := ts.createCategory(t, map[string]any{"name": "A"})
	b := ts.createCategory(t, map[string]any{"name": "B", "parent_id": a.ID})

	resp := ts.api.Patch("/api/v1/categories/"+a.ID, map[string]any{
		"parent_id": b.ID,
	})
	assert.Equal(t, http.StatusConflict, resp.Code, "body: %s", resp.Body.String())
}

func TestCategoryDeletePreviewAndForceHandler(t *testing.T) {
	ts := newTestServer(t)

	root := ts.createCategory(t, map[string]any{"name": "Doomed"})
	ts.createCategory(t, map[string]any{"name": "DoomedChild", "parent_id": root.ID})

	p := ts.createPrompt(t, map[string]any{
		"title":       "Filed",
		"content":     "content",
		"category_id": root.ID,
	})

	resp := ts.api.Delete("/api/v1/categories/" + root.ID)
	require.Equal(t, http.StatusOK, resp.Code)

	var impact CategoryImpactResponse
	decode(t, resp.Body.Bytes(), &impact)
	assert.Equal(t, "Doomed", impact.CategoryName)
	assert.Equal(t, 1, impact.ChildCategoriesCount)
	assert.Equal(t, 1, impact.AffectedPromptsCount)

	resp = ts.api.Delete("/api/v1/categories/" + root.ID + "/force")
	require.Equal(t, http.StatusOK, resp.Code)

	var result ForceDeleteOutput
	decode(t, resp.Body.Bytes(), &result.Body)
	assert.Equal(t, 2, result.Body.DeletedCategoriesCount)
	assert.Equal(t, 1, result.Body.AffectedPromptsCount)

	// The prompt survived in the fallback category.
	resp = ts.api.Get("/api/v1/prompts/" + p.ID)
	require.Equal(t, http.StatusOK, resp.Code)

	var moved PromptResponse
	decode(t, resp.Body.Bytes(), &moved)
	assert.Equal(t, "Other", moved.CategoryName)
}

func TestTagHandlers(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Post("/api/v1/tags", map[string]any{
		"name":  "python",
		"color": "#FF0000",
	})
	require.Equal(t, http.StatusCreated, resp.Code, "body: %s", resp.Body.String())

	var tag TagResponse
	decode(t, resp.Body.Bytes(), &tag)
	assert.Equal(t, "python", tag.Name)

	other := ts.api.Post("/api/v1/tags", map[string]any{"name": "golang"})
	require.Equal(t, http.StatusCreated, other.Code)
	var otherTag TagResponse
	decode(t, other.Body.Bytes(), &otherTag)

	// Rename collision with the unique registry.
	resp = ts.api.Patch("/api/v1/tags/"+otherTag.ID, map[string]any{
		"name": "python",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// Delete reports affected prompts.
	ts.createPrompt(t, map[string]any{
		"title":   "Tagged",
		"content": "content",
		"tags":    []string{"python"},
	})

	resp = ts.api.Delete("/api/v1/tags/" + tag.ID)
	require.Equal(t, http.StatusOK, resp.Code)

	var out DeleteTagOutput
	decode(t, resp.Body.Bytes(), &out.Body)
	assert.True(t, out.Body.Deleted)
	assert.Equal(t, 1, out.Body.AffectedPrompts)
}
