package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) createPrompt(t *testing.T, body map[string]any) PromptResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/prompts", body)
	require.Equal(t, http.StatusCreated, resp.Code, "create failed: %s", resp.Body.String())

	var p PromptResponse
	decode(t, resp.Body.Bytes(), &p)
	return p
}

func TestCreateAndGetPromptHandler(t *testing.T) {
	ts := newTestServer(t)

	created := ts.createPrompt(t, map[string]any{
		"title":       "Code reviewer",
		"content":     "Review this diff carefully",
		"description": "Strict review persona",
		"tags":        []string{"code", "review"},
	})
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "1.0", created.CurrentVersion)
	assert.Equal(t, "Other", created.CategoryName)
	assert.ElementsMatch(t, []string{"code", "review"}, created.Tags)
	require.Len(t, created.Versions, 1)
	assert.Equal(t, "initial version", created.Versions[0].ChangeNote)

	resp := ts.api.Get("/api/v1/prompts/" + created.ID)
	require.Equal(t, http.StatusOK, resp.Code)

	var got PromptResponse
	decode(t, resp.Body.Bytes(), &got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Code reviewer", got.Title)
}

func TestGetPromptNotFoundHandler(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Get("/api/v1/prompts/prompt-missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCreatePromptValidation(t *testing.T) {
	ts := newTestServer(t)

	// Missing title and content.
	resp := ts.api.Post("/api/v1/prompts", map[string]any{
		"description": "no title or content",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code, "body: %s", resp.Body.String())
}

func TestUpdatePromptHandler(t *testing.T) {
	ts := newTestServer(t)

	created := ts.createPrompt(t, map[string]any{
		"title":   "Original",
		"content": "original content",
	})

	resp := ts.api.Patch("/api/v1/prompts/"+created.ID, map[string]any{
		"title": "Renamed",
	})
	require.Equal(t, http.StatusOK, resp.Code, "body: %s", resp.Body.String())

	var updated PromptResponse
	decode(t, resp.Body.Bytes(), &updated)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "original content", updated.Content)
	// No new version for a direct edit.
	assert.Len(t, updated.Versions, 1)
}

func TestDeletePromptHandler(t *testing.T) {
	ts := newTestServer(t)

	created := ts.createPrompt(t, map[string]any{
		"title":   "Doomed",
		"content": "content",
	})

	resp := ts.api.Delete("/api/v1/prompts/" + created.ID)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/prompts/" + created.ID)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Delete("/api/v1/prompts/" + created.ID)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUsePromptHandler(t *testing.T) {
	ts := newTestServer(t)

	created := ts.createPrompt(t, map[string]any{
		"title":   "Popular",
		"content": "content",
	})

	resp := ts.api.Post("/api/v1/prompts/" + created.ID + "/use")
	require.Equal(t, http.StatusOK, resp.Code)

	var used PromptResponse
	decode(t, resp.Body.Bytes(), &used)
	assert.Equal(t, 1, used.UsageCount)
}

func TestListPromptsHandler(t *testing.T) {
	ts := newTestServer(t)

	ts.createPrompt(t, map[string]any{"title": "One", "content": "first"})
	ts.createPrompt(t, map[string]any{"title": "Two", "content": "second"})

	resp := ts.api.Get("/api/v1/prompts")
	require.Equal(t, http.StatusOK, resp.Code)

	var body ListPromptsResponse
	decode(t, resp.Body.Bytes(), &body)
	assert.Equal(t, 2, body.Total)
	assert.Len(t, body.Prompts, 2)
}

func TestSearchHandler(t *testing.T) {
	ts := newTestServer(t)

	ts.createPrompt(t, map[string]any{"title": "Python debugging", "content": "explain the traceback"})
	ts.createPrompt(t, map[string]any{"title": "Recipe", "content": "pasta carbonara"})

	resp := ts.api.Get("/api/v1/search?q=python")
	require.Equal(t, http.StatusOK, resp.Code)

	var body SearchResponse
	decode(t, resp.Body.Bytes(), &body)
	require.Equal(t, 1, body.Total)
	assert.Equal(t, "Python debugging", body.Prompts[0].Title)

	resp = ts.api.Get("/api/v1/search?q=nothing-matches")
	require.Equal(t, http.StatusOK, resp.Code)
	decode(t, resp.Body.Bytes(), &body)
	assert.Equal(t, 0, body.Total)
}

func TestVersionHandlers(t *testing.T) {
	ts := newTestServer(t)

	created := ts.createPrompt(t, map[string]any{
		"title":   "Draft",
		"content": "first pass",
	})

	// Snapshot a new version.
	resp := ts.api.Post("/api/v1/prompts/"+created.ID+"/versions", map[string]any{
		"version":     "2.0",
		"title":       "Draft",
		"content":     "second pass",
		"change_note": "tightened wording",
	})
	require.Equal(t, http.StatusCreated, resp.Code, "body: %s", resp.Body.String())

	var p PromptResponse
	decode(t, resp.Body.Bytes(), &p)
	assert.Equal(t, "2.0", p.CurrentVersion)
	assert.Equal(t, "second pass", p.Content)
	assert.Len(t, p.Versions, 2)

	// Duplicate label is rejected.
	resp = ts.api.Post("/api/v1/prompts/"+created.ID+"/versions", map[string]any{
		"version": "2.0",
		"title":   "Draft",
		"content": "again",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// List history.
	resp = ts.api.Get("/api/v1/prompts/" + created.ID + "/versions")
	require.Equal(t, http.StatusOK, resp.Code)

	var history ListVersionsResponse
	decode(t, resp.Body.Bytes(), &history)
	assert.Equal(t, "2.0", history.CurrentVersion)
	assert.Len(t, history.Versions, 2)

	// Roll back.
	resp = ts.api.Post("/api/v1/prompts/" + created.ID + "/versions/1.0/activate")
	require.Equal(t, http.StatusOK, resp.Code)
	decode(t, resp.Body.Bytes(), &p)
	assert.Equal(t, "1.0", p.CurrentVersion)
	assert.Equal(t, "first pass", p.Content)

	// Active version cannot be deleted.
	resp = ts.api.Delete("/api/v1/prompts/" + created.ID + "/versions/1.0")
	assert.Equal(t, http.StatusConflict, resp.Code)

	// Inactive one can.
	resp = ts.api.Delete("/api/v1/prompts/" + created.ID + "/versions/2.0")
	require.Equal(t, http.StatusOK, resp.Code)

	// Sole survivor is protected.
	resp = ts.api.Delete("/api/v1/prompts/" + created.ID + "/versions/1.0")
	assert.Equal(t, http.StatusConflict, resp.Code)
}
