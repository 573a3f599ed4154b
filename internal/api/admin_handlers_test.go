package api

import (
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRequiresKey(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Post("/api/v1/admin/backup")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Post("/api/v1/admin/backup", "X-Admin-Key: wrong-key")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Post("/api/v1/admin/backup", "X-Admin-Key: "+testAdminKey)
	assert.Equal(t, http.StatusOK, resp.Code, "body: %s", resp.Body.String())
}

func TestAdminBackupHandler(t *testing.T) {
	ts := newTestServer(t)

	ts.createPrompt(t, map[string]any{"title": "Saved", "content": "content"})

	resp := ts.api.Post("/api/v1/admin/backup", "X-Admin-Key: "+testAdminKey)
	require.Equal(t, http.StatusOK, resp.Code)

	var out BackupOutput
	decode(t, resp.Body.Bytes(), &out.Body)
	require.NotEmpty(t, out.Body.Path)

	_, err := os.Stat(out.Body.Path)
	assert.NoError(t, err, "snapshot file should exist")
}

func TestAdminClearDataHandler(t *testing.T) {
	ts := newTestServer(t)

	ts.createPrompt(t, map[string]any{"title": "Wiped", "content": "content"})

	resp := ts.api.Post("/api/v1/admin/clear-data", "X-Admin-Key: "+testAdminKey)
	require.Equal(t, http.StatusOK, resp.Code, "body: %s", resp.Body.String())

	var out ClearDataOutput
	decode(t, resp.Body.Bytes(), &out.Body)
	assert.True(t, out.Body.Cleared)
	assert.NotEmpty(t, out.Body.BackupPath)

	// Library is empty, defaults are back.
	listResp := ts.api.Get("/api/v1/prompts")
	require.Equal(t, http.StatusOK, listResp.Code)

	var list ListPromptsResponse
	decode(t, listResp.Body.Bytes(), &list)
	assert.Equal(t, 0, list.Total)

	catResp := ts.api.Get("/api/v1/categories")
	require.Equal(t, http.StatusOK, catResp.Code)

	var cats ListCategoriesResponse
	decode(t, catResp.Body.Bytes(), &cats)
	assert.Len(t, cats.Categories, 7)
}

func TestStatsHandler(t *testing.T) {
	ts := newTestServer(t)

	p := ts.createPrompt(t, map[string]any{"title": "Used", "content": "content"})
	ts.api.Post("/api/v1/prompts/" + p.ID + "/use")
	ts.api.Post("/api/v1/prompts/" + p.ID + "/use")

	resp := ts.api.Get("/api/v1/stats")
	require.Equal(t, http.StatusOK, resp.Code)

	var stats struct {
		TotalPrompts int `json:"total_prompts"`
		TotalTags    int `json:"total_tags"`
		TotalUsage   int `json:"total_usage"`
		MostUsed     *struct {
			ID string `json:"id"`
		} `json:"most_used"`
	}
	decode(t, resp.Body.Bytes(), &stats)
	assert.Equal(t, 1, stats.TotalPrompts)
	assert.Equal(t, 2, stats.TotalUsage)
	require.NotNil(t, stats.MostUsed)
	assert.Equal(t, p.ID, stats.MostUsed.ID)
}

func TestExportImportHandlers(t *testing.T) {
	ts := newTestServer(t)

	ts.createPrompt(t, map[string]any{
		"title":   "Exported",
		"content": "content",
		"tags":    []string{"export"},
	})

	resp := ts.api.Get("/api/v1/export")
	require.Equal(t, http.StatusOK, resp.Code)

	var exported ExportResponse
	decode(t, resp.Body.Bytes(), &exported)
	require.Equal(t, 1, exported.Total)
	assert.Equal(t, "Other", exported.Prompts[0].Category)

	// Round-trip into a fresh server.
	ts2 := newTestServer(t)
	importResp := ts2.api.Post("/api/v1/import", map[string]any{
		"prompts": exported.Prompts,
	})
	require.Equal(t, http.StatusOK, importResp.Code, "body: %s", importResp.Body.String())

	var out ImportOutput
	decode(t, importResp.Body.Bytes(), &out.Body)
	assert.Equal(t, 1, out.Body.Created)
	assert.Equal(t, 0, out.Body.Failed)

	listResp := ts2.api.Get("/api/v1/prompts")
	var list ListPromptsResponse
	decode(t, listResp.Body.Bytes(), &list)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Exported", list.Prompts[0].Title)
}
