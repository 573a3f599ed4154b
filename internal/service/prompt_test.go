package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/prompthubapp/prompthub-server/internal/errors"
	"github.com/prompthubapp/prompthub-server/internal/store"
	"github.com/prompthubapp/prompthub-server/internal/store/sqlite"
)

func setupTestPrompts(t *testing.T) *PromptService {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	testStore, err := sqlite.Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { testStore.Close() })

	require.NoError(t, testStore.SeedDefaultCategories(context.Background()))

	return NewPromptService(testStore, logger)
}

func TestCreatePrompt(t *testing.T) {
	svc := setupTestPrompts(t)
	ctx := context.Background()

	p, err := svc.CreatePrompt(ctx, CreatePromptRequest{
		Title:   "Code reviewer",
		Content: "Review the following diff.",
		Tags:    []string{"review"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "1.0", p.CurrentVersion)
	assert.Equal(t, "Other", p.CategoryName)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestCreatePrompt_Validation(t *testing.T) {
	svc := setupTestPrompts(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreatePromptRequest
	}{
		{
			name: "missing title",
			req:  CreatePromptRequest{Content: "text"},
		},
		{
			name: "missing content",
			req:  CreatePromptRequest{Title: "Untitled"},
		},
		{
			name: "title too long",
			req:  CreatePromptRequest{Title: string(make([]byte, 201)), Content: "text"},
		},
		{
			name: "empty tag",
			req:  CreatePromptRequest{Title: "Untitled", Content: "text", Tags: []string{""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePrompt(ctx, tt.req)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)
		})
	}
}

func TestUpdatePrompt_PartialFields(t *testing.T) {
	svc := setupTestPrompts(t)
	ctx := context.Background()

	p, err := svc.CreatePrompt(ctx, CreatePromptRequest{
		Title:       "Code reviewer",
		Content:     "Review the following diff.",
		Description: "For pull requests",
	})
	require.NoError(t, err)

	title := "Strict code reviewer"
	updated, err := svc.UpdatePrompt(ctx, p.ID, UpdatePromptRequest{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "Strict code reviewer", updated.Title)
	assert.Equal(t, "Review the following diff.", updated.Content)
	assert.Equal(t, "For pull requests", updated.Description)
	// Direct edits never touch the version history.
	assert.Len(t, updated.Versions, 1)
	assert.Equal(t, "Code reviewer", updated.Versions[0].Title)
}

func TestVersionLifecycle(t *testing.T) {
	svc := setupTestPrompts(t)
	ctx := context.Background()

	p, err := svc.CreatePrompt(ctx, CreatePromptRequest{
		Title:   "Code reviewer",
		Content: "v1 content",
	})
	require.NoError(t, err)

	p, err = svc.CreateVersion(ctx, p.ID, CreateVersionRequest{
		Version:    "2.0",
		Title:      "Code reviewer",
		Content:    "v2 content",
		ChangeNote: "tightened instructions",
	})
	require.NoError(t, err)
	assert.Equal(t, "2.0", p.CurrentVersion)
	assert.Equal(t, "v2 content", p.Content)
	assert.Len(t, p.Versions, 2)

	// Switching back restores the old snapshot.
	p, err = svc.SwitchVersion(ctx, p.ID, "1.0")
	require.NoError(t, err)
	assert.Equal(t, "1.0", p.CurrentVersion)
	assert.Equal(t, "v1 content", p.Content)

	// The active version cannot be removed.
	err = svc.DeleteVersion(ctx, p.ID, "1.0")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOperation)

	require.NoError(t, svc.DeleteVersion(ctx, p.ID, "2.0"))

	// The sole remaining version is protected too.
	err = svc.DeleteVersion(ctx, p.ID, "1.0")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOperation)
}

func TestSearchPrompts_QueryAndScope(t *testing.T) {
	svc := setupTestPrompts(t)
	ctx := context.Background()

	_, err := svc.CreatePrompt(ctx, CreatePromptRequest{
		Title: "Python helper", Content: "Explain python code.",
	})
	require.NoError(t, err)
	_, err = svc.CreatePrompt(ctx, CreatePromptRequest{
		Title: "Meeting summarizer", Content: "Summarize the transcript.",
	})
	require.NoError(t, err)

	results, err := svc.SearchPrompts(ctx, store.SearchFilter{Query: "python"})
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "Python helper", results[0].Title)

	results, err = svc.SearchPrompts(ctx, store.SearchFilter{Query: "nothing matches this"})
	require.NoError(t, err)
	assert.Empty(t, results)
}
