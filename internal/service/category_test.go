package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prompthubapp/prompthub-server/internal/domain"
	domainerrors "github.com/prompthubapp/prompthub-server/internal/errors"
	"github.com/prompthubapp/prompthub-server/internal/store/sqlite"
)

func setupTestCategories(t *testing.T) *CategoryService {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	testStore, err := sqlite.Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { testStore.Close() })

	return NewCategoryService(testStore, logger)
}

func TestCreateCategory_PathAndLevel(t *testing.T) {
	svc := setupTestCategories(t)
	ctx := context.Background()

	root, err := svc.CreateCategory(ctx, CreateCategoryRequest{Name: "Prompting"})
	require.NoError(t, err)
	assert.Equal(t, 1, root.Level)
	assert.Equal(t, "Prompting", root.Path)
	assert.Equal(t, domain.DefaultCategoryColor, root.Color)

	child, err := svc.CreateCategory(ctx, CreateCategoryRequest{
		Name:     "Few-shot",
		Color:    "#FF0000",
		ParentID: root.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, child.Level)
	assert.Equal(t, "Prompting/Few-shot", child.Path)
	assert.Equal(t, "#FF0000", child.Color)
}

func TestCreateCategory_Validation(t *testing.T) {
	svc := setupTestCategories(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, CreateCategoryRequest{Name: ""})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.CreateCategory(ctx, CreateCategoryRequest{Name: "Bad color", Color: "red"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestCreateCategory_MaxDepth(t *testing.T) {
	svc := setupTestCategories(t)
	ctx := context.Background()

	parentID := ""
	for i := range domain.MaxCategoryLevel {
		c, err := svc.CreateCategory(ctx, CreateCategoryRequest{
			Name:     string(rune('A' + i)),
			ParentID: parentID,
		})
		require.NoError(t, err)
		parentID = c.ID
	}

	_, err := svc.CreateCategory(ctx, CreateCategoryRequest{Name: "Too deep", ParentID: parentID})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestUpdateCategory_ReparentCycle(t *testing.T) {
	svc := setupTestCategories(t)
	ctx := context.Background()

	root, err := svc.CreateCategory(ctx, CreateCategoryRequest{Name: "A"})
	require.NoError(t, err)
	child, err := svc.CreateCategory(ctx, CreateCategoryRequest{Name: "B", ParentID: root.ID})
	require.NoError(t, err)

	_, err = svc.UpdateCategory(ctx, root.ID, UpdateCategoryRequest{ParentID: &child.ID})
	assert.ErrorIs(t, err, domainerrors.ErrCycle)
}

func TestGetCategoryTree(t *testing.T) {
	svc := setupTestCategories(t)
	ctx := context.Background()

	root, err := svc.CreateCategory(ctx, CreateCategoryRequest{Name: "A"})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, CreateCategoryRequest{Name: "B", ParentID: root.ID})
	require.NoError(t, err)

	tree, err := svc.GetCategoryTree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "A", tree[0].Name)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "B", tree[0].Children[0].Name)
}

func TestSeedDefaults(t *testing.T) {
	svc := setupTestCategories(t)
	ctx := context.Background()

	require.NoError(t, svc.SeedDefaults(ctx))
	// A second run must not duplicate anything.
	require.NoError(t, svc.SeedDefaults(ctx))

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 7)
}
