package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prompthubapp/prompthub-server/internal/domain"
	apperrors "github.com/prompthubapp/prompthub-server/internal/errors"
	"github.com/prompthubapp/prompthub-server/internal/id"
	"github.com/prompthubapp/prompthub-server/internal/store"
)

// categoryColumns is the ordered list of columns selected in category queries.
// Must match the scan order in scanCategory.
const categoryColumns = `id, name, color, description, parent_id, level, path, created_at, updated_at`

// scanCategory scans a sql.Row (or sql.Rows via its Scan method) into a domain.Category.
func scanCategory(scanner interface{ Scan(dest ...any) error }) (*domain.Category, error) {
	var c domain.Category

	var (
		parentID  sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&c.ID,
		&c.Name,
		&c.Color,
		&c.Description,
		&parentID,
		&c.Level,
		&c.Path,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.ParentID = stringOrEmpty(parentID)

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// GetCategory retrieves a category by ID.
// Returns store.ErrNotFound if the category does not exist.
func (s *Store) GetCategory(ctx context.Context, categoryID string) (*domain.Category, error) {
	return getCategory(ctx, s.db, categoryID)
}

func getCategory(ctx context.Context, q querier, categoryID string) (*domain.Category, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, categoryID)

	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound.WithMessage("category not found")
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCategories returns all categories ordered by (level, name).
// There is no sibling ordering field; this is the canonical listing order.
func (s *Store) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return listCategories(ctx, s.db)
}

func listCategories(ctx context.Context, q querier) ([]*domain.Category, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY level ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if categories == nil {
		categories = []*domain.Category{}
	}

	return categories, nil
}

// CreateCategory inserts a new category with level and path computed from
// its parent, then recomputes the materialized paths for the whole forest
// in the same transaction.
func (s *Store) CreateCategory(ctx context.Context, c *domain.Category) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	c.Level = 1
	if c.ParentID != "" {
		parent, err := getCategory(ctx, tx, c.ParentID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return store.ErrNotFound.WithMessage("parent category not found")
			}
			return err
		}
		c.Level = parent.Level + 1
		if c.Level > domain.MaxCategoryLevel {
			return apperrors.Validationf("category depth cannot exceed %d levels", domain.MaxCategoryLevel)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO categories (id, name, color, description, parent_id, level, path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.Name,
		c.Color,
		c.Description,
		nullString(c.ParentID),
		c.Level,
		"", // recomputed below
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	if err != nil {
		return err
	}

	changed, err := recomputeTree(ctx, tx)
	if err != nil {
		return err
	}
	for _, cat := range changed {
		if cat.ID == c.ID {
			c.Path = cat.Path
		}
	}

	touchLastUpdated(ctx, tx)
	return tx.Commit()
}

// UpdateCategory applies a partial update and restores every tree invariant
// before committing: cycle check on re-parent, transitive level/path
// recompute for the whole forest, and denormalized category fields rewritten
// on every prompt under a category whose path changed.
func (s *Store) UpdateCategory(ctx context.Context, categoryID string, upd store.CategoryUpdate) (*domain.Category, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	categories, err := listCategories(ctx, tx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	target, ok := byID[categoryID]
	if !ok {
		return nil, store.ErrNotFound.WithMessage("category not found")
	}

	oldName := target.Name
	oldPath := target.Path

	if upd.ParentID != nil {
		newParentID := *upd.ParentID
		if newParentID != "" {
			// Symmetric cycle check: the new parent must not be the category
			// itself or anywhere in its descendant closure.
			if newParentID == categoryID {
				return nil, apperrors.Cycle("cannot make a category its own parent")
			}
			for _, descID := range descendantIDs(categories, categoryID) {
				if descID == newParentID {
					return nil, apperrors.Cycle("cannot move a category under its own descendant")
				}
			}
			if _, ok := byID[newParentID]; !ok {
				return nil, store.ErrNotFound.WithMessage("parent category not found")
			}
		}
		target.ParentID = newParentID
	}

	if upd.Name != nil {
		target.Name = *upd.Name
	}
	if upd.Color != nil {
		target.Color = *upd.Color
	}
	if upd.Description != nil {
		target.Description = *upd.Description
	}
	target.UpdatedAt = time.Now()

	_, err = tx.ExecContext(ctx, `
		UPDATE categories
		SET name = ?, color = ?, description = ?, parent_id = ?, updated_at = ?
		WHERE id = ?`,
		target.Name,
		target.Color,
		target.Description,
		nullString(target.ParentID),
		formatTime(target.UpdatedAt),
		categoryID,
	)
	if err != nil {
		return nil, err
	}

	changed, err := recomputeTree(ctx, tx)
	if err != nil {
		return nil, err
	}
	for _, cat := range changed {
		if cat.ID == categoryID {
			target.Level = cat.Level
			target.Path = cat.Path
		}
	}

	// Resync the denormalized copies on prompts under every category whose
	// path changed, not just the edited one: renaming a root must show up on
	// prompts filed under its grandchildren.
	now := formatTime(time.Now())
	for _, cat := range changed {
		_, err := tx.ExecContext(ctx, `
			UPDATE prompts
			SET category_name = ?, category_path = ?, updated_at = ?
			WHERE category_id = ?`,
			cat.Name, cat.Path, now, cat.ID)
		if err != nil {
			return nil, fmt.Errorf("resync prompts for category %s: %w", cat.ID, err)
		}
	}

	// Legacy records reference categories by name only, so they are missed by
	// the id-keyed resync above. Any path change must reach them, a pure
	// re-parent included.
	if target.Path != oldPath {
		_, err := tx.ExecContext(ctx, `
			UPDATE prompts
			SET category_name = ?, category_path = ?, updated_at = ?
			WHERE category_id IS NULL AND category_name = ?`,
			target.Name, target.Path, now, oldName)
		if err != nil {
			return nil, fmt.Errorf("resync legacy prompts: %w", err)
		}
	}

	touchLastUpdated(ctx, tx)
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return target, nil
}

// DeleteCategoryPreview returns the impact of deleting a category without
// deleting anything. Deletion always requires explicit confirmation via
// ForceDeleteCategory.
func (s *Store) DeleteCategoryPreview(ctx context.Context, categoryID string) (*domain.CategoryImpact, error) {
	c, err := getCategory(ctx, s.db, categoryID)
	if err != nil {
		return nil, err
	}

	impact := &domain.CategoryImpact{
		CategoryName:    c.Name,
		ChildCategories: []string{},
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM categories WHERE parent_id = ? ORDER BY name ASC`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		impact.ChildCategories = append(impact.ChildCategories, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	impact.ChildCategoriesCount = len(impact.ChildCategories)

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM prompts
		WHERE category_id = ? OR category_name = ?`,
		categoryID, c.Name).Scan(&impact.AffectedPromptsCount)
	if err != nil {
		return nil, err
	}

	return impact, nil
}

// ForceDeleteCategory removes a category and its entire subtree, reassigning
// every prompt that pointed into the subtree to the fallback category, all
// in one transaction.
func (s *Store) ForceDeleteCategory(ctx context.Context, categoryID string) (*store.ForceDeleteResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	categories, err := listCategories(ctx, tx)
	if err != nil {
		return nil, err
	}

	var target *domain.Category
	for _, c := range categories {
		if c.ID == categoryID {
			target = c
			break
		}
	}
	if target == nil {
		return nil, store.ErrNotFound.WithMessage("category not found")
	}

	toDelete := append([]string{categoryID}, descendantIDs(categories, categoryID)...)
	doomed := make(map[string]bool, len(toDelete))
	for _, delID := range toDelete {
		doomed[delID] = true
	}

	// The fallback category absorbs orphaned prompts. If it is missing or is
	// itself being deleted, prompts are detached instead but keep the
	// fallback display name.
	var fallback *domain.Category
	for _, c := range categories {
		if c.Name == domain.FallbackCategoryName && !doomed[c.ID] {
			fallback = c
			break
		}
	}

	now := formatTime(time.Now())
	args := make([]any, 0, len(toDelete)+5)

	var reassignSQL string
	if fallback != nil {
		reassignSQL = `
			UPDATE prompts
			SET category_id = ?, category_name = ?, category_path = ?, updated_at = ?
			WHERE category_id IN (` + placeholders(len(toDelete)) + `) OR category_name = ?`
		args = append(args, fallback.ID, fallback.Name, fallback.Path, now)
	} else {
		reassignSQL = `
			UPDATE prompts
			SET category_id = NULL, category_name = ?, category_path = ?, updated_at = ?
			WHERE category_id IN (` + placeholders(len(toDelete)) + `) OR category_name = ?`
		args = append(args, domain.FallbackCategoryName, domain.FallbackCategoryName, now)
	}
	for _, delID := range toDelete {
		args = append(args, delID)
	}
	args = append(args, target.Name)

	res, err := tx.ExecContext(ctx, reassignSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("reassign prompts: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}

	delArgs := make([]any, len(toDelete))
	for i, delID := range toDelete {
		delArgs[i] = delID
	}
	res, err = tx.ExecContext(ctx,
		`DELETE FROM categories WHERE id IN (`+placeholders(len(toDelete))+`)`, delArgs...)
	if err != nil {
		return nil, fmt.Errorf("delete categories: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}

	touchLastUpdated(ctx, tx)
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &store.ForceDeleteResult{
		DeletedCategoriesCount: int(deleted),
		AffectedPromptsCount:   int(affected),
	}, nil
}

// GetCategoryDescendants returns the transitive closure of a category's
// children. Returns store.ErrNotFound if the category does not exist.
func (s *Store) GetCategoryDescendants(ctx context.Context, categoryID string) ([]string, error) {
	categories, err := listCategories(ctx, s.db)
	if err != nil {
		return nil, err
	}

	found := false
	for _, c := range categories {
		if c.ID == categoryID {
			found = true
			break
		}
	}
	if !found {
		return nil, store.ErrNotFound.WithMessage("category not found")
	}

	return descendantIDs(categories, categoryID), nil
}

// defaultCategories are seeded into an empty database and after a data wipe.
// "Other" is the designated fallback category.
var defaultCategories = []struct {
	name        string
	color       string
	description string
}{
	{"Programming", "#3B82F6", "Programming and code prompts"},
	{"Writing", "#10B981", "Writing and editing prompts"},
	{"Analysis", "#F59E0B", "Analysis and research prompts"},
	{"Creative", "#8B5CF6", "Creative and brainstorming prompts"},
	{"Business", "#EF4444", "Business and productivity prompts"},
	{"Education", "#06B6D4", "Teaching and learning prompts"},
	{domain.FallbackCategoryName, "#6B7280", "Everything else"},
}

// SeedDefaultCategories creates the default root categories if the category
// table is empty. Safe to call on every startup.
func (s *Store) SeedDefaultCategories(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if err := seedDefaultCategoriesTx(ctx, tx); err != nil {
		return err
	}

	return tx.Commit()
}

func seedDefaultCategoriesTx(ctx context.Context, tx *sql.Tx) error {
	now := formatTime(time.Now().UTC())
	for _, dc := range defaultCategories {
		categoryID, err := id.Generate("cat")
		if err != nil {
			return fmt.Errorf("generate category id: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO categories (id, name, color, description, parent_id, level, path, created_at, updated_at)
			VALUES (?, ?, ?, ?, NULL, 1, ?, ?, ?)`,
			categoryID, dc.name, dc.color, dc.description, dc.name, now, now)
		if err != nil {
			return fmt.Errorf("seed category %q: %w", dc.name, err)
		}
	}
	return nil
}

// descendantIDs computes the transitive closure of children over an
// in-memory adjacency snapshot, avoiding per-level point queries.
func descendantIDs(categories []*domain.Category, rootID string) []string {
	children := make(map[string][]string, len(categories))
	for _, c := range categories {
		if c.ParentID != "" {
			children[c.ParentID] = append(children[c.ParentID], c.ID)
		}
	}

	var result []string
	queue := append([]string{}, children[rootID]...)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, current)
		queue = append(queue, children[current]...)
	}
	return result
}

// recomputeTree recalculates level and path for the whole forest from the
// parent pointers and writes back every row that changed, returning the
// changed categories with their new values. Must run inside the transaction
// that modified the tree.
func recomputeTree(ctx context.Context, tx *sql.Tx) ([]*domain.Category, error) {
	categories, err := listCategories(ctx, tx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	type computed struct {
		level int
		path  string
	}
	memo := make(map[string]computed, len(categories))

	var resolve func(c *domain.Category, seen map[string]bool) computed
	resolve = func(c *domain.Category, seen map[string]bool) computed {
		if v, ok := memo[c.ID]; ok {
			return v
		}
		parent, hasParent := byID[c.ParentID]
		// Orphaned or self-referential records are treated as roots so a
		// damaged tree still converges instead of recursing forever.
		if c.ParentID == "" || !hasParent || seen[c.ID] {
			v := computed{level: 1, path: c.Name}
			memo[c.ID] = v
			return v
		}
		seen[c.ID] = true
		pv := resolve(parent, seen)
		v := computed{level: pv.level + 1, path: pv.path + "/" + c.Name}
		memo[c.ID] = v
		return v
	}

	var changed []*domain.Category
	for _, c := range categories {
		v := resolve(c, map[string]bool{})
		if v.level > domain.MaxCategoryLevel {
			return nil, apperrors.Validationf("category depth cannot exceed %d levels", domain.MaxCategoryLevel)
		}
		if c.Level != v.level || c.Path != v.path {
			c.Level = v.level
			c.Path = v.path
			if _, err := tx.ExecContext(ctx,
				`UPDATE categories SET level = ?, path = ? WHERE id = ?`,
				c.Level, c.Path, c.ID); err != nil {
				return nil, fmt.Errorf("update category path %s: %w", c.ID, err)
			}
			changed = append(changed, c)
		}
	}

	return changed, nil
}

// placeholders returns "?, ?, ..." with n markers for IN clauses.
func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
