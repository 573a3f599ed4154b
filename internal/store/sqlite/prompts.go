package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/prompthubapp/prompthub-server/internal/domain"
	"github.com/prompthubapp/prompthub-server/internal/store"
)

const promptColumns = `id, title, content, description, category_id, category_name, category_path, usage_count, current_version, created_at, updated_at`

func scanPrompt(scanner interface{ Scan(dest ...any) error }) (*domain.Prompt, error) {
	var p domain.Prompt

	var (
		categoryID sql.NullString
		createdAt  string
		updatedAt  string
	)

	err := scanner.Scan(
		&p.ID,
		&p.Title,
		&p.Content,
		&p.Description,
		&categoryID,
		&p.CategoryName,
		&p.CategoryPath,
		&p.UsageCount,
		&p.CurrentVersion,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.CategoryID = stringOrEmpty(categoryID)

	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// resolveCategory maps a category reference to the denormalized (id, name,
// path) triple stored on the prompt row. An empty ID resolves to the
// fallback category; an unknown ID is an error.
func resolveCategory(ctx context.Context, q querier, categoryID string) (id, name, path string, err error) {
	if categoryID != "" {
		c, err := getCategory(ctx, q, categoryID)
		if err != nil {
			return "", "", "", err
		}
		return c.ID, c.Name, c.Path, nil
	}

	row := q.QueryRowContext(ctx,
		`SELECT id, name, path FROM categories WHERE name = ? AND parent_id IS NULL`,
		domain.FallbackCategoryName)
	err = row.Scan(&id, &name, &path)
	if err == sql.ErrNoRows {
		// No fallback category seeded; the prompt is stored detached but
		// keeps the fallback display name.
		return "", domain.FallbackCategoryName, domain.FallbackCategoryName, nil
	}
	if err != nil {
		return "", "", "", err
	}
	return id, name, path, nil
}

// CreatePrompt inserts a prompt, seeds its initial version, and links its
// tags, all in one transaction. The prompt's CategoryName, CategoryPath,
// CurrentVersion, and Versions fields are populated on return.
func (s *Store) CreatePrompt(ctx context.Context, p *domain.Prompt) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	p.CategoryID, p.CategoryName, p.CategoryPath, err = resolveCategory(ctx, tx, p.CategoryID)
	if err != nil {
		return err
	}

	p.CurrentVersion = domain.InitialVersion

	_, err = tx.ExecContext(ctx, `
		INSERT INTO prompts (`+promptColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.Title,
		p.Content,
		p.Description,
		nullString(p.CategoryID),
		p.CategoryName,
		p.CategoryPath,
		p.UsageCount,
		p.CurrentVersion,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return err
	}

	seed := &domain.PromptVersion{
		Version:     domain.InitialVersion,
		Title:       p.Title,
		Content:     p.Content,
		Description: p.Description,
		ChangeNote:  domain.InitialChangeNote,
		CreatedAt:   p.CreatedAt,
	}
	if err := insertVersion(ctx, tx, p.ID, seed); err != nil {
		return err
	}
	p.Versions = []*domain.PromptVersion{seed}

	if err := setPromptTags(ctx, tx, p.ID, p.Tags); err != nil {
		return err
	}
	p.Tags, err = getPromptTagNames(ctx, tx, p.ID)
	if err != nil {
		return err
	}

	touchLastUpdated(ctx, tx)
	return tx.Commit()
}

// GetPrompt retrieves a prompt with its tags and full version history.
// Returns store.ErrNotFound if the prompt does not exist.
func (s *Store) GetPrompt(ctx context.Context, promptID string) (*domain.Prompt, error) {
	return getPrompt(ctx, s.db, promptID)
}

func getPrompt(ctx context.Context, q querier, promptID string) (*domain.Prompt, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+promptColumns+` FROM prompts WHERE id = ?`, promptID)

	p, err := scanPrompt(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound.WithMessage("prompt not found")
	}
	if err != nil {
		return nil, err
	}

	p.Tags, err = getPromptTagNames(ctx, q, promptID)
	if err != nil {
		return nil, err
	}

	p.Versions, err = listVersions(ctx, q, promptID)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// ListPrompts returns all prompts ordered by most recently updated, with
// tags and version histories attached via two bulk queries.
func (s *Store) ListPrompts(ctx context.Context) ([]*domain.Prompt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+promptColumns+` FROM prompts ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prompts, err := collectPrompts(rows)
	if err != nil {
		return nil, err
	}

	if err := s.attachRelations(ctx, prompts); err != nil {
		return nil, err
	}

	return prompts, nil
}

func collectPrompts(rows *sql.Rows) ([]*domain.Prompt, error) {
	prompts := []*domain.Prompt{}
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		p.Tags = []string{}
		prompts = append(prompts, p)
	}
	return prompts, rows.Err()
}

func (s *Store) attachRelations(ctx context.Context, prompts []*domain.Prompt) error {
	if len(prompts) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Prompt, len(prompts))
	for _, p := range prompts {
		byID[p.ID] = p
	}

	tagRows, err := s.db.QueryContext(ctx, `
		SELECT pt.prompt_id, t.name FROM prompt_tags pt
		JOIN tags t ON t.id = pt.tag_id
		ORDER BY t.name ASC`)
	if err != nil {
		return err
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var promptID, name string
		if err := tagRows.Scan(&promptID, &name); err != nil {
			return err
		}
		if p, ok := byID[promptID]; ok {
			p.Tags = append(p.Tags, name)
		}
	}
	if err := tagRows.Err(); err != nil {
		return err
	}

	versionRows, err := s.db.QueryContext(ctx,
		`SELECT prompt_id, `+versionColumns+` FROM prompt_versions ORDER BY created_at ASC`)
	if err != nil {
		return err
	}
	defer versionRows.Close()

	for versionRows.Next() {
		var promptID string
		v, err := scanVersionWithID(versionRows, &promptID)
		if err != nil {
			return err
		}
		if p, ok := byID[promptID]; ok {
			p.Versions = append(p.Versions, v)
		}
	}
	return versionRows.Err()
}

// UpdatePrompt applies a partial update. Only fields present in upd change;
// a present CategoryID is re-resolved, a present Tags replaces the whole tag
// set. Version history is never touched: direct field edits and version
// snapshots are independent mutation paths.
func (s *Store) UpdatePrompt(ctx context.Context, promptID string, upd store.PromptUpdate) (*domain.Prompt, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	p, err := getPrompt(ctx, tx, promptID)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Content != nil {
		p.Content = *upd.Content
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.CategoryID != nil {
		p.CategoryID, p.CategoryName, p.CategoryPath, err = resolveCategory(ctx, tx, *upd.CategoryID)
		if err != nil {
			return nil, err
		}
	}
	p.UpdatedAt = time.Now()

	_, err = tx.ExecContext(ctx, `
		UPDATE prompts
		SET title = ?, content = ?, description = ?, category_id = ?,
		    category_name = ?, category_path = ?, updated_at = ?
		WHERE id = ?`,
		p.Title,
		p.Content,
		p.Description,
		nullString(p.CategoryID),
		p.CategoryName,
		p.CategoryPath,
		formatTime(p.UpdatedAt),
		promptID,
	)
	if err != nil {
		return nil, err
	}

	if upd.Tags != nil {
		if err := setPromptTags(ctx, tx, promptID, *upd.Tags); err != nil {
			return nil, err
		}
		p.Tags, err = getPromptTagNames(ctx, tx, promptID)
		if err != nil {
			return nil, err
		}
	}

	touchLastUpdated(ctx, tx)
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return p, nil
}

// DeletePrompt removes a prompt; versions and tag links cascade.
func (s *Store) DeletePrompt(ctx context.Context, promptID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM prompts WHERE id = ?`, promptID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound.WithMessage("prompt not found")
	}
	return nil
}

// UsePrompt increments the usage counter and returns the updated prompt.
func (s *Store) UsePrompt(ctx context.Context, promptID string) (*domain.Prompt, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE prompts SET usage_count = usage_count + 1, updated_at = ? WHERE id = ?`,
		formatTime(time.Now()), promptID)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound.WithMessage("prompt not found")
	}

	return s.GetPrompt(ctx, promptID)
}

// SearchPrompts filters prompts by a case-insensitive substring over title,
// content, and description, optionally scoped to a category. A CategoryID
// scope includes the category's entire subtree.
func (s *Store) SearchPrompts(ctx context.Context, filter store.SearchFilter) ([]*domain.Prompt, error) {
	query := `SELECT ` + promptColumns + ` FROM prompts`
	var (
		clauses []string
		args    []any
	)

	if filter.Query != "" {
		clauses = append(clauses,
			`(title LIKE '%' || ? || '%' OR content LIKE '%' || ? || '%' OR description LIKE '%' || ? || '%')`)
		args = append(args, filter.Query, filter.Query, filter.Query)
	}

	if filter.CategoryID != "" {
		descendants, err := s.GetCategoryDescendants(ctx, filter.CategoryID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return []*domain.Prompt{}, nil
			}
			return nil, err
		}
		ids := append([]string{filter.CategoryID}, descendants...)
		clauses = append(clauses, `category_id IN (`+placeholders(len(ids))+`)`)
		for _, catID := range ids {
			args = append(args, catID)
		}
	} else if filter.CategoryName != "" {
		clauses = append(clauses, `category_name = ?`)
		args = append(args, filter.CategoryName)
	}

	for i, clause := range clauses {
		if i == 0 {
			query += ` WHERE ` + clause
		} else {
			query += ` AND ` + clause
		}
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prompts, err := collectPrompts(rows)
	if err != nil {
		return nil, err
	}

	if err := s.attachRelations(ctx, prompts); err != nil {
		return nil, err
	}

	return prompts, nil
}

// ImportPrompt upserts a prompt by ID. On update the existing usage counter
// is preserved and the version history is replaced with the imported one;
// a prompt imported without versions gets a seed version synthesized from
// its current fields.
func (s *Store) ImportPrompt(ctx context.Context, p *domain.Prompt) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	p.CategoryID, p.CategoryName, p.CategoryPath, err = resolveCategory(ctx, tx, p.CategoryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Imported data may reference categories that no longer exist.
			p.CategoryID = ""
			p.CategoryID, p.CategoryName, p.CategoryPath, err = resolveCategory(ctx, tx, "")
		}
		if err != nil {
			return false, err
		}
	}

	var existingUsage int
	created := false
	err = tx.QueryRowContext(ctx,
		`SELECT usage_count FROM prompts WHERE id = ?`, p.ID).Scan(&existingUsage)
	if err == sql.ErrNoRows {
		created = true
	} else if err != nil {
		return false, err
	} else {
		p.UsageCount = existingUsage
	}

	if len(p.Versions) == 0 {
		if p.CurrentVersion == "" {
			p.CurrentVersion = domain.InitialVersion
		}
		p.Versions = []*domain.PromptVersion{{
			Version:     p.CurrentVersion,
			Title:       p.Title,
			Content:     p.Content,
			Description: p.Description,
			ChangeNote:  domain.InitialChangeNote,
			CreatedAt:   p.CreatedAt,
		}}
	}

	if created {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO prompts (`+promptColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Title, p.Content, p.Description,
			nullString(p.CategoryID), p.CategoryName, p.CategoryPath,
			p.UsageCount, p.CurrentVersion,
			formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE prompts
			SET title = ?, content = ?, description = ?, category_id = ?,
			    category_name = ?, category_path = ?, usage_count = ?,
			    current_version = ?, created_at = ?, updated_at = ?
			WHERE id = ?`,
			p.Title, p.Content, p.Description,
			nullString(p.CategoryID), p.CategoryName, p.CategoryPath,
			p.UsageCount, p.CurrentVersion,
			formatTime(p.CreatedAt), formatTime(p.UpdatedAt), p.ID)
	}
	if err != nil {
		return false, err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM prompt_versions WHERE prompt_id = ?`, p.ID); err != nil {
		return false, err
	}
	for _, v := range p.Versions {
		if err := insertVersion(ctx, tx, p.ID, v); err != nil {
			return false, err
		}
	}

	if err := setPromptTags(ctx, tx, p.ID, p.Tags); err != nil {
		return false, err
	}

	touchLastUpdated(ctx, tx)
	if err := tx.Commit(); err != nil {
		return false, err
	}

	return created, nil
}
