package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/prompthubapp/prompthub-server/internal/domain"
	"github.com/prompthubapp/prompthub-server/internal/id"
	"github.com/prompthubapp/prompthub-server/internal/store"
)

const tagColumns = `id, name, color, created_at, updated_at`

func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(&t.ID, &t.Name, &t.Color, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// FindOrCreateTag returns the tag with the given name, creating it if it
// does not exist. The boolean reports whether a new tag was created.
func (s *Store) FindOrCreateTag(ctx context.Context, name, color string) (*domain.Tag, bool, error) {
	t, err := getTagByName(ctx, s.db, name)
	if err == nil {
		return t, false, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, err
	}

	if color == "" {
		color = domain.DefaultTagColor
	}

	tagID, err := id.Generate("tag")
	if err != nil {
		return nil, false, fmt.Errorf("generate tag id: %w", err)
	}

	now := time.Now()
	tag := &domain.Tag{
		Entity: domain.Entity{ID: tagID, CreatedAt: now, UpdatedAt: now},
		Name:   name,
		Color:  color,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tags (id, name, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		tag.ID, tag.Name, tag.Color, formatTime(tag.CreatedAt), formatTime(tag.UpdatedAt))
	if err != nil {
		// A concurrent request may have created the tag between the lookup
		// and the insert; fall back to the winner's row.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			t, lookupErr := getTagByName(ctx, s.db, name)
			if lookupErr != nil {
				return nil, false, lookupErr
			}
			return t, false, nil
		}
		return nil, false, err
	}

	return tag, true, nil
}

func getTagByName(ctx context.Context, q querier, name string) (*domain.Tag, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE name = ?`, name)
	return scanTag(row)
}

// GetTag retrieves a tag by ID. Returns store.ErrNotFound if it does not exist.
func (s *Store) GetTag(ctx context.Context, tagID string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = ?`, tagID)

	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound.WithMessage("tag not found")
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTags returns all tags ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tags, nil
}

// UpdateTag applies a partial update. Renaming to a name held by another tag
// is rejected with store.ErrInvalidInput; the registry is keyed by name and
// prompt links follow the tag ID, so a rename propagates for free.
func (s *Store) UpdateTag(ctx context.Context, tagID string, upd store.TagUpdate) (*domain.Tag, error) {
	t, err := s.GetTag(ctx, tagID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		t.Name = *upd.Name
	}
	if upd.Color != nil {
		t.Color = *upd.Color
	}
	t.UpdatedAt = time.Now()

	_, err = s.db.ExecContext(ctx, `
		UPDATE tags SET name = ?, color = ?, updated_at = ? WHERE id = ?`,
		t.Name, t.Color, formatTime(t.UpdatedAt), tagID)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, store.ErrInvalidInput.WithMessage(
				fmt.Sprintf("tag %q already exists", t.Name))
		}
		return nil, err
	}

	return t, nil
}

// DeleteTag removes a tag and its prompt links, returning the number of
// prompts that referenced it.
func (s *Store) DeleteTag(ctx context.Context, tagID string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var affected int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT prompt_id) FROM prompt_tags WHERE tag_id = ?`, tagID).
		Scan(&affected)
	if err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, tagID)
	if err != nil {
		return 0, err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, store.ErrNotFound.WithMessage("tag not found")
	}

	touchLastUpdated(ctx, tx)
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return affected, nil
}

// setPromptTags replaces a prompt's tag set inside the caller's transaction,
// creating registry entries for unseen names.
func setPromptTags(ctx context.Context, tx *sql.Tx, promptID string, names []string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM prompt_tags WHERE prompt_id = ?`, promptID); err != nil {
		return err
	}

	now := formatTime(time.Now())
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		var tagID string
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM tags WHERE name = ?`, name).Scan(&tagID)
		if err == sql.ErrNoRows {
			tagID, err = id.Generate("tag")
			if err != nil {
				return fmt.Errorf("generate tag id: %w", err)
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO tags (id, name, color, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?)`,
				tagID, name, domain.DefaultTagColor, now, now)
		}
		if err != nil {
			return fmt.Errorf("resolve tag %q: %w", name, err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO prompt_tags (prompt_id, tag_id, created_at) VALUES (?, ?, ?)`,
			promptID, tagID, now); err != nil {
			return err
		}
	}

	return nil
}

// getPromptTagNames returns a prompt's tag names ordered by name.
func getPromptTagNames(ctx context.Context, q querier, promptID string) ([]string, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT t.name FROM tags t
		JOIN prompt_tags pt ON pt.tag_id = t.id
		WHERE pt.prompt_id = ?
		ORDER BY t.name ASC`, promptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
