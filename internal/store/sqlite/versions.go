package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/prompthubapp/prompthub-server/internal/domain"
	apperrors "github.com/prompthubapp/prompthub-server/internal/errors"
	"github.com/prompthubapp/prompthub-server/internal/store"
)

const versionColumns = `version, title, content, description, change_note, created_at`

func scanVersion(scanner interface{ Scan(dest ...any) error }) (*domain.PromptVersion, error) {
	var v domain.PromptVersion

	var createdAt string
	err := scanner.Scan(&v.Version, &v.Title, &v.Content, &v.Description, &v.ChangeNote, &createdAt)
	if err != nil {
		return nil, err
	}

	v.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &v, nil
}

func scanVersionWithID(rows *sql.Rows, promptID *string) (*domain.PromptVersion, error) {
	var v domain.PromptVersion

	var createdAt string
	err := rows.Scan(promptID, &v.Version, &v.Title, &v.Content, &v.Description, &v.ChangeNote, &createdAt)
	if err != nil {
		return nil, err
	}

	v.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &v, nil
}

func listVersions(ctx context.Context, q querier, promptID string) ([]*domain.PromptVersion, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+versionColumns+` FROM prompt_versions WHERE prompt_id = ? ORDER BY created_at ASC`,
		promptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []*domain.PromptVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func insertVersion(ctx context.Context, tx *sql.Tx, promptID string, v *domain.PromptVersion) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO prompt_versions (prompt_id, version, title, content, description, change_note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		promptID, v.Version, v.Title, v.Content, v.Description, v.ChangeNote, formatTime(v.CreatedAt))
	return err
}

// CreatePromptVersion appends a snapshot to a prompt's history and makes it
// the active version, copying its fields onto the prompt row. Version labels
// are caller-chosen and must be unique within the prompt.
func (s *Store) CreatePromptVersion(ctx context.Context, promptID string, v *domain.PromptVersion) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := getPrompt(ctx, tx, promptID); err != nil {
		return err
	}

	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}

	if err := insertVersion(ctx, tx, promptID, v); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperrors.Validationf("version %q already exists", v.Version)
		}
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE prompts
		SET title = ?, content = ?, description = ?, current_version = ?, updated_at = ?
		WHERE id = ?`,
		v.Title, v.Content, v.Description, v.Version, formatTime(time.Now()), promptID)
	if err != nil {
		return err
	}

	touchLastUpdated(ctx, tx)
	return tx.Commit()
}

// SwitchPromptVersion makes an existing version active, restoring its
// snapshot onto the prompt row, and returns the updated prompt.
func (s *Store) SwitchPromptVersion(ctx context.Context, promptID, version string) (*domain.Prompt, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := getPrompt(ctx, tx, promptID); err != nil {
		return nil, err
	}

	row := tx.QueryRowContext(ctx,
		`SELECT `+versionColumns+` FROM prompt_versions WHERE prompt_id = ? AND version = ?`,
		promptID, version)
	v, err := scanVersion(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound.WithMessage(fmt.Sprintf("version %q not found", version))
	}
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE prompts
		SET title = ?, content = ?, description = ?, current_version = ?, updated_at = ?
		WHERE id = ?`,
		v.Title, v.Content, v.Description, v.Version, formatTime(time.Now()), promptID)
	if err != nil {
		return nil, err
	}

	p, err := getPrompt(ctx, tx, promptID)
	if err != nil {
		return nil, err
	}

	touchLastUpdated(ctx, tx)
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return p, nil
}

// DeletePromptVersion removes a historical version. The active version and
// the only remaining version cannot be deleted, so every prompt always has
// at least one version.
func (s *Store) DeletePromptVersion(ctx context.Context, promptID, version string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	p, err := getPrompt(ctx, tx, promptID)
	if err != nil {
		return err
	}

	if len(p.Versions) <= 1 {
		return apperrors.InvalidOperation("cannot delete the only version")
	}
	if p.CurrentVersion == version {
		return apperrors.InvalidOperation("cannot delete the active version, switch to another version first")
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM prompt_versions WHERE prompt_id = ? AND version = ?`,
		promptID, version)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound.WithMessage(fmt.Sprintf("version %q not found", version))
	}

	touchLastUpdated(ctx, tx)
	return tx.Commit()
}
