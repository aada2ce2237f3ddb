// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"inkwell/internal/apperr"
	"inkwell/internal/models"
	"inkwell/internal/slug"
)

// TagStore manages the flat tag catalog in the database.
type TagStore struct {
	db *sql.DB
}

// NewTagStore returns a new TagStore.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

const maxTagNameLen = 50

const tagColumns = `id, name, slug, description, usage_count, is_active, created_at`

// scanTag scans a row into a Tag struct.
func scanTag(scanner interface{ Scan(...any) error }) (*models.Tag, error) {
	var t models.Tag
	err := scanner.Scan(
		&t.ID, &t.Name, &t.Slug, &t.Description,
		&t.UsageCount, &t.IsActive, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FindOrCreate looks a tag up by its normalized slug, creating it when
// absent. "Fiction" and "fiction" resolve to the same tag. This is the
// only way tags come into existence during article authoring, and it
// never touches usage_count.
func (s *TagStore) FindOrCreate(name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validationf("tag name is required")
	}
	if len(name) > maxTagNameLen {
		return nil, apperr.Validationf("tag name is too long (max %d characters)", maxTagNameLen)
	}
	tagSlug := slug.Normalize(name, maxTagNameLen)
	if tagSlug == "" {
		return nil, apperr.Validationf("tag name %q does not produce a usable slug", name)
	}
	return findOrCreateTag(s.db, name, tagSlug)
}

// findOrCreateTag upserts on the slug unique index; the no-op DO UPDATE
// makes RETURNING yield the existing row on conflict.
func findOrCreateTag(q querier, name, tagSlug string) (*models.Tag, error) {
	row := q.QueryRow(`
		INSERT INTO tags (name, slug)
		VALUES ($1, $2)
		ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
		RETURNING `+tagColumns,
		name, tagSlug,
	)
	t, err := scanTag(row)
	if err != nil {
		return nil, fmt.Errorf("find or create tag %q: %w", tagSlug, err)
	}
	return t, nil
}

// FindByID retrieves a tag by ID. Returns nil if not found.
func (s *TagStore) FindByID(id int64) (*models.Tag, error) {
	row := s.db.QueryRow(`SELECT `+tagColumns+` FROM tags WHERE id = $1`, id)
	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by id: %w", err)
	}
	return t, nil
}

// FindBySlug retrieves a tag by slug. Returns nil if not found.
func (s *TagStore) FindBySlug(tagSlug string) (*models.Tag, error) {
	row := s.db.QueryRow(`SELECT `+tagColumns+` FROM tags WHERE slug = $1`, tagSlug)
	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by slug: %w", err)
	}
	return t, nil
}

// List returns all tags ordered by name.
func (s *TagStore) List(activeOnly bool) ([]models.Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tags`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var items []models.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// Popular returns the most used tags, busiest first.
func (s *TagStore) Popular(limit int) ([]models.Tag, error) {
	rows, err := s.db.Query(`
		SELECT `+tagColumns+` FROM tags
		WHERE usage_count > 0
		ORDER BY usage_count DESC, name
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("popular tags: %w", err)
	}
	defer rows.Close()

	var items []models.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// IncrementUsage bumps a tag's usage counter by one.
func (s *TagStore) IncrementUsage(id int64) error {
	return incrementTagUsage(s.db, id)
}

// DecrementUsage lowers a tag's usage counter by one, clamped at zero.
func (s *TagStore) DecrementUsage(id int64) error {
	return decrementTagUsage(s.db, id)
}

func incrementTagUsage(q querier, id int64) error {
	res, err := q.Exec(`UPDATE tags SET usage_count = usage_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment tag usage: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("tag %d not found", id)
	}
	return nil
}

func decrementTagUsage(q querier, id int64) error {
	res, err := q.Exec(`UPDATE tags SET usage_count = usage_count - 1 WHERE id = $1 AND usage_count > 0`, id)
	if err != nil {
		return fmt.Errorf("decrement tag usage: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := q.QueryRow(`SELECT TRUE FROM tags WHERE id = $1`, id).Scan(&exists); err != nil {
			if err == sql.ErrNoRows {
				return apperr.NotFoundf("tag %d not found", id)
			}
			return fmt.Errorf("check tag: %w", err)
		}
		// A correct association layer never decrements past zero; reaching
		// this means the counter and the association rows disagree.
		slog.Warn("tag usage decrement clamped at zero", "tag_id", id)
	}
	return nil
}

// PruneUnused deletes tags with zero usage and no association rows.
// Detaching never deletes a tag; pruning is always this explicit call.
func (s *TagStore) PruneUnused() (int64, error) {
	res, err := s.db.Exec(`
		DELETE FROM tags t
		WHERE t.usage_count = 0
		  AND NOT EXISTS (SELECT 1 FROM article_tags at WHERE at.tag_id = t.id)
	`)
	if err != nil {
		return 0, fmt.Errorf("prune tags: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune tags rows affected: %w", err)
	}
	if n > 0 {
		slog.Info("pruned unused tags", "count", n)
	}
	return n, nil
}
