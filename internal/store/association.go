// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// association.go keeps article↔tag and article↔category bindings consistent
// with the denormalized counters they feed. Every mutation here is a single
// transaction: partial attachment is never observable, and any failure
// restores the original state.
package store

import (
	"database/sql"
	"fmt"
	"strings"

	"inkwell/internal/apperr"
	"inkwell/internal/models"
	"inkwell/internal/slug"
)

// AssociationStore binds articles to categories and tags.
type AssociationStore struct {
	db *sql.DB
}

// NewAssociationStore returns a new AssociationStore.
func NewAssociationStore(db *sql.DB) *AssociationStore {
	return &AssociationStore{db: db}
}

// SetArticleTags replaces an article's tag set with the given names.
// New names are created lazily; usage counters move with the symmetric
// difference, so calling twice with the same names changes nothing.
func (s *AssociationStore) SetArticleTags(articleID int64, names []string) ([]models.Tag, error) {
	// Normalize and dedupe up front so validation errors surface before
	// the transaction starts.
	type wanted struct {
		name string
		slug string
	}
	var want []wanted
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if len(name) > maxTagNameLen {
			return nil, apperr.Validationf("tag name is too long (max %d characters)", maxTagNameLen)
		}
		tagSlug := slug.Normalize(name, maxTagNameLen)
		if tagSlug == "" || seen[tagSlug] {
			continue
		}
		seen[tagSlug] = true
		want = append(want, wanted{name: name, slug: tagSlug})
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := articleExists(tx, articleID); err != nil {
		return nil, err
	}

	// Current tag set, keyed by slug.
	rows, err := tx.Query(`
		SELECT t.id, t.slug FROM tags t
		JOIN article_tags at ON at.tag_id = t.id
		WHERE at.article_id = $1
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("load article tags: %w", err)
	}
	current := make(map[string]int64)
	for rows.Next() {
		var id int64
		var tagSlug string
		if err := rows.Scan(&id, &tagSlug); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan article tag: %w", err)
		}
		current[tagSlug] = id
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load article tags: %w", err)
	}

	// Attach what is wanted but missing.
	for _, w := range want {
		if _, ok := current[w.slug]; ok {
			continue
		}
		tag, err := findOrCreateTag(tx, w.name, w.slug)
		if err != nil {
			return nil, err
		}
		if _, err := tx.Exec(`
			INSERT INTO article_tags (article_id, tag_id) VALUES ($1, $2)
		`, articleID, tag.ID); err != nil {
			return nil, fmt.Errorf("attach tag %q: %w", w.slug, err)
		}
		if err := incrementTagUsage(tx, tag.ID); err != nil {
			return nil, err
		}
	}

	// Detach what is present but no longer wanted.
	for tagSlug, tagID := range current {
		if seen[tagSlug] {
			continue
		}
		if _, err := tx.Exec(`
			DELETE FROM article_tags WHERE article_id = $1 AND tag_id = $2
		`, articleID, tagID); err != nil {
			return nil, fmt.Errorf("detach tag %q: %w", tagSlug, err)
		}
		if err := decrementTagUsage(tx, tagID); err != nil {
			return nil, err
		}
	}

	final, err := articleTags(tx, articleID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return final, nil
}

// ArticleTags returns an article's current tags ordered by name.
func (s *AssociationStore) ArticleTags(articleID int64) ([]models.Tag, error) {
	return articleTags(s.db, articleID)
}

func articleTags(q querier, articleID int64) ([]models.Tag, error) {
	rows, err := q.Query(`
		SELECT t.id, t.name, t.slug, t.description, t.usage_count, t.is_active, t.created_at
		FROM tags t
		JOIN article_tags at ON at.tag_id = t.id
		WHERE at.article_id = $1
		ORDER BY t.name
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("list article tags: %w", err)
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

// SetArticleCategory points an article at a category (or nil to clear it),
// moving the denormalized article_count from the old category to the new
// one in the same transaction.
func (s *AssociationStore) SetArticleCategory(articleID int64, categoryID *int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var oldCategoryID *int64
	err = tx.QueryRow(`SELECT category_id FROM articles WHERE id = $1 FOR UPDATE`, articleID).Scan(&oldCategoryID)
	if err == sql.ErrNoRows {
		return apperr.NotFoundf("article %d not found", articleID)
	}
	if err != nil {
		return fmt.Errorf("load article: %w", err)
	}

	if categoryID != nil {
		var exists bool
		err := tx.QueryRow(`SELECT TRUE FROM categories WHERE id = $1`, *categoryID).Scan(&exists)
		if err == sql.ErrNoRows {
			return apperr.NotFoundf("category %d not found", *categoryID)
		}
		if err != nil {
			return fmt.Errorf("check category: %w", err)
		}
	}

	if ptrEqual(oldCategoryID, categoryID) {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
		UPDATE articles SET category_id = $1, updated_at = NOW() WHERE id = $2
	`, categoryID, articleID); err != nil {
		return fmt.Errorf("set article category: %w", err)
	}

	if oldCategoryID != nil {
		if _, err := tx.Exec(`
			UPDATE categories SET article_count = GREATEST(article_count - 1, 0), updated_at = NOW()
			WHERE id = $1
		`, *oldCategoryID); err != nil {
			return fmt.Errorf("decrement article count: %w", err)
		}
	}
	if categoryID != nil {
		if _, err := tx.Exec(`
			UPDATE categories SET article_count = article_count + 1, updated_at = NOW()
			WHERE id = $1
		`, *categoryID); err != nil {
			return fmt.Errorf("increment article count: %w", err)
		}
	}

	return tx.Commit()
}

// RemoveArticle deletes an article and settles both counter families:
// its category's article_count and every attached tag's usage_count.
// The junction rows go with the FK cascade.
func (s *AssociationStore) RemoveArticle(articleID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var categoryID *int64
	err = tx.QueryRow(`SELECT category_id FROM articles WHERE id = $1 FOR UPDATE`, articleID).Scan(&categoryID)
	if err == sql.ErrNoRows {
		return apperr.NotFoundf("article %d not found", articleID)
	}
	if err != nil {
		return fmt.Errorf("load article: %w", err)
	}

	tags, err := articleTags(tx, articleID)
	if err != nil {
		return err
	}
	for _, tag := range tags {
		if err := decrementTagUsage(tx, tag.ID); err != nil {
			return err
		}
	}

	if categoryID != nil {
		if _, err := tx.Exec(`
			UPDATE categories SET article_count = GREATEST(article_count - 1, 0), updated_at = NOW()
			WHERE id = $1
		`, *categoryID); err != nil {
			return fmt.Errorf("decrement article count: %w", err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM articles WHERE id = $1`, articleID); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}

	return tx.Commit()
}

// articleExists fails with a not-found error when the article is missing.
func articleExists(q querier, articleID int64) error {
	var exists bool
	err := q.QueryRow(`SELECT TRUE FROM articles WHERE id = $1`, articleID).Scan(&exists)
	if err == sql.ErrNoRows {
		return apperr.NotFoundf("article %d not found", articleID)
	}
	if err != nil {
		return fmt.Errorf("check article: %w", err)
	}
	return nil
}
