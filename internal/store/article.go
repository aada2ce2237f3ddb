// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"inkwell/internal/apperr"
	"inkwell/internal/models"
	"inkwell/internal/slug"
)

// ArticleStore manages the taxonomy-facing slice of article records.
// The article service owns the full article; this store only carries what
// categories and tags need to bind against.
type ArticleStore struct {
	db *sql.DB
}

// NewArticleStore returns a new ArticleStore.
func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

const maxArticleTitleLen = 255

const articleColumns = `id, title, slug, status, category_id, created_at, updated_at`

// scanArticle scans a row into an Article struct.
func scanArticle(scanner interface{ Scan(...any) error }) (*models.Article, error) {
	var a models.Article
	err := scanner.Scan(
		&a.ID, &a.Title, &a.Slug, &a.Status, &a.CategoryID,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new article record. Category and tag assignment go
// through the association layer, never through Create.
func (s *ArticleStore) Create(a *models.Article) (*models.Article, error) {
	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" {
		return nil, apperr.Validationf("article title is required")
	}
	if len(a.Title) > maxArticleTitleLen {
		return nil, apperr.Validationf("article title is too long (max %d characters)", maxArticleTitleLen)
	}
	if a.Slug == "" {
		a.Slug = slug.Normalize(a.Title, maxArticleTitleLen)
	}
	if a.Slug == "" {
		return nil, apperr.Validationf("article title %q does not produce a usable slug", a.Title)
	}
	if a.Status == "" {
		a.Status = models.ArticleStatusDraft
	}

	row := s.db.QueryRow(`
		INSERT INTO articles (title, slug, status)
		VALUES ($1, $2, $3)
		RETURNING `+articleColumns,
		a.Title, a.Slug, a.Status,
	)
	created, err := scanArticle(row)
	if isUniqueViolation(err) {
		return nil, apperr.Validationf("article with slug %q already exists", a.Slug)
	}
	if err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return created, nil
}

// FindByID retrieves an article by ID. Returns nil if not found.
func (s *ArticleStore) FindByID(id int64) (*models.Article, error) {
	row := s.db.QueryRow(`SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by id: %w", err)
	}
	return a, nil
}

// FindBySlug retrieves an article by slug. Returns nil if not found.
func (s *ArticleStore) FindBySlug(articleSlug string) (*models.Article, error) {
	row := s.db.QueryRow(`SELECT `+articleColumns+` FROM articles WHERE slug = $1`, articleSlug)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by slug: %w", err)
	}
	return a, nil
}

// ListByCategory returns articles directly assigned to a category,
// newest first.
func (s *ArticleStore) ListByCategory(categoryID int64) ([]models.Article, error) {
	rows, err := s.db.Query(`
		SELECT `+articleColumns+` FROM articles
		WHERE category_id = $1
		ORDER BY created_at DESC
	`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list articles by category: %w", err)
	}
	defer rows.Close()

	var items []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}
