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

// CategoryStore manages the category tree in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const (
	maxCategoryNameLen = 100
	maxCategorySlugLen = 100
)

const categoryColumns = `id, name, slug, description, parent_id, color, icon,
	order_index, is_active, article_count, meta_description, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID, &c.Color, &c.Icon,
		&c.OrderIndex, &c.IsActive, &c.ArticleCount, &c.MetaDescription,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create validates and inserts a new category. The slug derives from the
// name unless one is given; order_index defaults to the end of the new
// sibling list. Duplicate names or slugs and inactive parents are
// validation errors; a missing parent is a not-found error.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, apperr.Validationf("category name is required")
	}
	if len(c.Name) > maxCategoryNameLen {
		return nil, apperr.Validationf("category name is too long (max %d characters)", maxCategoryNameLen)
	}

	if c.Slug == "" {
		c.Slug = slug.Normalize(c.Name, maxCategorySlugLen)
	} else {
		c.Slug = slug.Normalize(c.Slug, maxCategorySlugLen)
	}
	if c.Slug == "" {
		return nil, apperr.Validationf("category name %q does not produce a usable slug", c.Name)
	}

	if c.ParentID != nil {
		parent, err := s.FindByID(*c.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, apperr.NotFoundf("parent category %d not found", *c.ParentID)
		}
		if !parent.IsActive {
			return nil, apperr.Validationf("cannot create category under inactive parent %q", parent.Name)
		}
	}

	order, err := s.NextOrderIndex(c.ParentID)
	if err != nil {
		return nil, fmt.Errorf("next order index: %w", err)
	}

	row := s.db.QueryRow(`
		INSERT INTO categories (name, slug, description, parent_id, color, icon,
		                        order_index, is_active, meta_description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.ParentID, c.Color, c.Icon, order, c.MetaDescription,
	)
	result, err := scanCategory(row)
	if isUniqueViolation(err) {
		return nil, apperr.Validationf("category with name or slug %q already exists", c.Slug)
	}
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id int64) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(categorySlug string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, categorySlug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// List returns all categories ordered by order_index then name, each with a
// live count of referencing articles next to the stored article_count.
func (s *CategoryStore) List(activeOnly bool) ([]models.Category, error) {
	query := `
		SELECT c.id, c.name, c.slug, c.description, c.parent_id, c.color, c.icon,
		       c.order_index, c.is_active, c.article_count, c.meta_description,
		       c.created_at, c.updated_at,
		       COUNT(a.id) AS live_articles
		FROM categories c
		LEFT JOIN articles a ON a.category_id = c.id`
	if activeOnly {
		query += `
		WHERE c.is_active`
	}
	query += `
		GROUP BY c.id
		ORDER BY c.order_index, c.name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID, &c.Color, &c.Icon,
			&c.OrderIndex, &c.IsActive, &c.ArticleCount, &c.MetaDescription,
			&c.CreatedAt, &c.UpdatedAt,
			&c.LiveArticles,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// ListChildren returns the direct children of parentID ordered by
// order_index then name. A nil parent means top-level categories.
func (s *CategoryStore) ListChildren(parentID *int64, activeOnly bool) ([]models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE `
	var args []any
	if parentID == nil {
		query += `parent_id IS NULL`
	} else {
		query += `parent_id = $1`
		args = append(args, *parentID)
	}
	if activeOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY order_index, name`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Tree returns categories as a nested tree structure.
func (s *CategoryStore) Tree(activeOnly bool) ([]models.Category, error) {
	flat, err := s.List(activeOnly)
	if err != nil {
		return nil, err
	}
	return buildTree(flat, nil, 0), nil
}

// buildTree recursively builds a tree from a flat list. Depth is capped so
// a corrupted parent chain cannot recurse forever.
func buildTree(flat []models.Category, parentID *int64, depth int) []models.Category {
	if depth >= maxTreeDepth {
		return nil
	}
	var result []models.Category
	for _, c := range flat {
		if ptrEqual(c.ParentID, parentID) {
			c.Depth = depth
			c.Children = buildTree(flat, &c.ID, depth+1)
			result = append(result, c)
		}
	}
	return result
}

// ptrEqual compares two *int64 for equality (both nil or same value).
func ptrEqual(a, b *int64) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// FlatTree returns categories as a flat list ordered for display, with
// Depth set for indentation.
func (s *CategoryStore) FlatTree(activeOnly bool) ([]models.Category, error) {
	tree, err := s.Tree(activeOnly)
	if err != nil {
		return nil, err
	}
	var result []models.Category
	flattenTree(tree, &result)
	return result, nil
}

// flattenTree walks a category tree depth-first, appending to result.
func flattenTree(cats []models.Category, result *[]models.Category) {
	for _, c := range cats {
		children := c.Children
		c.Children = nil
		*result = append(*result, c)
		if len(children) > 0 {
			flattenTree(children, result)
		}
	}
}

// Path returns the chain of categories from the root down to id.
func (s *CategoryStore) Path(id int64) ([]models.Category, error) {
	var path []models.Category
	current := &id
	for depth := 0; current != nil && depth < maxTreeDepth; depth++ {
		c, err := s.FindByID(*current)
		if err != nil {
			return nil, err
		}
		if c == nil {
			if depth == 0 {
				return nil, apperr.NotFoundf("category %d not found", id)
			}
			break
		}
		path = append([]models.Category{*c}, path...)
		current = c.ParentID
	}
	return path, nil
}

// Move reparents a category, appending it to the new parent's sibling list.
// Moving a category under itself or any of its descendants is rejected by
// walking the prospective parent's ancestor chain.
func (s *CategoryStore) Move(id int64, newParentID *int64) (*models.Category, error) {
	c, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFoundf("category %d not found", id)
	}

	if newParentID != nil {
		if *newParentID == id {
			return nil, apperr.Validationf("category cannot be its own parent")
		}
		target, err := s.FindByID(*newParentID)
		if err != nil {
			return nil, err
		}
		if target == nil {
			return nil, apperr.NotFoundf("parent category %d not found", *newParentID)
		}

		// Walk up from the target; hitting id means the target sits inside
		// id's subtree and the move would create a cycle.
		ancestor := target
		for depth := 0; ancestor.ParentID != nil; depth++ {
			if depth >= maxTreeDepth {
				return nil, apperr.Validationf("category tree is too deep")
			}
			if *ancestor.ParentID == id {
				return nil, apperr.Validationf("cannot move category %q under its own descendant", c.Name)
			}
			ancestor, err = s.FindByID(*ancestor.ParentID)
			if err != nil {
				return nil, err
			}
			if ancestor == nil {
				break
			}
		}
	}

	order, err := s.NextOrderIndex(newParentID)
	if err != nil {
		return nil, fmt.Errorf("next order index: %w", err)
	}

	row := s.db.QueryRow(`
		UPDATE categories SET parent_id = $1, order_index = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+categoryColumns,
		newParentID, order, id,
	)
	moved, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("move category: %w", err)
	}
	return moved, nil
}

// Reorder rewrites order_index for all children of parentID to match the
// given id order. The id set must be exactly the current sibling set.
// Concurrent reorders of the same parent serialize on a per-parent
// advisory lock, so two writers cannot interleave index rewrites.
func (s *CategoryStore) Reorder(parentID *int64, orderedIDs []int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var lockKey int64
	if parentID != nil {
		lockKey = *parentID
	}
	if _, err := tx.Exec(`SELECT pg_advisory_xact_lock($1)`, lockKey); err != nil {
		return fmt.Errorf("acquire reorder lock: %w", err)
	}

	// Current sibling set, read inside the transaction.
	query := `SELECT id FROM categories WHERE `
	var args []any
	if parentID == nil {
		query += `parent_id IS NULL`
	} else {
		query += `parent_id = $1`
		args = append(args, *parentID)
	}
	rows, err := tx.Query(query, args...)
	if err != nil {
		return fmt.Errorf("list siblings: %w", err)
	}
	current := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan sibling id: %w", err)
		}
		current[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list siblings: %w", err)
	}

	if len(orderedIDs) != len(current) {
		return apperr.Validationf("reorder list has %d ids, parent has %d children", len(orderedIDs), len(current))
	}
	seen := make(map[int64]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if seen[id] {
			return apperr.Validationf("reorder list contains id %d twice", id)
		}
		seen[id] = true
		if !current[id] {
			return apperr.Validationf("category %d is not a child of the given parent", id)
		}
	}

	stmt, err := tx.Prepare(`UPDATE categories SET order_index = $1, updated_at = NOW() WHERE id = $2`)
	if err != nil {
		return fmt.Errorf("prepare reorder: %w", err)
	}
	defer stmt.Close()

	for i, id := range orderedIDs {
		if _, err := stmt.Exec(i, id); err != nil {
			return fmt.Errorf("reorder category %d: %w", id, err)
		}
	}

	return tx.Commit()
}

// Update modifies an existing category's name, slug, and metadata.
// Parent changes go through Move, ordering through Reorder.
func (s *CategoryStore) Update(c *models.Category) (*models.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, apperr.Validationf("category name is required")
	}
	if len(c.Name) > maxCategoryNameLen {
		return nil, apperr.Validationf("category name is too long (max %d characters)", maxCategoryNameLen)
	}
	if c.Slug == "" {
		c.Slug = slug.Normalize(c.Name, maxCategorySlugLen)
	} else {
		c.Slug = slug.Normalize(c.Slug, maxCategorySlugLen)
	}
	if c.Slug == "" {
		return nil, apperr.Validationf("category name %q does not produce a usable slug", c.Name)
	}

	row := s.db.QueryRow(`
		UPDATE categories SET
			name = $1, slug = $2, description = $3, color = $4, icon = $5,
			is_active = $6, meta_description = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.Color, c.Icon,
		c.IsActive, c.MetaDescription, c.ID,
	)
	updated, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFoundf("category %d not found", c.ID)
	}
	if isUniqueViolation(err) {
		return nil, apperr.Validationf("category with name or slug %q already exists", c.Slug)
	}
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return updated, nil
}

// Delete removes a category. Without cascade it refuses when children
// exist. With cascade it removes the whole subtree in one transaction and
// nulls out category_id on every article referencing a removed node.
func (s *CategoryStore) Delete(id int64, cascade bool) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRow(`SELECT TRUE FROM categories WHERE id = $1`, id).Scan(&exists); err != nil {
		if err == sql.ErrNoRows {
			return apperr.NotFoundf("category %d not found", id)
		}
		return fmt.Errorf("check category: %w", err)
	}

	subtree, err := collectSubtree(tx, id)
	if err != nil {
		return err
	}

	if !cascade && len(subtree) > 1 {
		return apperr.Conflictf("category %d has %d descendants; delete with cascade or move them first", id, len(subtree)-1)
	}

	// Detach articles first so the FK backstop never races the explicit
	// bookkeeping below.
	for _, categoryID := range subtree {
		if _, err := tx.Exec(`
			UPDATE articles SET category_id = NULL, updated_at = NOW()
			WHERE category_id = $1
		`, categoryID); err != nil {
			return fmt.Errorf("detach articles from category %d: %w", categoryID, err)
		}
	}

	// Delete leaves before parents.
	for i := len(subtree) - 1; i >= 0; i-- {
		if _, err := tx.Exec(`DELETE FROM categories WHERE id = $1`, subtree[i]); err != nil {
			return fmt.Errorf("delete category %d: %w", subtree[i], err)
		}
	}

	return tx.Commit()
}

// collectSubtree returns id plus all descendant ids, breadth-first, so the
// slice is ordered parents-before-children.
func collectSubtree(q querier, id int64) ([]int64, error) {
	all := []int64{id}
	frontier := []int64{id}
	for depth := 0; len(frontier) > 0; depth++ {
		if depth >= maxTreeDepth {
			return nil, apperr.Validationf("category tree is too deep")
		}
		var next []int64
		for _, parent := range frontier {
			rows, err := q.Query(`SELECT id FROM categories WHERE parent_id = $1`, parent)
			if err != nil {
				return nil, fmt.Errorf("collect children of %d: %w", parent, err)
			}
			for rows.Next() {
				var child int64
				if err := rows.Scan(&child); err != nil {
					rows.Close()
					return nil, fmt.Errorf("scan child id: %w", err)
				}
				next = append(next, child)
			}
			rows.Close()
			if err := rows.Err(); err != nil {
				return nil, fmt.Errorf("collect children of %d: %w", parent, err)
			}
		}
		all = append(all, next...)
		frontier = next
	}
	return all, nil
}

// NextOrderIndex returns the next order_index value for a given parent.
func (s *CategoryStore) NextOrderIndex(parentID *int64) (int, error) {
	var maxOrder sql.NullInt64
	var err error
	if parentID == nil {
		err = s.db.QueryRow(`SELECT MAX(order_index) FROM categories WHERE parent_id IS NULL`).Scan(&maxOrder)
	} else {
		err = s.db.QueryRow(`SELECT MAX(order_index) FROM categories WHERE parent_id = $1`, *parentID).Scan(&maxOrder)
	}
	if err != nil {
		return 0, err
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + 1, nil
	}
	return 0, nil
}

// CountArticles recounts the articles referencing a category directly from
// the articles table, bypassing the denormalized counter.
func (s *CategoryStore) CountArticles(id int64) (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM articles WHERE category_id = $1`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return n, nil
}

// Stats summarizes the tree: totals, active and root counts, max depth.
func (s *CategoryStore) Stats() (*models.TreeStats, error) {
	stats := &models.TreeStats{}
	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_active),
		       COUNT(*) FILTER (WHERE parent_id IS NULL)
		FROM categories
	`).Scan(&stats.Total, &stats.Active, &stats.Roots)
	if err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}

	flat, err := s.List(false)
	if err != nil {
		return nil, err
	}
	stats.MaxDepth = treeDepth(buildTree(flat, nil, 0))
	return stats, nil
}

// treeDepth returns the number of levels in a nested tree.
func treeDepth(cats []models.Category) int {
	depth := 0
	for _, c := range cats {
		d := 1 + treeDepth(c.Children)
		if d > depth {
			depth = d
		}
	}
	return depth
}
