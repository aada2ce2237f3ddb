// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package taxonomy is the single surface the rest of the system talks to.
// It composes the category, tag, and association stores, turns missing
// rows into not-found errors, and keeps the Valkey tree cache coherent by
// invalidating it on every category mutation.
package taxonomy

import (
	"context"
	"log/slog"

	"inkwell/internal/apperr"
	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// Service is the taxonomy query façade.
type Service struct {
	categories *store.CategoryStore
	tags       *store.TagStore
	articles   *store.ArticleStore
	assoc      *store.AssociationStore
	tree       *cache.TreeCache // nil disables caching
}

// New returns a Service over the given stores. treeCache may be nil, in
// which case every Tree call hits the database.
func New(categories *store.CategoryStore, tags *store.TagStore, articles *store.ArticleStore, assoc *store.AssociationStore, treeCache *cache.TreeCache) *Service {
	return &Service{
		categories: categories,
		tags:       tags,
		articles:   articles,
		assoc:      assoc,
		tree:       treeCache,
	}
}

func (s *Service) invalidateTree(ctx context.Context) {
	if s.tree != nil {
		s.tree.Invalidate(ctx)
	}
}

// --- Categories ---

// Category returns a category by id.
func (s *Service) Category(id int64) (*models.Category, error) {
	c, err := s.categories.FindByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFoundf("category %d not found", id)
	}
	return c, nil
}

// CategoryBySlug returns a category by slug.
func (s *Service) CategoryBySlug(slug string) (*models.Category, error) {
	c, err := s.categories.FindBySlug(slug)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFoundf("category with slug %q not found", slug)
	}
	return c, nil
}

// Categories returns the flat category list with live article counts.
func (s *Service) Categories(activeOnly bool) ([]models.Category, error) {
	return s.categories.List(activeOnly)
}

// CategoryChildren returns the direct children of a parent (nil = roots).
// A non-nil parent must exist.
func (s *Service) CategoryChildren(parentID *int64, activeOnly bool) ([]models.Category, error) {
	if parentID != nil {
		if _, err := s.Category(*parentID); err != nil {
			return nil, err
		}
	}
	return s.categories.ListChildren(parentID, activeOnly)
}

// Tree returns the nested category tree, served from Valkey when warm.
func (s *Service) Tree(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	if s.tree != nil {
		if cached, ok := s.tree.Get(ctx, activeOnly); ok {
			return cached, nil
		}
	}

	tree, err := s.categories.Tree(activeOnly)
	if err != nil {
		return nil, err
	}
	if s.tree != nil {
		s.tree.Set(ctx, activeOnly, tree)
	}
	return tree, nil
}

// CategoryPath returns the root-to-node chain for a category.
func (s *Service) CategoryPath(id int64) ([]models.Category, error) {
	return s.categories.Path(id)
}

// CreateCategory validates and inserts a category.
func (s *Service) CreateCategory(ctx context.Context, c *models.Category) (*models.Category, error) {
	created, err := s.categories.Create(c)
	if err != nil {
		return nil, err
	}
	s.invalidateTree(ctx)
	return created, nil
}

// UpdateCategory modifies name, slug, and metadata.
func (s *Service) UpdateCategory(ctx context.Context, c *models.Category) (*models.Category, error) {
	updated, err := s.categories.Update(c)
	if err != nil {
		return nil, err
	}
	s.invalidateTree(ctx)
	return updated, nil
}

// MoveCategory reparents a category, rejecting cycles.
func (s *Service) MoveCategory(ctx context.Context, id int64, newParentID *int64) (*models.Category, error) {
	moved, err := s.categories.Move(id, newParentID)
	if err != nil {
		return nil, err
	}
	s.invalidateTree(ctx)
	return moved, nil
}

// ReorderCategories rewrites sibling ordering under one parent.
func (s *Service) ReorderCategories(ctx context.Context, parentID *int64, orderedIDs []int64) error {
	if err := s.categories.Reorder(parentID, orderedIDs); err != nil {
		return err
	}
	s.invalidateTree(ctx)
	return nil
}

// DeleteCategory removes a category, optionally with its whole subtree.
func (s *Service) DeleteCategory(ctx context.Context, id int64, cascade bool) error {
	if err := s.categories.Delete(id, cascade); err != nil {
		return err
	}
	s.invalidateTree(ctx)
	return nil
}

// CategoryStats returns a category alongside a live recount of its
// articles. Drift between the stored counter and the recount is reported,
// not repaired: the counter is bookkeeping, the recount is truth.
func (s *Service) CategoryStats(id int64) (*models.CategoryStats, error) {
	c, err := s.Category(id)
	if err != nil {
		return nil, err
	}
	live, err := s.categories.CountArticles(id)
	if err != nil {
		return nil, err
	}

	drift := live != c.ArticleCount
	if drift {
		slog.Warn("category article_count drift",
			"category_id", id,
			"stored", c.ArticleCount,
			"live", live,
		)
	}
	return &models.CategoryStats{Category: *c, LiveArticles: live, Drift: drift}, nil
}

// TreeStats summarizes the whole tree.
func (s *Service) TreeStats() (*models.TreeStats, error) {
	return s.categories.Stats()
}

// --- Tags ---

// Tag returns a tag by id.
func (s *Service) Tag(id int64) (*models.Tag, error) {
	t, err := s.tags.FindByID(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.NotFoundf("tag %d not found", id)
	}
	return t, nil
}

// TagBySlug returns a tag by slug.
func (s *Service) TagBySlug(slug string) (*models.Tag, error) {
	t, err := s.tags.FindBySlug(slug)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.NotFoundf("tag with slug %q not found", slug)
	}
	return t, nil
}

// Tags lists the tag catalog.
func (s *Service) Tags(activeOnly bool) ([]models.Tag, error) {
	return s.tags.List(activeOnly)
}

// PopularTags lists the most used tags.
func (s *Service) PopularTags(limit int) ([]models.Tag, error) {
	return s.tags.Popular(limit)
}

// FindOrCreateTag resolves a tag name to a tag, creating it when new.
func (s *Service) FindOrCreateTag(name string) (*models.Tag, error) {
	return s.tags.FindOrCreate(name)
}

// PruneTags deletes zero-usage tags and reports how many went.
func (s *Service) PruneTags() (int64, error) {
	return s.tags.PruneUnused()
}

// --- Articles and associations ---

// Article returns an article with its category and tags populated.
func (s *Service) Article(id int64) (*models.Article, error) {
	a, err := s.articles.FindByID(id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.NotFoundf("article %d not found", id)
	}

	if a.CategoryID != nil {
		c, err := s.categories.FindByID(*a.CategoryID)
		if err != nil {
			return nil, err
		}
		a.Category = c
	}

	tags, err := s.assoc.ArticleTags(id)
	if err != nil {
		return nil, err
	}
	a.Tags = tags
	return a, nil
}

// CreateArticle inserts a minimal article record.
func (s *Service) CreateArticle(a *models.Article) (*models.Article, error) {
	return s.articles.Create(a)
}

// SetArticleTags replaces an article's tag set and returns the new set.
func (s *Service) SetArticleTags(articleID int64, names []string) ([]models.Tag, error) {
	return s.assoc.SetArticleTags(articleID, names)
}

// SetArticleCategory points an article at a category (nil clears it).
// Invalidates the tree cache because article counts ride on tree nodes.
func (s *Service) SetArticleCategory(ctx context.Context, articleID int64, categoryID *int64) error {
	if err := s.assoc.SetArticleCategory(articleID, categoryID); err != nil {
		return err
	}
	s.invalidateTree(ctx)
	return nil
}

// RemoveArticle deletes an article and settles its counters.
func (s *Service) RemoveArticle(ctx context.Context, articleID int64) error {
	if err := s.assoc.RemoveArticle(articleID); err != nil {
		return err
	}
	s.invalidateTree(ctx)
	return nil
}
