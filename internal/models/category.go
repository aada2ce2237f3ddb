// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Category represents a node in the hierarchical article taxonomy.
// Articles can have at most one category assigned.
type Category struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Slug            string     `json:"slug"`
	Description     *string    `json:"description,omitempty"`
	ParentID        *int64     `json:"parent_id"`
	Color           *string    `json:"color,omitempty"`
	Icon            *string    `json:"icon,omitempty"`
	OrderIndex      int        `json:"order_index"`
	IsActive        bool       `json:"is_active"`
	ArticleCount    int        `json:"article_count"`
	MetaDescription *string    `json:"meta_description,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`

	// Virtual fields populated by store methods.
	Children     []Category `json:"children,omitempty"`
	Depth        int        `json:"depth"`
	LiveArticles int        `json:"live_articles"`
}

// IsRoot returns true if the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// CategoryStats is the result of the drift-checking aggregate read:
// the stored counter next to a live recount of referencing articles.
type CategoryStats struct {
	Category     Category `json:"category"`
	LiveArticles int      `json:"live_articles"`
	Drift        bool     `json:"drift"`
}

// TreeStats summarizes the shape of the whole category tree.
type TreeStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Roots    int `json:"roots"`
	MaxDepth int `json:"max_depth"`
}
