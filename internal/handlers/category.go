// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/models"
)

// categoryRequest carries the writable category fields for create/update.
type categoryRequest struct {
	Name            string  `json:"name"`
	Slug            string  `json:"slug,omitempty"`
	Description     *string `json:"description,omitempty"`
	ParentID        *int64  `json:"parent_id,omitempty"`
	Color           *string `json:"color,omitempty"`
	Icon            *string `json:"icon,omitempty"`
	IsActive        *bool   `json:"is_active,omitempty"`
	MetaDescription *string `json:"meta_description,omitempty"`
}

// CategoryList returns the flat category list. ?active=true filters.
func (a *API) CategoryList(w http.ResponseWriter, r *http.Request) {
	items, err := a.svc.Categories(queryBool(r, "active"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// CategoryTreeStats returns aggregate numbers for the whole tree.
func (a *API) CategoryTreeStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.svc.TreeStats()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// CategoryTree returns the nested category tree. ?active=true filters.
func (a *API) CategoryTree(w http.ResponseWriter, r *http.Request) {
	tree, err := a.svc.Tree(r.Context(), queryBool(r, "active"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// CategoryGet returns one category by id.
func (a *API) CategoryGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	c, err := a.svc.Category(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CategoryGetBySlug returns one category by slug.
func (a *API) CategoryGetBySlug(w http.ResponseWriter, r *http.Request) {
	c, err := a.svc.CategoryBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CategoryChildren returns the direct children of a category.
func (a *API) CategoryChildren(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	children, err := a.svc.CategoryChildren(&id, queryBool(r, "active"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, children)
}

// CategoryStats returns a category with its live article recount.
func (a *API) CategoryStats(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	stats, err := a.svc.CategoryStats(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// CategoryCreate inserts a new category.
func (a *API) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	created, err := a.svc.CreateCategory(r.Context(), &models.Category{
		Name:            req.Name,
		Slug:            req.Slug,
		Description:     req.Description,
		ParentID:        req.ParentID,
		Color:           req.Color,
		Icon:            req.Icon,
		MetaDescription: req.MetaDescription,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// CategoryUpdate modifies name, slug, and metadata. Absent fields keep
// their current values; parent changes go through CategoryMove.
func (a *API) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	current, err := a.svc.Category(id)
	if err != nil {
		writeError(w, err)
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if req.Name != "" {
		current.Name = req.Name
		current.Slug = req.Slug // empty re-derives from the new name
	} else if req.Slug != "" {
		current.Slug = req.Slug
	}
	if req.Description != nil {
		current.Description = req.Description
	}
	if req.Color != nil {
		current.Color = req.Color
	}
	if req.Icon != nil {
		current.Icon = req.Icon
	}
	if req.IsActive != nil {
		current.IsActive = *req.IsActive
	}
	if req.MetaDescription != nil {
		current.MetaDescription = req.MetaDescription
	}

	updated, err := a.svc.UpdateCategory(r.Context(), current)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// moveRequest targets a new parent; null means move to top level.
type moveRequest struct {
	ParentID *int64 `json:"parent_id"`
}

// CategoryMove reparents a category.
func (a *API) CategoryMove(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	moved, err := a.svc.MoveCategory(r.Context(), id, req.ParentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moved)
}

// reorderRequest rewrites one parent's sibling ordering.
type reorderRequest struct {
	ParentID   *int64  `json:"parent_id"`
	OrderedIDs []int64 `json:"ordered_ids"`
}

// CategoryReorder rewrites order_index for all children of one parent.
func (a *API) CategoryReorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := a.svc.ReorderCategories(r.Context(), req.ParentID, req.OrderedIDs); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// CategoryDelete removes a category. ?cascade=true takes the subtree too.
func (a *API) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := a.svc.DeleteCategory(r.Context(), id, queryBool(r, "cascade")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
