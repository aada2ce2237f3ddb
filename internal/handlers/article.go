// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"inkwell/internal/models"
)

// articleRequest carries the writable fields for creating an article
// stub. Classification goes through the dedicated tag and category
// endpoints so the counters stay settled in one place.
type articleRequest struct {
	Title  string `json:"title"`
	Slug   string `json:"slug"`
	Status string `json:"status"`
}

// ArticleCreate inserts a new article without category or tags.
func (a *API) ArticleCreate(w http.ResponseWriter, r *http.Request) {
	var req articleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	art := &models.Article{
		Title:  req.Title,
		Slug:   req.Slug,
		Status: models.ArticleStatus(req.Status),
	}
	created, err := a.svc.CreateArticle(art)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ArticleGet returns an article with its category and tags populated.
func (a *API) ArticleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	art, err := a.svc.Article(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, art)
}

// setTagsRequest replaces the article's full tag set. Names are
// normalized server side, so casing and duplicates are forgiven.
type setTagsRequest struct {
	Tags []string `json:"tags"`
}

// ArticleSetTags replaces an article's tag set and returns the
// resulting tags.
func (a *API) ArticleSetTags(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req setTagsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	tags, err := a.svc.SetArticleTags(id, req.Tags)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// setCategoryRequest points the article at a category. A null
// category_id files the article as uncategorized.
type setCategoryRequest struct {
	CategoryID *int64 `json:"category_id"`
}

// ArticleSetCategory moves an article between categories, keeping the
// denormalized article counts in step.
func (a *API) ArticleSetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req setCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := a.svc.SetArticleCategory(r.Context(), id, req.CategoryID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ArticleDelete removes an article, settling its tag usage and
// category counters first.
func (a *API) ArticleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := a.svc.RemoveArticle(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
