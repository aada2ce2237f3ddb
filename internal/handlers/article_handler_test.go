// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

func TestArticleLifecycle(t *testing.T) {
	api, db := newTestAPI(t)

	suffix := uuid.NewString()[:8]

	// Create a category to file the article under.
	w := httptest.NewRecorder()
	api.CategoryCreate(w, jsonRequest(t, "POST", "/api/v1/categories", map[string]any{
		"name": "Article Home " + suffix,
	}))
	if w.Code != http.StatusCreated {
		t.Fatalf("create category: got %d: %s", w.Code, w.Body.String())
	}
	var cat models.Category
	decodeBody(t, w, &cat)
	t.Cleanup(func() { cleanCategories(t, db, cat.Slug) })

	w = httptest.NewRecorder()
	api.ArticleCreate(w, jsonRequest(t, "POST", "/api/v1/articles", map[string]any{
		"title":  "Handler Article " + suffix,
		"status": "published",
	}))
	if w.Code != http.StatusCreated {
		t.Fatalf("create article: got %d: %s", w.Code, w.Body.String())
	}
	var art models.Article
	decodeBody(t, w, &art)
	t.Cleanup(func() { cleanArticles(t, db, art.Slug) })
	t.Cleanup(func() { cleanTags(t, db, "essays-"+suffix, "memoir-"+suffix) })

	id := strconv.FormatInt(art.ID, 10)

	// Classify it.
	w = httptest.NewRecorder()
	r := jsonRequest(t, "PUT", "/api/v1/articles/"+id+"/category", map[string]any{
		"category_id": cat.ID,
	})
	api.ArticleSetCategory(w, withChiURLParam(r, "id", id))
	if w.Code != http.StatusNoContent {
		t.Fatalf("set category: got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r = jsonRequest(t, "PUT", "/api/v1/articles/"+id+"/tags", map[string]any{
		"tags": []string{"Essays-" + suffix, "Memoir-" + suffix},
	})
	api.ArticleSetTags(w, withChiURLParam(r, "id", id))
	if w.Code != http.StatusOK {
		t.Fatalf("set tags: got %d: %s", w.Code, w.Body.String())
	}
	var tags []models.Tag
	decodeBody(t, w, &tags)
	if len(tags) != 2 {
		t.Fatalf("tags: got %d, want 2", len(tags))
	}

	// The read model carries the category and tags.
	w = httptest.NewRecorder()
	r = httptest.NewRequest("GET", "/api/v1/articles/"+id, nil)
	api.ArticleGet(w, withChiURLParam(r, "id", id))
	if w.Code != http.StatusOK {
		t.Fatalf("get: got %d", w.Code)
	}
	var got models.Article
	decodeBody(t, w, &got)
	if got.Category == nil || got.Category.ID != cat.ID {
		t.Errorf("category not populated: %+v", got.Category)
	}
	if len(got.Tags) != 2 {
		t.Errorf("tags not populated: got %d, want 2", len(got.Tags))
	}

	// The category counter followed the classification.
	catID := strconv.FormatInt(cat.ID, 10)
	w = httptest.NewRecorder()
	r = httptest.NewRequest("GET", "/api/v1/categories/"+catID, nil)
	api.CategoryGet(w, withChiURLParam(r, "id", catID))
	var after models.Category
	decodeBody(t, w, &after)
	if after.ArticleCount != 1 {
		t.Errorf("article_count: got %d, want 1", after.ArticleCount)
	}

	// Deleting the article settles every counter.
	w = httptest.NewRecorder()
	r = httptest.NewRequest("DELETE", "/api/v1/articles/"+id, nil)
	api.ArticleDelete(w, withChiURLParam(r, "id", id))
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r = httptest.NewRequest("GET", "/api/v1/categories/"+catID, nil)
	api.CategoryGet(w, withChiURLParam(r, "id", catID))
	decodeBody(t, w, &after)
	if after.ArticleCount != 0 {
		t.Errorf("article_count after delete: got %d, want 0", after.ArticleCount)
	}
}

func TestArticleValidation(t *testing.T) {
	api, _ := newTestAPI(t)

	w := httptest.NewRecorder()
	api.ArticleCreate(w, jsonRequest(t, "POST", "/api/v1/articles", map[string]any{
		"title": "",
	}))
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("empty title: got %d, want 422", w.Code)
	}

	w = httptest.NewRecorder()
	r := jsonRequest(t, "PUT", "/api/v1/articles/999999999/tags", map[string]any{
		"tags": []string{"ghost"},
	})
	api.ArticleSetTags(w, withChiURLParam(r, "id", "999999999"))
	if w.Code != http.StatusNotFound {
		t.Errorf("tags on missing article: got %d, want 404", w.Code)
	}

	w = httptest.NewRecorder()
	r = jsonRequest(t, "PUT", "/api/v1/articles/999999999/category", map[string]any{
		"category_id": nil,
	})
	api.ArticleSetCategory(w, withChiURLParam(r, "id", "999999999"))
	if w.Code != http.StatusNotFound {
		t.Errorf("category on missing article: got %d, want 404", w.Code)
	}
}
