// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chain for the
// taxonomy API. Everything lives under /api/v1 except the health check.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(api *handlers.API) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)

	r.Get("/health", healthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", api.CategoryList)
			r.Post("/", api.CategoryCreate)
			r.Get("/tree", api.CategoryTree)
			r.Get("/stats", api.CategoryTreeStats)
			r.Put("/reorder", api.CategoryReorder)
			r.Get("/slug/{slug}", api.CategoryGetBySlug)
			r.Get("/{id}", api.CategoryGet)
			r.Get("/{id}/children", api.CategoryChildren)
			r.Get("/{id}/stats", api.CategoryStats)
			r.Patch("/{id}", api.CategoryUpdate)
			r.Patch("/{id}/move", api.CategoryMove)
			r.Delete("/{id}", api.CategoryDelete)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", api.TagList)
			r.Post("/", api.TagCreate)
			r.Post("/prune", api.TagPrune)
			r.Get("/slug/{slug}", api.TagGetBySlug)
			r.Get("/{id}", api.TagGet)
		})

		r.Route("/articles", func(r chi.Router) {
			r.Post("/", api.ArticleCreate)
			r.Get("/{id}", api.ArticleGet)
			r.Put("/{id}/tags", api.ArticleSetTags)
			r.Put("/{id}/category", api.ArticleSetCategory)
			r.Delete("/{id}", api.ArticleDelete)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
