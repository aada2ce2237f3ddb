// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// TagList returns the tag catalog. ?active=true filters, ?popular=N
// returns the N most used instead.
func (a *API) TagList(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("popular"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			limit = 10
		}
		items, err := a.svc.PopularTags(limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
		return
	}

	items, err := a.svc.Tags(queryBool(r, "active"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// tagRequest carries the only writable tag field. Slugs and counters
// are managed server side.
type tagRequest struct {
	Name string `json:"name"`
}

// TagCreate finds or creates a tag by name. The same name always maps
// to the same row, so repeated posts are harmless.
func (a *API) TagCreate(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	tag, err := a.svc.FindOrCreateTag(req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

// TagGetBySlug returns one tag by its slug.
func (a *API) TagGetBySlug(w http.ResponseWriter, r *http.Request) {
	tag, err := a.svc.TagBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

// TagGet returns one tag by id.
func (a *API) TagGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	tag, err := a.svc.Tag(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

// pruneResponse reports how many zero-usage tags were removed.
type pruneResponse struct {
	Pruned int64 `json:"pruned"`
}

// TagPrune deletes all zero-usage tags. Pruning only ever happens through
// this explicit call, never as a side effect of detaching.
func (a *API) TagPrune(w http.ResponseWriter, r *http.Request) {
	n, err := a.svc.PruneTags()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pruneResponse{Pruned: n})
}
