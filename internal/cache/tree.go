// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// tree.go provides a Valkey-backed cache for the assembled category tree.
// Building the tree reads every category row; most requests only read it,
// so the JSON-encoded result is kept in Valkey until a mutation
// invalidates it. The cache is never trusted across mutations: every
// category write goes through the façade, which calls Invalidate first.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"inkwell/internal/models"
)

const (
	// treeKeyPrefix namespaces the cached tree variants (all vs active-only).
	treeKeyPrefix = "taxonomy:tree:"

	// DefaultTreeTTL bounds staleness even if an invalidation is missed.
	DefaultTreeTTL = 5 * time.Minute
)

// TreeCache stores the serialized category tree in Valkey.
type TreeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTreeCache creates a tree cache backed by the given Valkey client.
func NewTreeCache(client *redis.Client, ttl time.Duration) *TreeCache {
	if ttl == 0 {
		ttl = DefaultTreeTTL
	}
	return &TreeCache{client: client, ttl: ttl}
}

func treeKey(activeOnly bool) string {
	if activeOnly {
		return treeKeyPrefix + "active"
	}
	return treeKeyPrefix + "all"
}

// Get retrieves the cached tree variant. Returns false on miss or any
// cache error; callers fall back to the database.
func (tc *TreeCache) Get(ctx context.Context, activeOnly bool) ([]models.Category, bool) {
	val, err := tc.client.Get(ctx, treeKey(activeOnly)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("tree cache get error", "error", err)
		return nil, false
	}

	var tree []models.Category
	if err := json.Unmarshal(val, &tree); err != nil {
		slog.Warn("tree cache decode error", "error", err)
		return nil, false
	}
	return tree, true
}

// Set stores a tree variant. Cache errors are logged, never returned:
// serving from the database is always correct.
func (tc *TreeCache) Set(ctx context.Context, activeOnly bool, tree []models.Category) {
	val, err := json.Marshal(tree)
	if err != nil {
		slog.Warn("tree cache encode error", "error", err)
		return
	}
	if err := tc.client.Set(ctx, treeKey(activeOnly), val, tc.ttl).Err(); err != nil {
		slog.Warn("tree cache set error", "error", err)
	}
}

// Invalidate drops both tree variants. Called before any category
// mutation is visible to readers.
func (tc *TreeCache) Invalidate(ctx context.Context) {
	if err := tc.client.Del(ctx, treeKey(true), treeKey(false)).Err(); err != nil {
		slog.Warn("tree cache invalidate error", "error", err)
	}
}
