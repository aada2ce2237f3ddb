package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"inkwell/internal/slug"
)

// Seed populates the database with initial development data: a small
// category tree and a few tags, so the API has something to serve on a
// fresh install. It is a no-op when categories already exist.
func Seed(db *sql.DB) error {
	// Check if any categories exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	roots := []struct {
		name, slug string
		children   []string
	}{
		{name: "Fiction", slug: "fiction", children: []string{"Short Stories", "Novels"}},
		{name: "Non-Fiction", slug: "non-fiction", children: []string{"Essays"}},
		{name: "Poetry", slug: "poetry"},
	}

	for i, root := range roots {
		var rootID int64
		err := db.QueryRow(`
			INSERT INTO categories (name, slug, order_index)
			VALUES ($1, $2, $3)
			RETURNING id
		`, root.name, root.slug, i).Scan(&rootID)
		if err != nil {
			return fmt.Errorf("seed insert category %q: %w", root.name, err)
		}

		for j, child := range root.children {
			_, err := db.Exec(`
				INSERT INTO categories (name, slug, parent_id, order_index)
				VALUES ($1, $2, $3, $4)
			`, child, slug.Generate(child), rootID, j)
			if err != nil {
				return fmt.Errorf("seed insert category %q: %w", child, err)
			}
		}
	}

	tags := []struct{ name, slug string }{
		{"writing", "writing"},
		{"publishing", "publishing"},
		{"craft", "craft"},
	}
	for _, tag := range tags {
		if _, err := db.Exec(`INSERT INTO tags (name, slug) VALUES ($1, $2)`, tag.name, tag.slug); err != nil {
			return fmt.Errorf("seed insert tag %q: %w", tag.name, err)
		}
	}

	slog.Info("database seeded with starter taxonomy",
		"categories", len(roots),
		"tags", len(tags),
	)

	return nil
}
