package models

import "testing"

// TestArticleIsPublished verifies that IsPublished returns true only for
// the "published" status.
func TestArticleIsPublished(t *testing.T) {
	tests := []struct {
		name   string
		status ArticleStatus
		want   bool
	}{
		{name: "published", status: ArticleStatusPublished, want: true},
		{name: "draft", status: ArticleStatusDraft, want: false},
		{name: "archived", status: ArticleStatusArchived, want: false},
		{name: "empty status", status: ArticleStatus(""), want: false},
		{name: "uppercase PUBLISHED", status: ArticleStatus("PUBLISHED"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Article{Status: tt.status}
			if got := a.IsPublished(); got != tt.want {
				t.Errorf("Article{Status: %q}.IsPublished() = %v, want %v",
					tt.status, got, tt.want)
			}
		})
	}
}

// TestCategoryIsRoot verifies root detection via the parent reference.
func TestCategoryIsRoot(t *testing.T) {
	root := &Category{ID: 1}
	if !root.IsRoot() {
		t.Error("category without parent should be root")
	}

	parentID := int64(1)
	child := &Category{ID: 2, ParentID: &parentID}
	if child.IsRoot() {
		t.Error("category with parent should not be root")
	}
}

// TestTagIsUnused verifies zero-usage detection.
func TestTagIsUnused(t *testing.T) {
	if !(&Tag{UsageCount: 0}).IsUnused() {
		t.Error("tag with usage 0 should be unused")
	}
	if (&Tag{UsageCount: 3}).IsUnused() {
		t.Error("tag with usage 3 should not be unused")
	}
}
