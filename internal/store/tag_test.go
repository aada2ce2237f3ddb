package store

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"inkwell/internal/apperr"
)

func TestTagFindOrCreate(t *testing.T) {
	db := testDB(t)
	s := NewTagStore(db)

	name := "Fiction " + uuid.NewString()[:8]
	first, err := s.FindOrCreate(name)
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	t.Cleanup(func() { cleanTags(t, db, first.Slug) })

	if first.UsageCount != 0 {
		t.Errorf("new tag usage: got %d, want 0", first.UsageCount)
	}

	// Same name again returns the same tag.
	second, err := s.FindOrCreate(name)
	if err != nil {
		t.Fatalf("FindOrCreate (repeat): %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("repeat returned different tag: %d vs %d", second.ID, first.ID)
	}

	// Case-insensitive: the upper-cased name maps to the same slug.
	third, err := s.FindOrCreate(strings.ToUpper(name))
	if err != nil {
		t.Fatalf("FindOrCreate (upper): %v", err)
	}
	if third.ID != first.ID {
		t.Errorf("case variant returned different tag: %d vs %d", third.ID, first.ID)
	}

	// find_or_create never bumps usage.
	if third.UsageCount != 0 {
		t.Errorf("usage after repeated find-or-create: got %d, want 0", third.UsageCount)
	}
}

func TestTagFindOrCreateValidation(t *testing.T) {
	db := testDB(t)
	s := NewTagStore(db)

	if _, err := s.FindOrCreate("  "); !apperr.IsValidation(err) {
		t.Errorf("blank name: got %v, want validation error", err)
	}
	if _, err := s.FindOrCreate("!!!"); !apperr.IsValidation(err) {
		t.Errorf("unsluggable name: got %v, want validation error", err)
	}
	long := make([]byte, maxTagNameLen+1)
	for i := range long {
		long[i] = 'x'
	}
	if _, err := s.FindOrCreate(string(long)); !apperr.IsValidation(err) {
		t.Errorf("overlong name: got %v, want validation error", err)
	}
}

func TestTagUsageCounters(t *testing.T) {
	db := testDB(t)
	s := NewTagStore(db)

	tag, err := s.FindOrCreate("counter " + uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	t.Cleanup(func() { cleanTags(t, db, tag.Slug) })

	if err := s.IncrementUsage(tag.ID); err != nil {
		t.Fatalf("IncrementUsage: %v", err)
	}
	if err := s.IncrementUsage(tag.ID); err != nil {
		t.Fatalf("IncrementUsage: %v", err)
	}

	refreshed, err := s.FindByID(tag.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if refreshed.UsageCount != 2 {
		t.Errorf("usage after two increments: got %d, want 2", refreshed.UsageCount)
	}

	if err := s.DecrementUsage(tag.ID); err != nil {
		t.Fatalf("DecrementUsage: %v", err)
	}
	if err := s.DecrementUsage(tag.ID); err != nil {
		t.Fatalf("DecrementUsage: %v", err)
	}
	// Third decrement clamps at zero instead of going negative.
	if err := s.DecrementUsage(tag.ID); err != nil {
		t.Fatalf("DecrementUsage (clamped): %v", err)
	}

	refreshed, err = s.FindByID(tag.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if refreshed.UsageCount != 0 {
		t.Errorf("usage after clamped decrements: got %d, want 0", refreshed.UsageCount)
	}
}

func TestTagUsageMissingTag(t *testing.T) {
	db := testDB(t)
	s := NewTagStore(db)

	if err := s.IncrementUsage(-1); !apperr.IsNotFound(err) {
		t.Errorf("increment missing: got %v, want not-found error", err)
	}
	if err := s.DecrementUsage(-1); !apperr.IsNotFound(err) {
		t.Errorf("decrement missing: got %v, want not-found error", err)
	}
}

func TestTagPruneUnused(t *testing.T) {
	db := testDB(t)
	s := NewTagStore(db)

	orphan, err := s.FindOrCreate("orphan " + uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	t.Cleanup(func() { cleanTags(t, db, orphan.Slug) })

	kept, err := s.FindOrCreate("kept " + uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	t.Cleanup(func() { cleanTags(t, db, kept.Slug) })
	if err := s.IncrementUsage(kept.ID); err != nil {
		t.Fatalf("IncrementUsage: %v", err)
	}

	if _, err := s.PruneUnused(); err != nil {
		t.Fatalf("PruneUnused: %v", err)
	}

	gone, err := s.FindByID(orphan.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if gone != nil {
		t.Error("zero-usage tag survived pruning")
	}

	alive, err := s.FindByID(kept.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if alive == nil {
		t.Error("in-use tag was pruned")
	}
}

func TestTagList(t *testing.T) {
	db := testDB(t)
	s := NewTagStore(db)

	tag, err := s.FindOrCreate("listed " + uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	t.Cleanup(func() { cleanTags(t, db, tag.Slug) })

	tags, err := s.List(true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	found := false
	for _, item := range tags {
		if item.ID == tag.ID {
			found = true
		}
	}
	if !found {
		t.Error("created tag missing from active list")
	}
}
