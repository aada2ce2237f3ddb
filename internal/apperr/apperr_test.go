package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "validation", err: Validationf("bad name %q", "x"), want: KindValidation},
		{name: "not found", err: NotFoundf("category %d not found", 7), want: KindNotFound},
		{name: "conflict", err: Conflictf("category has children"), want: KindConflict},
		{name: "foreign error", err: errors.New("disk on fire"), want: KindUnknown},
		{name: "nil", err: nil, want: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestKindSurvivesWrapping verifies the kind is still detectable after
// fmt.Errorf("%w") wrapping, which stores do routinely.
func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("set article tags: %w", NotFoundf("article 12 not found"))
	if !IsNotFound(err) {
		t.Error("wrapped not-found error lost its kind")
	}
	if IsConflict(err) {
		t.Error("wrapped not-found error reported as conflict")
	}
}

func TestMessage(t *testing.T) {
	err := Validationf("category with name %q already exists", "Fiction")
	want := `category with name "Fiction" already exists`
	if err.Error() != want {
		t.Errorf("message: got %q, want %q", err.Error(), want)
	}
}
