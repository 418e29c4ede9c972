package apperr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestValidationErrorUnwrapsToKind(t *testing.T) {
	err := fmt.Errorf("create customer: %w", Invalid("axis_left", "max", "must be between 0 and 180"))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError in chain")
	}
	if len(ve.Fields) != 1 || ve.Fields[0].Field != "axis_left" {
		t.Fatalf("unexpected fields: %+v", ve.Fields)
	}
	if !strings.Contains(err.Error(), "axis_left") {
		t.Fatalf("message should name the field: %q", err.Error())
	}
}

func TestKindHelpers(t *testing.T) {
	cases := []struct {
		err  error
		kind error
	}{
		{NotFound("customer"), ErrNotFound},
		{Conflict("duplicate phone"), ErrConflict},
		{Forbidden("bill"), ErrPermissionDenied},
	}
	for _, tc := range cases {
		if !errors.Is(tc.err, tc.kind) {
			t.Fatalf("%v does not match %v", tc.err, tc.kind)
		}
	}
}
