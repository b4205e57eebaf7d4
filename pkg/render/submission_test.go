package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formmanager/pkg/render"
)

func TestMergeHiddenFields(t *testing.T) {
	merged := render.MergeHiddenFields(
		render.Hidden(" version ", 3),
		render.CSRFToken("_csrf", "token123"),
		render.Hidden("  ", "skip"),
		render.Hidden("version", 4),
	)

	want := []render.HiddenField{
		{Name: "_csrf", Value: "token123"},
		{Name: "version", Value: "4"},
	}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}

	if got := render.MergeHiddenFields(); got != nil {
		t.Fatalf("expected nil for no fields, got %v", got)
	}
}
