package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formmanager/pkg/render"
)

func TestMapErrorPayload(t *testing.T) {
	fields := []string{"title", "status", "tags"}
	payload := map[string][]string{
		"title":            {"Title is required"},
		"post[status]":     {"Status invalid"},
		"/body/tags/0":     {"Tags must be unique"},
		"body.title":       {" Title is required ", "Title too short"},
		"non_field_errors": {"Form level error"},
		"post[unknown]":    {"Should fall back to form errors"},
		"":                 {"Unscoped form error"},
		"status":           {"  "},
	}

	mapped := render.MapErrorPayload(fields, payload)

	wantFields := map[string][]string{
		"title":  {"Title is required", "Title too short"},
		"status": {"Status invalid"},
		"tags":   {"Tags must be unique"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Form level error", "Should fall back to form errors", "Unscoped form error"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMapErrorPayload_Empty(t *testing.T) {
	mapped := render.MapErrorPayload([]string{"title"}, nil)
	if mapped.Fields != nil || mapped.Form != nil {
		t.Fatalf("expected empty mapping, got %+v", mapped)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
