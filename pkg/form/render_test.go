package form_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formmanager/pkg/definition"
	"github.com/goliatone/go-formmanager/pkg/form"
	"github.com/goliatone/go-formmanager/pkg/render"
	"github.com/goliatone/go-formmanager/pkg/testsupport"
)

type captureRenderer struct {
	view    render.View
	options render.RenderOptions
}

func (c *captureRenderer) Name() string        { return "capture" }
func (c *captureRenderer) ContentType() string { return "text/plain" }

func (c *captureRenderer) Render(_ context.Context, view render.View, options render.RenderOptions) ([]byte, error) {
	c.view = view
	c.options = options
	return []byte("ok"), nil
}

func TestRender_BuildsViewForRenderer(t *testing.T) {
	capture := &captureRenderer{}
	def := form.Definition{
		Name:       "post",
		Model:      "posts",
		Action:     "/posts/1",
		SubmitText: "Publish",
		Fieldsets:  []definition.Fieldset{{Legend: "Main", Fields: []string{"title", "status"}}},
	}
	m, err := form.New(testsupport.Context(), def,
		form.WithRepository(newRepository()),
		form.WithRecordID("1"),
		form.WithRenderer(capture),
		form.WithHiddenFields(render.CSRFToken("_csrf", "tok")),
		form.WithLocale("es", render.NewCatalog("en")),
	)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	m.DisableField("body")

	out, err := m.Render(testsupport.Context())
	if err != nil || string(out) != "ok" {
		t.Fatalf("render = %q, %v", out, err)
	}

	view := capture.view
	if view.Action != "/posts/1" || view.SubmitText != "Publish" || view.Method != "post" || view.Container != "post" {
		t.Fatalf("unexpected form info %+v", view)
	}
	var visible []string
	for _, fv := range view.Fields {
		visible = append(visible, fv.Name)
	}
	if diff := cmp.Diff([]string{"title", "status", "tags", "active", "author_id"}, visible); diff != "" {
		t.Fatalf("visible fields mismatch (-want +got):\n%s", diff)
	}
	if len(view.Hidden) != 1 || view.Hidden[0].Name != "id" {
		t.Fatalf("expected the primary key hidden, got %+v", view.Hidden)
	}
	if len(view.Fieldsets) != 1 || len(view.Fieldsets[0].Fields) != 2 {
		t.Fatalf("unexpected fieldsets %+v", view.Fieldsets)
	}
	if diff := cmp.Diff([]render.HiddenField{{Name: "_csrf", Value: "tok"}}, view.HiddenInputs); diff != "" {
		t.Fatalf("hidden inputs mismatch (-want +got):\n%s", diff)
	}
	if capture.options.Template != "formmanager/post" || capture.options.Locale != "es" || capture.options.Translator == nil {
		t.Fatalf("unexpected render options %+v", capture.options)
	}
}

func TestRender_DefaultRenderer(t *testing.T) {
	m := newPostForm(t, newRepository(), "1")
	m.DisableField("body")

	out, err := m.Render(testsupport.Context())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := testsupport.NormalizeHTML(string(out))
	for _, fragment := range []string{
		`<form method="post" id="post_form" class="formmanager-form">`,
		`<input type="hidden" name="post[id]" value="1" id="post_id">`,
		`name="post[title]" value="Hello"`,
		`<option value="live" selected="selected">live</option>`,
		`<option value="2" selected="selected">Linus</option>`,
		`<button type="submit">Save changes</button>`,
	} {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, html)
		}
	}
	if strings.Contains(html, "post[body]") {
		t.Fatalf("disabled field rendered:\n%s", html)
	}
}

func TestRender_StatusAfterFailedSubmit(t *testing.T) {
	capture := &captureRenderer{}
	m := newPostForm(t, newRepository(), "1", form.WithRenderer(capture), postInput(map[string][]string{
		"post[id]":    {"1"},
		"post[title]": {""},
	}))
	if ok, _ := m.Submit(testsupport.Context()); ok {
		t.Fatalf("expected the submission to fail")
	}
	if _, err := m.Render(testsupport.Context()); err != nil {
		t.Fatalf("render: %v", err)
	}
	if capture.view.Status != string(form.StatusFail) {
		t.Fatalf("view status = %q", capture.view.Status)
	}
	for _, fv := range capture.view.Fields {
		if fv.Name == "title" && (!fv.Error || fv.ErrorText == "") {
			t.Fatalf("title error not carried to the view: %+v", fv)
		}
	}
}
