package template_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formmanager/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formmanager/pkg/testsupport"
)

var templateFiles = fstest.MapFS{
	"hello.tpl":                   {Data: []byte("Hello {{ name }}!")},
	"attrs.tpl":                   {Data: []byte("<input{{ attributes|html_attrs }}>")},
	"formmanager/form.tpl":        {Data: []byte(`<form>{% include "formmanager/html/label.tpl" %}</form>`)},
	"formmanager/fields/text.tpl": {Data: []byte(`{% include "formmanager/html/label.tpl" %}<input>`)},
	"formmanager/html/label.tpl":  {Data: []byte("<label>{{ label }}</label>")},
}

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	want := "Hello Ada!"
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestGoTemplateEngine_IncludesResolveFromRoot(t *testing.T) {
	engine := newEngine(t)

	for name, want := range map[string]string{
		"formmanager/form":        "<form><label>Title</label></form>",
		"formmanager/fields/text": "<label>Title</label><input>",
	} {
		got, err := engine.RenderTemplate(name, map[string]any{"label": "Title"})
		if err != nil {
			t.Fatalf("render %s: %v", name, err)
		}
		if got != want {
			t.Fatalf("render %s\nwant: %q\n got: %q", name, want, got)
		}
	}
}

func TestGoTemplateEngine_BaseDirOverridesIncludedPartial(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "formmanager", "html"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "formmanager", "html", "label.tpl"), []byte("<b>{{ label }}</b>"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	engine, err := gotemplate.New(gotemplate.WithBaseDir(dir), gotemplate.WithFS(templateFiles))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	got, err := engine.RenderTemplate("formmanager/fields/text", map[string]any{"label": "Title"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "<b>Title</b><input>" {
		t.Fatalf("unexpected output %q", got)
	}
	if !engine.Exists("formmanager/html/label") || !engine.Exists("hello") {
		t.Fatalf("expected templates from both sources to exist")
	}
}

func TestGoTemplateEngine_StructData(t *testing.T) {
	engine := newEngine(t)

	type view struct {
		Label string `json:"label"`
	}
	got, err := engine.RenderTemplate("formmanager/html/label", view{Label: "Body"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "<label>Body</label>" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestGoTemplateEngine_HTMLAttrs(t *testing.T) {
	engine := newEngine(t)

	type attr struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	result, err := engine.RenderTemplate("attrs", map[string]any{
		"attributes": []attr{{Name: "id", Value: "post_title"}, {Name: "placeholder", Value: `say "hi"`}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<input id="post_title" placeholder="say &#34;hi&#34;">`
	if result != want {
		t.Fatalf("attrs mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestGoTemplateEngine_Exists(t *testing.T) {
	engine := newEngine(t)

	if !engine.Exists("formmanager/fields/text") {
		t.Fatalf("expected nested template to exist")
	}
	if !engine.Exists("hello.tpl") {
		t.Fatalf("expected template with extension to exist")
	}
	if engine.Exists("formmanager/post") {
		t.Fatalf("did not expect missing template to exist")
	}
	if engine.Exists("formmanager") {
		t.Fatalf("directories are not templates")
	}
}

func TestGoTemplateEngine_RequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without templates")
	}
	if _, err := gotemplate.New(gotemplate.WithBaseDir(filepath.Join(t.TempDir(), "missing"))); err == nil {
		t.Fatalf("expected error for a missing base dir")
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	engine, err := gotemplate.New(gotemplate.WithFS(templateFiles))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
