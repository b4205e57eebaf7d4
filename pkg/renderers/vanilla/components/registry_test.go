package components

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/goliatone/go-formmanager/pkg/render"
)

func TestRegistryDescriptorClone(t *testing.T) {
	reg := New()
	renderer := func(buf *bytes.Buffer, field render.FieldView, data ComponentData) error { return nil }

	if err := reg.Register("test", Descriptor{Renderer: renderer, Stylesheets: []string{"/a.css"}}); err != nil {
		t.Fatalf("register: %v", err)
	}

	desc, ok := reg.Descriptor("TEST")
	if !ok {
		t.Fatalf("descriptor not found")
	}

	desc.Stylesheets = append(desc.Stylesheets, "/mutated.css")

	original, _ := reg.Descriptor("test")
	if len(original.Stylesheets) != 1 || original.Stylesheets[0] != "/a.css" {
		t.Fatalf("registry descriptor mutated: %#v", original.Stylesheets)
	}
}

func TestRegistryStylesheetsDeduplicates(t *testing.T) {
	reg := New()
	renderer := func(buf *bytes.Buffer, field render.FieldView, data ComponentData) error { return nil }

	reg.MustRegister("text", Descriptor{Renderer: renderer, Stylesheets: []string{"/shared.css", "/text.css"}})
	reg.MustRegister("select", Descriptor{Renderer: renderer, Stylesheets: []string{"/shared.css", "/select.css"}})

	got := reg.Stylesheets([]string{"text", "select", "missing"})
	want := []string{"/shared.css", "/text.css", "/select.css"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("stylesheets = %v, want %v", got, want)
	}
}

func TestRegistryRejectsInvalid(t *testing.T) {
	reg := New()
	if err := reg.Register(" ", Descriptor{Renderer: hiddenRenderer}); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if err := reg.Register("text", Descriptor{}); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
}

func TestDefaultRegistryNames(t *testing.T) {
	got := NewDefaultRegistry().Names()
	want := []string{"bool", "checkboxes", "hidden", "select", "text", "textarea"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("names = %v, want %v", got, want)
	}
}

func TestTemplateRendererUsesPartial(t *testing.T) {
	tpl := &recordingTemplates{}
	renderFn := TemplateRenderer("formmanager/fields/select")

	var buf bytes.Buffer
	err := renderFn(&buf, testField("status"), ComponentData{
		Template: tpl,
		Partial: func(key string) string {
			if key == "formmanager/fields/select" {
				return "themes/acme/select"
			}
			return key
		},
		Context: map[string]any{"classes": map[string]string{"field": "x"}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(tpl.calls) != 1 || tpl.calls[0] != "themes/acme/select" {
		t.Fatalf("theme partial not applied, got %v", tpl.calls)
	}
	payload := tpl.data[0].(map[string]any)
	if _, ok := payload["classes"]; !ok {
		t.Fatalf("expected context merged into payload")
	}
	if buf.String() != "rendered" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestTemplateRendererRequiresTemplates(t *testing.T) {
	var buf bytes.Buffer
	if err := TemplateRenderer("x")(&buf, testField("a"), ComponentData{}); err == nil {
		t.Fatalf("expected error without template renderer")
	}
}

func TestHiddenRendererEscapes(t *testing.T) {
	var buf bytes.Buffer
	field := testField("id")
	field.Value = `7"><script>`
	if err := hiddenRenderer(&buf, field, ComponentData{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<input type="hidden" name="post[id]" value="7&#34;&gt;&lt;script&gt;" id="post_id">`
	if buf.String() != want {
		t.Fatalf("hidden mismatch\nwant: %s\n got: %s", want, buf.String())
	}
}

func testField(name string) render.FieldView {
	return render.FieldView{Name: name, FieldName: "post[" + name + "]", FieldID: "post_" + name}
}

type recordingTemplates struct {
	calls []string
	data  []any
}

func (r *recordingTemplates) RenderTemplate(name string, data any, _ ...io.Writer) (string, error) {
	r.calls = append(r.calls, name)
	r.data = append(r.data, data)
	return "rendered", nil
}
