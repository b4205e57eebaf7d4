package render_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-formmanager/pkg/field"
	"github.com/goliatone/go-formmanager/pkg/render"
)

func TestCatalog_TranslateWithFallback(t *testing.T) {
	catalog := render.NewCatalog("en")
	if err := catalog.Load(map[string]map[string]string{
		"en": {"Save changes": "Save changes", "greeting": "Hello %s"},
		"es": {"Save changes": "Guardar cambios"},
	}); err != nil {
		t.Fatalf("load: %v", err)
	}

	got, err := catalog.Translate("es-MX", "Save changes")
	if err != nil || got != "Guardar cambios" {
		t.Fatalf("es-MX translate = %q, %v", got, err)
	}
	got, err = catalog.Translate("es", "greeting", "Ada")
	if err != nil || got != "Hello Ada" {
		t.Fatalf("fallback translate = %q, %v", got, err)
	}
	if _, err := catalog.Translate("es", "unknown"); !errors.Is(err, render.ErrMissingTranslation) {
		t.Fatalf("expected ErrMissingTranslation, got %v", err)
	}
}

func TestLocalize_TranslatesKnownTexts(t *testing.T) {
	catalog := render.NewCatalog("en")
	_ = catalog.Set("es", "Save changes", "Guardar cambios")
	_ = catalog.Set("es", "Title", "Título")

	title := newSpec("title", field.DisplayText, field.String(""))
	body := newSpec("body", field.DisplayTextarea, field.String(""))
	view := render.NewView(render.FormInfo{SubmitText: "Save changes"}, []*field.Spec{title, body})

	render.Localize(&view, "es", catalog)

	if view.SubmitText != "Guardar cambios" {
		t.Fatalf("submit text = %q", view.SubmitText)
	}
	if view.Fields[0].Label != "Título" {
		t.Fatalf("title label = %q", view.Fields[0].Label)
	}
	if view.Fields[1].Label != "Body" {
		t.Fatalf("untranslated label should be kept, got %q", view.Fields[1].Label)
	}
}
