package components

import (
	"bytes"
	"fmt"
	"html"

	"github.com/goliatone/go-formmanager/pkg/render"
)

// NewDefaultRegistry constructs a registry holding the built-in display kinds,
// each rendered by the "formmanager/fields/<kind>" partial.
func NewDefaultRegistry() *Registry {
	registry := New()
	for _, name := range []string{NameText, NameTextarea, NameSelect, NameCheckboxes, NameBool} {
		registry.MustRegister(name, Descriptor{
			Renderer: TemplateRenderer(render.FieldTemplate(name)),
		})
	}
	registry.MustRegister(NameHidden, Descriptor{Renderer: hiddenRenderer})
	return registry
}

// TemplateRenderer renders a field through templateName, or its theme
// override.
func TemplateRenderer(templateName string) Renderer {
	return func(buf *bytes.Buffer, field render.FieldView, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}
		resolved := data.partial(templateName)

		payload := make(map[string]any, len(data.Context)+1)
		for key, value := range data.Context {
			payload[key] = value
		}
		payload["field"] = field

		rendered, err := data.Template.RenderTemplate(resolved, payload)
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolved, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

func hiddenRenderer(buf *bytes.Buffer, field render.FieldView, _ ComponentData) error {
	buf.WriteString(`<input type="hidden" name="`)
	buf.WriteString(html.EscapeString(field.FieldName))
	buf.WriteString(`" value="`)
	buf.WriteString(html.EscapeString(field.Value))
	buf.WriteString(`"`)
	if field.FieldID != "" {
		buf.WriteString(` id="`)
		buf.WriteString(html.EscapeString(field.FieldID))
		buf.WriteString(`"`)
	}
	buf.WriteString(">")
	return nil
}
