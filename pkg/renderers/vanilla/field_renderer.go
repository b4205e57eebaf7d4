package vanilla

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/goliatone/go-formmanager/pkg/field"
	"github.com/goliatone/go-formmanager/pkg/render"
	"github.com/goliatone/go-formmanager/pkg/renderers/vanilla/components"
)

type componentRenderer struct {
	registry *components.Registry
	data     components.ComponentData

	usedComponents map[string]struct{}
}

func newComponentRenderer(registry *components.Registry, data components.ComponentData) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	return &componentRenderer{
		registry:       registry,
		data:           data,
		usedComponents: make(map[string]struct{}),
	}
}

func (r *componentRenderer) render(fv render.FieldView) (string, error) {
	componentName := strings.TrimSpace(fv.DisplayAs)
	if componentName == "" {
		componentName = string(field.DisplayText)
	}

	descriptor, ok := r.registry.Descriptor(componentName)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", componentName, fv.Name)
	}

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, fv, r.data); err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", componentName, fv.Name, err)
	}
	r.usedComponents[descriptor.Name] = struct{}{}
	return strings.TrimRight(control.String(), "\n"), nil
}

// renderAll fills the HTML of every field in place.
func (r *componentRenderer) renderAll(fields []render.FieldView) error {
	for i := range fields {
		markup, err := r.render(fields[i])
		if err != nil {
			return err
		}
		fields[i].HTML = markup
	}
	return nil
}

func (r *componentRenderer) stylesheets() []string {
	if len(r.usedComponents) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.usedComponents))
	for name := range r.usedComponents {
		names = append(names, name)
	}
	slices.Sort(names)
	return r.registry.Stylesheets(names)
}
