package form

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-formmanager/pkg/render"
	"github.com/goliatone/go-formmanager/pkg/renderers/vanilla"
)

var (
	defaultRendererOnce sync.Once
	defaultRenderer     render.Renderer
	defaultRendererErr  error
)

func sharedRenderer() (render.Renderer, error) {
	defaultRendererOnce.Do(func() {
		defaultRenderer, defaultRendererErr = vanilla.New()
	})
	return defaultRenderer, defaultRendererErr
}

// AddHiddenFields appends hidden inputs to the rendered form.
func (m *Manager) AddHiddenFields(fields ...render.HiddenField) {
	m.cfg.hidden = append(m.cfg.hidden, fields...)
}

// View builds the view model of the form. Disabled fields are left out.
func (m *Manager) View() render.View {
	return render.NewView(render.FormInfo{
		Name:         m.name,
		Container:    m.container,
		Action:       m.action,
		Method:       m.method,
		SubmitText:   m.submitText,
		Status:       string(m.status),
		Fieldsets:    m.fieldsets,
		HiddenInputs: render.MergeHiddenFields(m.cfg.hidden...),
		Errors:       m.formErrors,
	}, m.fields.Specs())
}

// RenderOptions returns the options Render passes to the renderer.
func (m *Manager) RenderOptions() render.RenderOptions {
	return render.RenderOptions{
		Template:   m.template,
		Theme:      m.cfg.theme,
		Locale:     m.cfg.locale,
		Translator: m.cfg.translator,
	}
}

// Render renders the form. The per-form template is used when it exists,
// otherwise the default layout.
func (m *Manager) Render(ctx context.Context) ([]byte, error) {
	renderer := m.cfg.renderer
	if renderer == nil {
		shared, err := sharedRenderer()
		if err != nil {
			return nil, fmt.Errorf("form: default renderer: %w", err)
		}
		renderer = shared
	}
	if renderer == nil {
		return nil, ErrNoRenderer
	}
	out, err := renderer.Render(ctx, m.View(), m.RenderOptions())
	if err != nil {
		return nil, fmt.Errorf("form: render %s: %w", m.name, err)
	}
	return out, nil
}
