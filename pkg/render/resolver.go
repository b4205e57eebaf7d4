package render

import (
	"strings"

	theme "github.com/goliatone/go-theme"
)

const (
	// DefaultFormTemplate is the layout used when a form has no template of
	// its own.
	DefaultFormTemplate = "formmanager/form"
	// FormTemplatePrefix prefixes per-form templates: "formmanager/<form>".
	FormTemplatePrefix = "formmanager/"
	// FieldTemplatePrefix prefixes field partials: "formmanager/fields/<display_as>".
	FieldTemplatePrefix = "formmanager/fields/"
)

// FormTemplate names the per-form template of form.
func FormTemplate(form string) string {
	return FormTemplatePrefix + strings.TrimSpace(form)
}

// FieldTemplate names the partial for a display kind.
func FieldTemplate(display string) string {
	return FieldTemplatePrefix + strings.TrimSpace(display)
}

// Resolver picks template names, honouring theme overrides and falling back
// to the default layout when a template is missing.
type Resolver struct {
	exists func(name string) bool
}

// NewResolver builds a resolver. A nil exists reports every template present.
func NewResolver(exists func(name string) bool) Resolver {
	if exists == nil {
		exists = func(string) bool { return true }
	}
	return Resolver{exists: exists}
}

// Form resolves the layout template. A theme partial keyed by the resolved
// name replaces it when present.
func (r Resolver) Form(name string, cfg *theme.RendererConfig) string {
	resolved := DefaultFormTemplate
	if trimmed := strings.TrimSpace(name); trimmed != "" && r.exists(trimmed) {
		resolved = trimmed
	}
	return r.Partial(resolved, cfg)
}

// Partial returns the theme override for key, or key itself.
func (r Resolver) Partial(key string, cfg *theme.RendererConfig) string {
	if cfg == nil || len(cfg.Partials) == 0 {
		return key
	}
	if override := strings.TrimSpace(cfg.Partials[key]); override != "" && r.exists(override) {
		return override
	}
	return key
}
