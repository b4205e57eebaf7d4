package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formmanager/pkg/render"
	rendertemplate "github.com/goliatone/go-formmanager/pkg/render/template"
	gotemplate "github.com/goliatone/go-formmanager/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formmanager/pkg/renderers/vanilla/components"
)

// Name is the registry name of the HTML renderer.
const Name = "vanilla"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templatesDir     string
	templateRenderer rendertemplate.TemplateRenderer
	components       *components.Registry
	stylesheets      []string
	inlineStyles     bool
}

// WithTemplatesFS replaces the embedded template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk before the
// embedded bundle, so a directory only needs the templates it overrides
// (for example "formmanager/post.tpl").
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templatesDir = strings.TrimSpace(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponents replaces the component registry.
func WithComponents(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.components = registry
		}
	}
}

// WithStylesheet links an external stylesheet ahead of the form.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		if href = strings.TrimSpace(href); href != "" {
			cfg.stylesheets = append(cfg.stylesheets, href)
		}
	}
}

// WithDefaultStyles inlines the embedded stylesheet ahead of the form.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

// Renderer renders form views as HTML through pongo2 templates.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	exists       func(string) bool
	components   *components.Registry
	stylesheets  []string
	inlineStyles string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.components == nil {
		cfg.components = components.NewDefaultRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		opts := []gotemplate.Option{
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tpl"),
		}
		if cfg.templatesDir != "" {
			opts = append(opts, gotemplate.WithBaseDir(cfg.templatesDir))
		}
		engine, err := gotemplate.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	out := &Renderer{
		templates:   renderer,
		components:  cfg.components,
		stylesheets: append([]string(nil), cfg.stylesheets...),
	}
	if finder, ok := renderer.(rendertemplate.Finder); ok {
		out.exists = finder.Exists
	}
	if cfg.inlineStyles {
		out.inlineStyles = defaultStylesheet()
	}
	return out, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render localizes a copy of view, renders every field through its component
// and wraps the result in the form template. A missing per-form template
// falls back to render.DefaultFormTemplate.
func (r *Renderer) Render(ctx context.Context, view render.View, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v := view.Clone()
	render.Localize(&v, options.Locale, options.Translator)

	resolver := render.NewResolver(r.exists)
	classes := chromeClasses()
	themeCtx := themeContext(options.Theme)

	fields := newComponentRenderer(r.components, components.ComponentData{
		Template: r.templates,
		Partial: func(key string) string {
			return resolver.Partial(key, options.Theme)
		},
		Context: map[string]any{
			"classes": classes,
			"theme":   themeCtx,
		},
	})
	if err := fields.renderAll(v.Fields); err != nil {
		return nil, fmt.Errorf("vanilla renderer: %w", err)
	}
	if err := fields.renderAll(v.Hidden); err != nil {
		return nil, fmt.Errorf("vanilla renderer: %w", err)
	}
	for i := range v.Fieldsets {
		if err := fields.renderAll(v.Fieldsets[i].Fields); err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
	}

	stylesheets := append([]string(nil), r.stylesheets...)
	stylesheets = append(stylesheets, fields.stylesheets()...)

	templateName := resolver.Form(options.Template, options.Theme)
	result, err := r.templates.RenderTemplate(templateName, map[string]any{
		"form":          v,
		"classes":       classes,
		"theme":         themeCtx,
		"stylesheets":   stylesheets,
		"inline_styles": r.inlineStyles,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template %q: %w", templateName, err)
	}
	return []byte(result), nil
}

type rendererTheme struct {
	Name         string            `json:"name,omitempty"`
	Variant      string            `json:"variant,omitempty"`
	Tokens       map[string]string `json:"tokens,omitempty"`
	CSSVarsStyle string            `json:"css_vars_style,omitempty"`
}

func themeContext(cfg *theme.RendererConfig) rendererTheme {
	if cfg == nil {
		return rendererTheme{}
	}
	return rendererTheme{
		Name:         cfg.Theme,
		Variant:      cfg.Variant,
		Tokens:       cfg.Tokens,
		CSSVarsStyle: cssVarsStyle(cfg.CSSVars),
	}
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+vars[key])
	}
	return strings.Join(parts, "; ")
}
