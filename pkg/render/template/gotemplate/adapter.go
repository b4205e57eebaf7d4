package gotemplate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formmanager/pkg/render/template"
)

// Option configures the pongo2 adapter before construction.
type Option func(*config)

type config struct {
	baseDir   string
	templates fs.FS
	extension string
}

// WithBaseDir loads templates from a directory on disk ahead of the fs.FS, so
// the directory only needs the templates it overrides.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS configures the underlying engine to load templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the default template extension used by the engine.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// Engine satisfies template.TemplateRenderer using a pongo2 template set.
// Every name, including the target of an include tag, is resolved from the
// template root: "formmanager/fields/text.tpl" includes
// "formmanager/html/label.tpl" by that full name.
type Engine struct {
	mu sync.RWMutex

	templateSet *pongo2.TemplateSet
	templates   map[string]*pongo2.Template
	tplExt      string
	sources     []fs.FS
}

var (
	_ template.TemplateRenderer = (*Engine)(nil)
	_ template.Finder           = (*Engine)(nil)
)

// New constructs an Engine using the provided configuration options.
func New(options ...Option) (*Engine, error) {
	cfg := &config{
		extension: ".tpl",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	var sources []fs.FS
	if cfg.baseDir != "" {
		info, err := os.Stat(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: base dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("gotemplate: base dir %s is not a directory", cfg.baseDir)
		}
		sources = append(sources, os.DirFS(cfg.baseDir))
	}
	if cfg.templates != nil {
		sources = append(sources, cfg.templates)
	}
	if len(sources) == 0 {
		return nil, errors.New("gotemplate: need to provide either base dir or fs.FS")
	}

	loaders := make([]pongo2.TemplateLoader, 0, len(sources))
	for _, src := range sources {
		loaders = append(loaders, rootedLoader{files: src})
	}

	registerDefaultFilters()
	return &Engine{
		templateSet: pongo2.NewSet("formmanager", loaders...),
		templates:   make(map[string]*pongo2.Template),
		tplExt:      cfg.extension,
		sources:     sources,
	}, nil
}

// rootedLoader resolves names against the root of its fs.FS instead of the
// directory of the including template.
type rootedLoader struct {
	files fs.FS
}

func (l rootedLoader) Abs(_, name string) string {
	return cleanName(name)
}

func (l rootedLoader) Get(name string) (io.Reader, error) {
	data, err := fs.ReadFile(l.files, cleanName(name))
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

func cleanName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}

// Exists reports whether a template named name (extension optional) can be
// loaded.
func (e *Engine) Exists(name string) bool {
	if e == nil || strings.TrimSpace(name) == "" {
		return false
	}
	templatePath := e.templatePath(name)

	e.mu.RLock()
	_, cached := e.templates[templatePath]
	e.mu.RUnlock()
	if cached {
		return true
	}

	for _, src := range e.sources {
		if info, err := fs.Stat(src, templatePath); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

func (e *Engine) templatePath(name string) string {
	templatePath := cleanName(name)
	if !strings.HasSuffix(templatePath, e.tplExt) {
		templatePath += e.tplExt
	}
	return templatePath
}

// RenderTemplate renders the named template file. The extension is optional.
// The result is also written to every out writer.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	templatePath := e.templatePath(name)

	tmpl, err := e.getTemplate(templatePath)
	if err != nil {
		return "", err
	}

	viewContext, err := convertToContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: convert data: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(viewContext, &buf); err != nil {
		return "", fmt.Errorf("gotemplate: execute template %q: %w", templatePath, err)
	}

	rendered := buf.String()
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

func (e *Engine) getTemplate(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}

	tmpl, err := e.templateSet.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load template %q: %w", path, err)
	}

	e.templates[path] = tmpl
	return tmpl, nil
}

// convertToContext turns data into plain maps and slices keyed by the json
// names of struct fields, which is how templates address view models
// ("field.field_name").
func convertToContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return convertMap(v)
	case map[string]any:
		return convertMap(v)
	default:
		raw, err := jsonToAny(v)
		if err != nil {
			return nil, err
		}
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("template data is %T, not an object", data)
		}
		return pongo2.Context(m), nil
	}
}

func convertMap(in map[string]any) (pongo2.Context, error) {
	out := make(pongo2.Context, len(in))
	for key, value := range in {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if value == nil {
			out[key] = nil
			continue
		}
		converted, err := jsonToAny(value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		out[key] = converted
	}
	return out, nil
}

func jsonToAny(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func registerDefaultFilters() {
	if !pongo2.FilterExists("html_attrs") {
		_ = pongo2.RegisterFilter("html_attrs", filterHTMLAttrs)
	}
}

// filterHTMLAttrs renders a list of {"name","value"} objects as escaped
// ` name="value"` pairs.
func filterHTMLAttrs(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	items, ok := in.Interface().([]any)
	if !ok {
		return pongo2.AsSafeValue(""), nil
	}
	var b strings.Builder
	for _, item := range items {
		attr, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name := strings.TrimSpace(fmt.Sprint(attr["name"]))
		if name == "" || attr["name"] == nil {
			continue
		}
		value := ""
		if attr["value"] != nil {
			value = fmt.Sprint(attr["value"])
		}
		b.WriteString(" ")
		b.WriteString(html.EscapeString(name))
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(value))
		b.WriteString(`"`)
	}
	return pongo2.AsSafeValue(b.String()), nil
}
