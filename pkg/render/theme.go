package render

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

// ErrThemeNotFound is returned when a selection names an unknown theme or
// variant.
var ErrThemeNotFound = errors.New("render: theme not found")

// Themes is an in-memory theme selector.
type Themes struct {
	mu             sync.RWMutex
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*Themes)(nil)

// NewThemes creates a selector. The first registered manifest becomes the
// default theme unless defaultTheme names one.
func NewThemes(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*Themes, error) {
	t := &Themes{
		manifests:      make(map[string]*theme.Manifest),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	for _, manifest := range manifests {
		if err := t.Register(manifest); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Register adds a manifest. Duplicate names return an error.
func (t *Themes) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return fmt.Errorf("render: theme manifest name is required")
	}
	name := strings.TrimSpace(manifest.Name)

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.manifests[name]; exists {
		return fmt.Errorf("render: theme %q already registered", name)
	}
	t.manifests[name] = manifest
	if t.defaultTheme == "" {
		t.defaultTheme = name
	}
	return nil
}

// Names lists the registered themes sorted.
func (t *Themes) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return sortedKeys(t.manifests)
}

// Select implements theme.ThemeSelector. Empty arguments pick the defaults.
func (t *Themes) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = t.defaultTheme
	}
	manifest, ok := t.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}

	variant = strings.TrimSpace(variant)
	if variant == "" {
		if _, ok := manifest.Variants[t.defaultVariant]; ok {
			variant = t.defaultVariant
		}
	} else if _, ok := manifest.Variants[variant]; !ok {
		return nil, fmt.Errorf("%w: %q variant %q", ErrThemeNotFound, name, variant)
	}

	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// ThemeConfig flattens a selection into renderer configuration. Variant
// templates and tokens override the base manifest.
func ThemeConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	partials := mergeStrings(manifest.Templates, nil)
	tokens := mergeStrings(manifest.Tokens, nil)
	assets := mergeStrings(manifest.Assets.Files, nil)
	prefix := manifest.Assets.Prefix

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		partials = mergeStrings(partials, variant.Templates)
		tokens = mergeStrings(tokens, variant.Tokens)
		assets = mergeStrings(assets, variant.Assets.Files)
		if strings.TrimSpace(variant.Assets.Prefix) != "" {
			prefix = variant.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+strings.ReplaceAll(key, ".", "-")] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := assets[key]
			if !ok || file == "" {
				return ""
			}
			if prefix == "" {
				return file
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		},
	}
}

type manifestFile struct {
	Name      string                 `yaml:"name"`
	Version   string                 `yaml:"version"`
	Tokens    map[string]string      `yaml:"tokens"`
	Templates map[string]string      `yaml:"templates"`
	Assets    assetsFile             `yaml:"assets"`
	Variants  map[string]variantFile `yaml:"variants"`
}

type assetsFile struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

type variantFile struct {
	Tokens    map[string]string `yaml:"tokens"`
	Templates map[string]string `yaml:"templates"`
	Assets    assetsFile        `yaml:"assets"`
}

// LoadThemes reads every *.yaml or *.yml manifest under fsys, sorted by path.
func LoadThemes(fsys fs.FS) ([]*theme.Manifest, error) {
	if fsys == nil {
		return nil, fmt.Errorf("render: theme filesystem is required")
	}
	var paths []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(path.Ext(p)) {
		case ".yaml", ".yml":
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("render: walk themes: %w", err)
	}
	sort.Strings(paths)

	manifests := make([]*theme.Manifest, 0, len(paths))
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("render: read theme %s: %w", p, err)
		}
		manifest, err := ParseTheme(data)
		if err != nil {
			return nil, fmt.Errorf("render: theme %s: %w", p, err)
		}
		manifests = append(manifests, manifest)
	}
	return manifests, nil
}

// ParseTheme decodes one YAML manifest.
func ParseTheme(data []byte) (*theme.Manifest, error) {
	var raw manifestFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw.Name) == "" {
		return nil, fmt.Errorf("theme name is required")
	}
	manifest := &theme.Manifest{
		Name:      strings.TrimSpace(raw.Name),
		Version:   raw.Version,
		Tokens:    raw.Tokens,
		Templates: raw.Templates,
		Assets:    theme.Assets{Prefix: raw.Assets.Prefix, Files: raw.Assets.Files},
	}
	if len(raw.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(raw.Variants))
		for name, v := range raw.Variants {
			manifest.Variants[name] = theme.Variant{
				Tokens:    v.Tokens,
				Templates: v.Templates,
				Assets:    theme.Assets{Prefix: v.Assets.Prefix, Files: v.Assets.Files},
			}
		}
	}
	return manifest, nil
}

func mergeStrings(base, overlay map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overlay))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range overlay {
		out[key] = value
	}
	return out
}
