package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goliatone/go-theme"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/goliatone/go-formmanager/internal/config"
	"github.com/goliatone/go-formmanager/internal/logging"
	"github.com/goliatone/go-formmanager/pkg/definition"
	"github.com/goliatone/go-formmanager/pkg/form"
	"github.com/goliatone/go-formmanager/pkg/render"
	"github.com/goliatone/go-formmanager/pkg/renderers/vanilla"
	"github.com/goliatone/go-formmanager/pkg/sqlstore"
)

// stylesheetPath is where serve exposes the embedded stylesheet.
const stylesheetPath = "/assets/" + vanilla.StylesheetName

// app wires the configured store, definitions, theme and renderers for one
// command run.
type app struct {
	cfg       config.Config
	logger    zerolog.Logger
	store     *sqlstore.Store
	defs      *definition.Store
	theme     *theme.RendererConfig
	renderers *render.Registry
	closers   []io.Closer
}

type appOptions struct {
	stylesheet string
}

func newApp(ctx context.Context, v *viper.Viper, stderr io.Writer, opts appOptions) (*app, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg}

	logger, closer, err := logging.New(cfg.Log, stderr)
	if err != nil {
		return nil, err
	}
	a.logger = logger
	a.closers = append(a.closers, closer)

	a.defs = definition.NewStore()
	if cfg.Definitions != "" {
		if a.defs, err = definition.LoadFS(os.DirFS(cfg.Definitions)); err != nil {
			a.Close()
			return nil, err
		}
	}

	if cfg.Themes != "" {
		if a.theme, err = loadTheme(cfg); err != nil {
			a.Close()
			return nil, err
		}
	}

	rendererOpts := []vanilla.Option{vanilla.WithTemplatesDir(cfg.Templates)}
	if opts.stylesheet != "" {
		rendererOpts = append(rendererOpts, vanilla.WithStylesheet(opts.stylesheet))
	}
	html, err := vanilla.New(rendererOpts...)
	if err != nil {
		a.Close()
		return nil, err
	}
	if a.renderers, err = render.NewRegistry(html); err != nil {
		a.Close()
		return nil, err
	}

	a.store, err = sqlstore.Open(ctx, cfg.Database,
		sqlstore.WithTables(a.defs.Tables()),
		sqlstore.WithLogger(logger.With().Str("component", "sqlstore").Logger()),
	)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, a.store)

	logger.Debug().Str("database", cfg.Database).Strs("forms", a.defs.FormNames()).Msg("formmanager ready")
	return a, nil
}

func loadTheme(cfg config.Config) (*theme.RendererConfig, error) {
	manifests, err := render.LoadThemes(os.DirFS(cfg.Themes))
	if err != nil {
		return nil, err
	}
	themes, err := render.NewThemes(cfg.Theme, cfg.Variant, manifests...)
	if err != nil {
		return nil, err
	}
	selection, err := themes.Select(cfg.Theme, cfg.Variant)
	if err != nil {
		return nil, err
	}
	return render.ThemeConfig(selection), nil
}

// definition resolves a form by name. Tables without a declared form get a
// form named after the table.
func (a *app) definition(ctx context.Context, name string) (form.Definition, error) {
	if def, ok := a.defs.Form(name); ok {
		return def, nil
	}
	if _, err := a.store.Columns(ctx, name); err != nil {
		return form.Definition{}, fmt.Errorf("form %q: %w", name, err)
	}
	return form.Definition{Name: name, Model: name}, nil
}

// manager builds the named form bound to record id.
func (a *app) manager(ctx context.Context, name, id, rendererName string, extra ...form.Option) (*form.Manager, error) {
	def, err := a.definition(ctx, name)
	if err != nil {
		return nil, err
	}
	renderer, err := a.renderers.Get(rendererName)
	if err != nil {
		return nil, err
	}
	opts := []form.Option{
		form.WithRepository(a.store),
		form.WithRecordID(id),
		form.WithRenderer(renderer),
		form.WithLogger(a.logger.With().Str("form", name).Logger()),
	}
	if a.theme != nil {
		opts = append(opts, form.WithTheme(a.theme))
	}
	return form.New(ctx, def, append(opts, extra...)...)
}

// Close releases the store and the log file.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
	a.closers = nil
}
