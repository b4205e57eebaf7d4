// Package formmanager binds database records to HTML forms. The package
// re-exports the entry points of pkg/form, pkg/sqlstore and pkg/handler so
// simple programs only import one package.
package formmanager

import (
	"context"
	"io/fs"
	"net/http"

	"github.com/goliatone/go-formmanager/pkg/form"
	"github.com/goliatone/go-formmanager/pkg/handler"
	"github.com/goliatone/go-formmanager/pkg/render"
	"github.com/goliatone/go-formmanager/pkg/renderers/vanilla"
	"github.com/goliatone/go-formmanager/pkg/sqlstore"
)

// Manager aliases form.Manager.
type Manager = form.Manager

// Definition aliases form.Definition: name, model, filters, rules and field
// overrides of one form.
type Definition = form.Definition

// Option aliases form.Option.
type Option = form.Option

// HiddenField aliases render.HiddenField for CSRF tokens and similar inputs.
type HiddenField = render.HiddenField

// New builds a form manager. See form.New.
func New(ctx context.Context, def Definition, opts ...Option) (*Manager, error) {
	return form.New(ctx, def, opts...)
}

// OpenSQLite opens a SQLite backed record store usable with
// form.WithRepository.
func OpenSQLite(ctx context.Context, dsn string, opts ...sqlstore.Option) (*sqlstore.Store, error) {
	return sqlstore.Open(ctx, dsn, opts...)
}

// Handler serves def over HTTP, loading the record named by id(r) from the
// options' repository. See handler.New.
func Handler(def Definition, id func(*http.Request) string, opts ...Option) http.Handler {
	return handler.New(handler.NewFactory(def, id, opts...))
}

// EmbeddedTemplates exposes the built-in vanilla templates so callers can
// reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the bundled stylesheet.
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
