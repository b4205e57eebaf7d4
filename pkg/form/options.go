package form

import (
	"net/http"

	"github.com/rs/zerolog"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formmanager/pkg/render"
	"github.com/goliatone/go-formmanager/pkg/request"
	"github.com/goliatone/go-formmanager/pkg/schema"
	"github.com/goliatone/go-formmanager/pkg/validation"
	"github.com/goliatone/go-formmanager/pkg/widgets"
)

// Option customises a Manager.
type Option func(*config)

type config struct {
	repository schema.Repository
	recordID   string
	record     schema.Record
	input      *request.Input
	request    *http.Request
	setup      []func(*Manager) error
	logger     zerolog.Logger
	renderer   render.Renderer
	widgets    *widgets.Registry
	rules      *validation.Registry
	labeler    func(string) string
	theme      *theme.RendererConfig
	locale     string
	translator render.Translator
	hidden     []render.HiddenField
}

// WithRepository sets the store records are loaded from.
func WithRepository(repo schema.Repository) Option {
	return func(c *config) {
		c.repository = repo
	}
}

// WithRecordID selects the record to edit. A blank id creates a new record.
func WithRecordID(id string) Option {
	return func(c *config) {
		c.recordID = id
	}
}

// WithRecord binds an already loaded record instead of loading one through
// the repository.
func WithRecord(rec schema.Record) Option {
	return func(c *config) {
		c.record = rec
	}
}

// WithInput injects the submitted parameters.
func WithInput(in *request.Input) Option {
	return func(c *config) {
		c.input = in
	}
}

// WithRequest reads the submitted parameters from r according to the form
// method. WithInput takes precedence.
func WithRequest(r *http.Request) Option {
	return func(c *config) {
		c.request = r
	}
}

// WithSetup registers a hook that runs after the fields were seeded from the
// record and before they are configured. Hooks run in registration order.
func WithSetup(fn func(*Manager) error) Option {
	return func(c *config) {
		if fn != nil {
			c.setup = append(c.setup, fn)
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithRenderer sets the renderer used by Render. The default is the vanilla
// HTML renderer.
func WithRenderer(renderer render.Renderer) Option {
	return func(c *config) {
		c.renderer = renderer
	}
}

// WithWidgets replaces the display rules used during configuration.
func WithWidgets(registry *widgets.Registry) Option {
	return func(c *config) {
		c.widgets = registry
	}
}

// WithValidation replaces the validation rule registry.
func WithValidation(registry *validation.Registry) Option {
	return func(c *config) {
		c.rules = registry
	}
}

// WithLabeler replaces the function that derives labels from field names.
func WithLabeler(fn func(name string) string) Option {
	return func(c *config) {
		c.labeler = fn
	}
}

// WithTheme applies a resolved theme to rendering.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// WithLocale translates labels and messages through t when rendering.
func WithLocale(locale string, t render.Translator) Option {
	return func(c *config) {
		c.locale = locale
		c.translator = t
	}
}

// WithHiddenFields adds hidden inputs, such as CSRF tokens, to the rendered
// form.
func WithHiddenFields(fields ...render.HiddenField) Option {
	return func(c *config) {
		c.hidden = append(c.hidden, fields...)
	}
}
