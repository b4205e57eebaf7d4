// Package handler serves one form over HTTP: GET renders it, POST submits,
// saves and redirects, or renders it again with the errors.
package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formmanager/pkg/form"
	"github.com/goliatone/go-formmanager/pkg/render"
)

// HTTPError is an error carrying a status code.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError pairs an error with the status code to answer.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// Factory builds the form of a request. It is expected to pass the request
// as input, e.g. through form.WithRequest.
type Factory func(r *http.Request) (*form.Manager, error)

// NewFactory returns a Factory for def. id extracts the record id from the
// request and may be nil for forms that always create records.
func NewFactory(def form.Definition, id func(*http.Request) string, opts ...form.Option) Factory {
	return func(r *http.Request) (*form.Manager, error) {
		options := make([]form.Option, 0, len(opts)+2)
		options = append(options, opts...)
		options = append(options, form.WithRequest(r))
		if id != nil {
			options = append(options, form.WithRecordID(id(r)))
		}
		return form.New(r.Context(), def, options...)
	}
}

// Option customises a Handler.
type Option func(*Handler)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithSuccessURL picks the redirect target after a successful save. The
// default redirects back to the request path.
func WithSuccessURL(fn func(r *http.Request, m *form.Manager) string) Option {
	return func(h *Handler) {
		h.successURL = fn
	}
}

// WithGuard runs before every request. A returned HTTPError selects the
// status code, anything else answers 403.
func WithGuard(fn func(r *http.Request) error) Option {
	return func(h *Handler) {
		h.guard = fn
	}
}

// WithHiddenFields adds request scoped hidden inputs, such as CSRF tokens,
// to every rendered form.
func WithHiddenFields(fn func(r *http.Request) []render.HiddenField) Option {
	return func(h *Handler) {
		h.hidden = fn
	}
}

// Handler serves one form.
type Handler struct {
	factory    Factory
	logger     zerolog.Logger
	successURL func(*http.Request, *form.Manager) string
	guard      func(*http.Request) error
	hidden     func(*http.Request) []render.HiddenField
}

var _ http.Handler = (*Handler)(nil)

// New returns a handler building its form through factory.
func New(factory Factory, opts ...Option) *Handler {
	h := &Handler{factory: factory, logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r == nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodPost:
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if h.guard != nil {
		if err := h.guard(r); err != nil {
			h.writeError(w, r, err, http.StatusForbidden)
			return
		}
	}
	if h.factory == nil {
		h.writeError(w, r, errors.New("handler: no form factory"), http.StatusInternalServerError)
		return
	}

	m, err := h.factory(r)
	if err != nil {
		h.writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	if h.hidden != nil {
		m.AddHiddenFields(h.hidden(r)...)
	}

	if r.Method != http.MethodPost {
		h.render(w, r, m, http.StatusOK)
		return
	}

	ok, err := m.Submit(r.Context())
	if err != nil {
		h.writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	if !ok {
		code := http.StatusOK
		if m.SubmitStatus() == form.StatusFail {
			code = http.StatusUnprocessableEntity
		}
		h.render(w, r, m, code)
		return
	}

	if _, err := m.SaveObject(r.Context()); err != nil && !errors.Is(err, form.ErrNoRecord) {
		h.writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	target := r.URL.Path
	if h.successURL != nil {
		if custom := h.successURL(r, m); custom != "" {
			target = custom
		}
	}
	h.logger.Debug().Str("form", m.Name()).Str("redirect", target).Msg("form saved")
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, m *form.Manager, code int) {
	out, err := m.Render(r.Context())
	if err != nil {
		h.writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(out); err != nil {
		h.logger.Debug().Err(err).Msg("write response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, fallback int) {
	code := fallback
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		if c := httpErr.StatusCode(); c > 0 {
			code = c
		}
	}
	h.logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Int("status", code).Msg("form request failed")
	http.Error(w, http.StatusText(code), code)
}
