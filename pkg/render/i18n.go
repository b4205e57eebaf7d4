package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// ErrMissingTranslation is returned when a catalog holds no message for a key.
var ErrMissingTranslation = errors.New("render: missing translation")

// Translator resolves message keys for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// Catalog is a Translator backed by an x/text message catalog. Messages use
// fmt verbs for their arguments.
type Catalog struct {
	mu       sync.RWMutex
	builder  *catalog.Builder
	fallback language.Tag
	known    map[language.Tag]map[string]struct{}
}

// NewCatalog creates an empty catalog. Lookups for locales without a message
// retry with fallback.
func NewCatalog(fallback string) *Catalog {
	tag := language.English
	if parsed, err := language.Parse(strings.TrimSpace(fallback)); err == nil {
		tag = parsed
	}
	return &Catalog{
		builder:  catalog.NewBuilder(catalog.Fallback(tag)),
		fallback: tag,
		known:    make(map[language.Tag]map[string]struct{}),
	}
}

// Set stores message under key for locale.
func (c *Catalog) Set(locale, key, msg string) error {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return fmt.Errorf("render: parse locale %q: %w", locale, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.builder.SetString(tag, key, msg); err != nil {
		return fmt.Errorf("render: set message %q: %w", key, err)
	}
	keys, ok := c.known[tag]
	if !ok {
		keys = make(map[string]struct{})
		c.known[tag] = keys
	}
	keys[key] = struct{}{}
	return nil
}

// Load stores a locale -> key -> message table.
func (c *Catalog) Load(messages map[string]map[string]string) error {
	locales := make([]string, 0, len(messages))
	for locale := range messages {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	for _, locale := range locales {
		for key, msg := range messages[locale] {
			if err := c.Set(locale, key, msg); err != nil {
				return err
			}
		}
	}
	return nil
}

// Translate implements Translator.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	if c == nil {
		return "", ErrMissingTranslation
	}
	tag := c.fallback
	if parsed, err := language.Parse(strings.TrimSpace(locale)); err == nil {
		tag = parsed
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	resolved, ok := c.lookup(tag, key)
	if !ok {
		return "", fmt.Errorf("%w: %s (%s)", ErrMissingTranslation, key, tag)
	}
	printer := message.NewPrinter(resolved, message.Catalog(c.builder))
	return printer.Sprintf(key, args...), nil
}

func (c *Catalog) lookup(tag language.Tag, key string) (language.Tag, bool) {
	for candidate := tag; ; candidate = candidate.Parent() {
		if _, ok := c.known[candidate][key]; ok {
			return candidate, true
		}
		if candidate == language.Und {
			break
		}
	}
	if _, ok := c.known[c.fallback][key]; ok {
		return c.fallback, true
	}
	return tag, false
}

// Localize translates the user facing texts of view in place. Texts without a
// message are kept as written.
func Localize(view *View, locale string, t Translator) {
	if view == nil || t == nil {
		return
	}
	tr := func(text string) string {
		return translate(t, locale, text)
	}

	view.SubmitText = tr(view.SubmitText)
	for i := range view.Errors {
		view.Errors[i] = tr(view.Errors[i])
	}
	localizeFields(view.Fields, tr)
	localizeFields(view.Hidden, tr)
	for i := range view.Fieldsets {
		view.Fieldsets[i].Legend = tr(view.Fieldsets[i].Legend)
		localizeFields(view.Fieldsets[i].Fields, tr)
	}
}

func localizeFields(fields []FieldView, tr func(string) string) {
	for i := range fields {
		fv := &fields[i]
		fv.Label = tr(fv.Label)
		fv.ErrorText = tr(fv.ErrorText)
		if fv.Help != "" {
			fv.Help = SanitizeHelp(tr(fv.Help))
		}
		for j := range fv.Options {
			fv.Options[j].Label = tr(fv.Options[j].Label)
		}
	}
}

func translate(t Translator, locale, text string) string {
	key := strings.TrimSpace(text)
	if key == "" {
		return text
	}
	msg, err := t.Translate(locale, key)
	if err != nil || strings.TrimSpace(msg) == "" {
		return text
	}
	return msg
}
