package render

import (
	theme "github.com/goliatone/go-theme"
)

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the view.
type RenderOptions struct {
	// Template names the form template, e.g. "formmanager/post". Renderers
	// fall back to DefaultFormTemplate when it does not exist.
	Template string
	// Theme carries the partial overrides and tokens of the selected theme.
	Theme *theme.RendererConfig
	// Locale and Translator localize labels, help and the submit text when
	// they hold message keys.
	Locale     string
	Translator Translator
}
