package template

import (
	"io"
)

// TemplateRenderer is the engine seam renderers rely on. Names are resolved
// from the template root and the extension is optional.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}

// Finder is implemented by engines that can report whether a named template
// exists, which lets callers fall back to a default layout.
type Finder interface {
	Exists(name string) bool
}
