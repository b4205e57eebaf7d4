package form

import "errors"

var (
	// ErrNoRecord is returned by SaveObject when the form is not bound to a
	// record.
	ErrNoRecord = errors.New("form: no record bound")
	// ErrNoRepository means the definition names a model but no repository
	// was configured.
	ErrNoRepository = errors.New("form: repository required for model forms")
	// ErrNoRenderer is returned by Render when no renderer could be built.
	ErrNoRenderer = errors.New("form: renderer not configured")
)
