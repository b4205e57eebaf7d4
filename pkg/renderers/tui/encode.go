package tui

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-formmanager/pkg/field"
	"github.com/goliatone/go-formmanager/pkg/form"
)

// OutputFormat controls how Encode serializes the filled values.
type OutputFormat string

const (
	OutputFormatJSON           OutputFormat = "json"
	OutputFormatFormURLEncoded OutputFormat = "form"
	OutputFormatPrettyText     OutputFormat = "pretty"
)

// ContentType reports the media type of the format.
func (f OutputFormat) ContentType() string {
	switch f {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Encode serializes the current field values of m. The form encoding uses
// the container names, so the output can be posted back to the form handler.
func Encode(m *form.Manager, format OutputFormat) ([]byte, error) {
	if m == nil {
		return nil, ErrNoForm
	}
	specs := m.Fields()

	switch format {
	case OutputFormatFormURLEncoded:
		out := url.Values{}
		for _, spec := range specs {
			name := spec.FieldName
			if spec.Value.IsList() {
				for _, item := range spec.Value.Strings() {
					out.Add(name+"[]", item)
				}
				continue
			}
			out.Set(name, spec.Value.String())
		}
		return []byte(out.Encode()), nil

	case OutputFormatPrettyText:
		var b strings.Builder
		for _, spec := range specs {
			fmt.Fprintf(&b, "%s: %s\n", label(spec), strings.Join(spec.Value.Strings(), ", "))
		}
		return []byte(b.String()), nil

	case OutputFormatJSON, "":
		values := make(field.Values, len(specs))
		for _, spec := range specs {
			values[spec.Name] = spec.Value
		}
		data, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode json: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("tui: unknown output format %q", format)
}
