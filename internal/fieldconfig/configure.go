// Package fieldconfig derives the final configuration of a field from its
// column metadata, its comment and the form context.
package fieldconfig

import (
	"strings"

	"github.com/goliatone/go-formmanager/pkg/field"
	"github.com/goliatone/go-formmanager/pkg/widgets"
)

// Context carries the form level inputs of Configure.
type Context struct {
	// Container namespaces input names, e.g. "post" gives "post[title]".
	Container  string
	PrimaryKey string
	// Widgets selects display rules. Nil uses the built-in registry.
	Widgets *widgets.Registry
	// Labeler turns a field name into a label. Nil uses field.DefaultLabel.
	Labeler func(name string) string
}

var defaultWidgets = widgets.NewRegistry()

// Configure fills every unset property of spec. Values that were assigned
// before the call are kept; comment lines only win over later defaults
// unless they carry a "!" prefix. It returns the name of the widget rule
// that matched.
func Configure(spec *field.Spec, ctx Context) string {
	if spec == nil {
		return ""
	}
	registry := ctx.Widgets
	if registry == nil {
		registry = defaultWidgets
	}
	labeler := ctx.Labeler
	if labeler == nil {
		labeler = field.DefaultLabel
	}

	spec.SetDefault(field.KeyDisabled, false)
	spec.SetDefault(field.KeyName, spec.Name)
	spec.SetDefault(field.KeyFieldName, FieldName(ctx.Container, spec.Name))
	spec.SetDefault(field.KeyFieldID, FieldID(spec.FieldName))

	if spec.Column != nil {
		for _, line := range ParseComment(spec.Column.Comment) {
			spec.Assign(line.Key, line.Value, line.Force)
		}
	}

	spec.SetDefault(field.KeyValue, field.String(""))
	spec.SetDefault(field.KeyLabel, labeler(spec.Name))
	spec.SetDefault(field.KeyError, false)
	spec.SetDefault(field.KeyErrorText, "")
	spec.SetDefault(field.KeyHelp, "")

	attrs := field.Attributes{{Name: "id", Value: spec.FieldID}}

	configureOptions(spec)
	rule := registry.Apply(spec, widgets.MatchContext{PrimaryKey: ctx.PrimaryKey}, &attrs)

	spec.SetDefault(field.KeyRequired, spec.Column != nil && !spec.Column.IsNullable)
	spec.SetDefault(field.KeyAttributes, attrs)
	return rule
}

func configureOptions(spec *field.Spec) {
	if len(spec.Options) == 0 && !spec.IsSet(field.KeyOptions) {
		return
	}
	options := spec.Options
	if !spec.DontReindexOptions {
		options = options.Reindex()
	}
	if spec.Nullable() {
		options = options.WithEmpty()
	}
	spec.Override(field.KeyOptions, options)
}

// FieldName namespaces name under container.
func FieldName(container, name string) string {
	if container == "" {
		return name
	}
	return container + "[" + name + "]"
}

// FieldID derives a DOM id from an input name: brackets become underscores
// and surrounding underscores are trimmed.
func FieldID(fieldName string) string {
	id := strings.NewReplacer("[", "_", "]", "_").Replace(fieldName)
	return strings.Trim(id, "_")
}
