package field

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formmanager/pkg/schema"
)

// DisplayAs names the rendering strategy of a field.
type DisplayAs string

const (
	DisplayText       DisplayAs = "text"
	DisplayTextarea   DisplayAs = "textarea"
	DisplaySelect     DisplayAs = "select"
	DisplayCheckboxes DisplayAs = "checkboxes"
	DisplayBool       DisplayAs = "bool"
	DisplayHidden     DisplayAs = "hidden"
)

// Key addresses one configurable property of a Spec. The names match the
// keys accepted in column comments.
type Key string

const (
	KeyName               Key = "name"
	KeyLabel              Key = "label"
	KeyValue              Key = "value"
	KeyDisplayAs          Key = "display_as"
	KeyInputType          Key = "input_type"
	KeyOptions            Key = "options"
	KeyAttributes         Key = "attributes"
	KeyRequired           Key = "required"
	KeyError              Key = "error"
	KeyErrorText          Key = "error_text"
	KeyDisabled           Key = "disabled"
	KeyHelp               Key = "help"
	KeyFieldName          Key = "field_name"
	KeyFieldID            Key = "field_id"
	KeyDontReindexOptions Key = "dont_reindex_options"
	KeyForeignName        Key = "foreign_name"
)

// Spec is the configuration of one form input. Properties are tracked as
// assigned or not so defaults never clobber a value somebody set first; use
// SetDefault for first-writer-wins and Override to force.
type Spec struct {
	Name               string            `json:"name" yaml:"name"`
	Label              string            `json:"label" yaml:"label"`
	Value              Value             `json:"value" yaml:"value"`
	DisplayAs          DisplayAs         `json:"display_as" yaml:"display_as"`
	InputType          string            `json:"input_type,omitempty" yaml:"input_type,omitempty"`
	Options            Options           `json:"options,omitempty" yaml:"options,omitempty"`
	Attributes         Attributes        `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Required           bool              `json:"required" yaml:"required"`
	Error              bool              `json:"error" yaml:"error"`
	ErrorText          string            `json:"error_text,omitempty" yaml:"error_text,omitempty"`
	Disabled           bool              `json:"disabled" yaml:"disabled"`
	Help               string            `json:"help,omitempty" yaml:"help,omitempty"`
	FieldName          string            `json:"field_name" yaml:"field_name"`
	FieldID            string            `json:"field_id" yaml:"field_id"`
	DontReindexOptions bool              `json:"dont_reindex_options,omitempty" yaml:"dont_reindex_options,omitempty"`
	ForeignName        string            `json:"foreign_name,omitempty" yaml:"foreign_name,omitempty"`
	Extra              map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`

	// Column is the source column, nil for fields added by hand.
	Column *schema.Column `json:"column,omitempty" yaml:"column,omitempty"`

	assigned map[Key]struct{}
}

// NewSpec returns an empty spec for name. The name itself is not marked as
// assigned so configuration can still default it.
func NewSpec(name string) *Spec {
	return &Spec{Name: name}
}

// FromColumn seeds a spec from column metadata.
func FromColumn(col schema.Column) *Spec {
	c := col
	c.Options = append([]string(nil), col.Options...)
	spec := &Spec{Name: col.Name, Column: &c}
	if len(col.Options) > 0 {
		spec.SetDefault(KeyOptions, OptionsFromValues(col.Options...))
	}
	return spec
}

// Nullable reports whether the source column accepts NULL.
func (s *Spec) Nullable() bool {
	return s.Column != nil && s.Column.IsNullable
}

// DataType returns the source column data type, or "".
func (s *Spec) DataType() string {
	if s.Column == nil {
		return ""
	}
	return strings.ToLower(s.Column.DataType)
}

// IsSet reports whether key was assigned.
func (s *Spec) IsSet(key Key) bool {
	_, ok := s.assigned[key]
	return ok
}

// SetDefault assigns value only when key is still unset. It returns whether
// the assignment happened.
func (s *Spec) SetDefault(key Key, value any) bool {
	return s.apply(key, value, false)
}

// Override assigns value regardless of previous assignments.
func (s *Spec) Override(key Key, value any) bool {
	return s.apply(key, value, true)
}

// Assign applies a textual property, as found in column comments or form
// definitions. Known keys are converted to their typed form; anything else
// lands in Extra.
func (s *Spec) Assign(key, raw string, override bool) bool {
	k := Key(normalizeKey(key))
	if k == "" {
		return false
	}
	switch k {
	case KeyRequired, KeyError, KeyDisabled, KeyDontReindexOptions:
		return s.apply(k, parseBool(raw), override)
	case KeyOptions:
		return s.apply(k, ParseOptions(raw), override)
	case KeyValue:
		return s.apply(k, String(raw), override)
	case KeyDisplayAs:
		return s.apply(k, DisplayAs(strings.ToLower(strings.TrimSpace(raw))), override)
	case KeyAttributes:
		return s.apply(k, parseAttributes(raw), override)
	case KeyName, KeyLabel, KeyInputType, KeyErrorText, KeyHelp, KeyFieldName, KeyFieldID, KeyForeignName:
		return s.apply(k, raw, override)
	default:
		if !override {
			if _, exists := s.Extra[string(k)]; exists {
				return false
			}
		}
		if s.Extra == nil {
			s.Extra = make(map[string]string)
		}
		s.Extra[string(k)] = raw
		return true
	}
}

func (s *Spec) apply(key Key, value any, override bool) bool {
	if !override && s.IsSet(key) {
		return false
	}
	if !s.store(key, value) {
		return false
	}
	if s.assigned == nil {
		s.assigned = make(map[Key]struct{})
	}
	s.assigned[key] = struct{}{}
	return true
}

func (s *Spec) store(key Key, value any) bool {
	switch key {
	case KeyName:
		v, ok := value.(string)
		if ok {
			s.Name = v
		}
		return ok
	case KeyLabel:
		v, ok := value.(string)
		if ok {
			s.Label = v
		}
		return ok
	case KeyInputType:
		v, ok := value.(string)
		if ok {
			s.InputType = v
		}
		return ok
	case KeyErrorText:
		v, ok := value.(string)
		if ok {
			s.ErrorText = v
		}
		return ok
	case KeyHelp:
		v, ok := value.(string)
		if ok {
			s.Help = v
		}
		return ok
	case KeyFieldName:
		v, ok := value.(string)
		if ok {
			s.FieldName = v
		}
		return ok
	case KeyFieldID:
		v, ok := value.(string)
		if ok {
			s.FieldID = v
		}
		return ok
	case KeyForeignName:
		v, ok := value.(string)
		if ok {
			s.ForeignName = v
		}
		return ok
	case KeyValue:
		switch v := value.(type) {
		case Value:
			s.Value = v
		case string:
			s.Value = String(v)
		case []string:
			s.Value = List(v...)
		default:
			return false
		}
		return true
	case KeyDisplayAs:
		switch v := value.(type) {
		case DisplayAs:
			s.DisplayAs = v
		case string:
			s.DisplayAs = DisplayAs(v)
		default:
			return false
		}
		return true
	case KeyOptions:
		v, ok := value.(Options)
		if ok {
			s.Options = v
		}
		return ok
	case KeyAttributes:
		v, ok := value.(Attributes)
		if ok {
			s.Attributes = v
		}
		return ok
	case KeyRequired:
		v, ok := value.(bool)
		if ok {
			s.Required = v
		}
		return ok
	case KeyError:
		v, ok := value.(bool)
		if ok {
			s.Error = v
		}
		return ok
	case KeyDisabled:
		v, ok := value.(bool)
		if ok {
			s.Disabled = v
		}
		return ok
	case KeyDontReindexOptions:
		v, ok := value.(bool)
		if ok {
			s.DontReindexOptions = v
		}
		return ok
	default:
		return false
	}
}

// Clone returns a deep copy including the assignment tracking.
func (s *Spec) Clone() *Spec {
	if s == nil {
		return nil
	}
	out := *s
	out.Options = s.Options.Clone()
	out.Attributes = s.Attributes.Clone()
	out.Value = Value{text: s.Value.text, items: append([]string(nil), s.Value.items...), multi: s.Value.multi}
	if s.Column != nil {
		col := *s.Column
		col.Options = append([]string(nil), s.Column.Options...)
		out.Column = &col
	}
	if s.Extra != nil {
		out.Extra = make(map[string]string, len(s.Extra))
		for key, value := range s.Extra {
			out.Extra[key] = value
		}
	}
	if s.assigned != nil {
		out.assigned = make(map[Key]struct{}, len(s.assigned))
		for key := range s.assigned {
			out.assigned[key] = struct{}{}
		}
	}
	return &out
}

func normalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.ReplaceAll(key, "-", "_")
	return strings.ReplaceAll(key, " ", "_")
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "y", "on":
		return true
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && v
}

// parseAttributes reads "class=wide; placeholder=Your name".
func parseAttributes(raw string) Attributes {
	var out Attributes
	for _, part := range strings.Split(raw, ";") {
		name, value, _ := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out = out.Set(name, strings.TrimSpace(value))
	}
	return out
}
