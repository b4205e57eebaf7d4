package definition

import (
	"github.com/goliatone/go-formmanager/pkg/schema"
	"github.com/goliatone/go-formmanager/pkg/validation"
)

// Form declares one form: which model it binds, which columns it shows and
// how it renders.
type Form struct {
	Name string `json:"name" yaml:"name"`
	// Model is the table the form binds to. Empty means a form without a
	// record, built from Fields alone.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`
	// Parent nests the form container, giving "parent[name]".
	Parent string `json:"parent,omitempty" yaml:"parent,omitempty"`

	// Include wins over Exclude when both are set.
	Include []string `json:"include,omitempty" yaml:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`

	Rules     []validation.Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
	Messages  map[string]string `json:"messages,omitempty" yaml:"messages,omitempty"`
	Fieldsets []Fieldset        `json:"fieldsets,omitempty" yaml:"fieldsets,omitempty"`
	// Fields holds per-field property overrides keyed by field name, using
	// the same keys as column comments. Names that are not columns become
	// extra fields appended to the form.
	Fields map[string]map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`
	// Order lists field names to move to the front, in order.
	Order []string `json:"order,omitempty" yaml:"order,omitempty"`

	Template   string `json:"template,omitempty" yaml:"template,omitempty"`
	Method     string `json:"method,omitempty" yaml:"method,omitempty"`
	Action     string `json:"action,omitempty" yaml:"action,omitempty"`
	SubmitText string `json:"submit_text,omitempty" yaml:"submit_text,omitempty"`

	// Source records the file the form was loaded from.
	Source string `json:"-" yaml:"-"`
}

// Fieldset groups fields under a legend.
type Fieldset struct {
	Legend string   `json:"legend" yaml:"legend"`
	Fields []string `json:"fields" yaml:"fields"`
}

// Table annotates a table with what SQLite cannot store: column comments,
// MySQL style column types, timestamp columns and relations.
type Table struct {
	Name     string            `json:"name" yaml:"name"`
	Comments map[string]string `json:"comments,omitempty" yaml:"comments,omitempty"`
	// Types replaces declared column types, e.g. "enum('draft','live')".
	Types         map[string]string  `json:"types,omitempty" yaml:"types,omitempty"`
	CreatedColumn string             `json:"created_column,omitempty" yaml:"created_column,omitempty"`
	UpdatedColumn string             `json:"updated_column,omitempty" yaml:"updated_column,omitempty"`
	BelongsTo     []schema.BelongsTo `json:"belongs_to,omitempty" yaml:"belongs_to,omitempty"`
}

// Store holds the loaded forms and tables.
type Store struct {
	forms  map[string]Form
	tables map[string]Table
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{forms: make(map[string]Form), tables: make(map[string]Table)}
}

// Form returns the form named name.
func (s *Store) Form(name string) (Form, bool) {
	if s == nil {
		return Form{}, false
	}
	f, ok := s.forms[name]
	return f, ok
}

// Table returns the annotations of table name.
func (s *Store) Table(name string) (Table, bool) {
	if s == nil {
		return Table{}, false
	}
	t, ok := s.tables[name]
	return t, ok
}

// Tables returns every table annotation keyed by name.
func (s *Store) Tables() map[string]Table {
	out := make(map[string]Table)
	if s == nil {
		return out
	}
	for name, table := range s.tables {
		out[name] = table
	}
	return out
}

// FormNames returns the loaded form names.
func (s *Store) FormNames() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.forms))
	for name := range s.forms {
		out = append(out, name)
	}
	return out
}

// Empty reports whether nothing was loaded.
func (s *Store) Empty() bool {
	return s == nil || (len(s.forms) == 0 && len(s.tables) == 0)
}
