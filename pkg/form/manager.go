package form

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formmanager/internal/fieldconfig"
	"github.com/goliatone/go-formmanager/pkg/definition"
	"github.com/goliatone/go-formmanager/pkg/field"
	"github.com/goliatone/go-formmanager/pkg/render"
	"github.com/goliatone/go-formmanager/pkg/request"
	"github.com/goliatone/go-formmanager/pkg/schema"
	"github.com/goliatone/go-formmanager/pkg/validation"
)

// DefaultSubmitText labels the submit button when the definition has none.
const DefaultSubmitText = "Save changes"

// Definition declares a form. See definition.Form.
type Definition = definition.Form

// Status is the outcome of the last submission.
type Status string

const (
	StatusUnset   Status = ""
	StatusSuccess Status = "success"
	StatusFail    Status = "fail"
)

var defaultRules = validation.NewRegistry()

// Manager binds a record to a form.
type Manager struct {
	name       string
	container  string
	method     string
	action     string
	submitText string
	template   string
	fieldsets  []render.Fieldset
	messages   map[string]string

	fields     *field.Set
	record     schema.Record
	primaryKey string
	rules      []validation.Rule
	status     Status
	formErrors []string
	input      *request.Input
	configured bool

	cfg    config
	logger zerolog.Logger
}

// New builds the manager of def. When def names a model the record is loaded
// through the configured repository, one field is seeded per column and the
// current values are copied in. The setup hooks then run, definition
// overrides are applied, relation options are loaded and every field is
// configured.
func New(ctx context.Context, def Definition, opts ...Option) (*Manager, error) {
	cfg := config{logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	name := strings.TrimSpace(def.Name)
	if name == "" {
		return nil, fmt.Errorf("form: definition name is required")
	}

	m := &Manager{
		name:       name,
		container:  containerName(def.Parent, name),
		method:     normaliseMethod(def.Method),
		action:     def.Action,
		submitText: def.SubmitText,
		template:   strings.TrimSpace(def.Template),
		messages:   def.Messages,
		fields:     field.NewSet(),
		rules:      slices.Clone(def.Rules),
		cfg:        cfg,
		logger:     cfg.logger.With().Str("form", name).Logger(),
	}
	if m.submitText == "" {
		m.submitText = DefaultSubmitText
	}
	if m.template == "" {
		m.template = render.FormTemplate(name)
	}
	for _, set := range def.Fieldsets {
		m.fieldsets = append(m.fieldsets, render.Fieldset{Legend: set.Legend, Fields: slices.Clone(set.Fields)})
	}

	if err := m.bindRecord(ctx, def); err != nil {
		return nil, err
	}

	for _, fn := range cfg.setup {
		if err := fn(m); err != nil {
			return nil, fmt.Errorf("form: setup: %w", err)
		}
	}
	m.applyOverrides(def.Fields)
	m.applyOrder(def.Order)

	if err := m.loadRelations(ctx); err != nil {
		return nil, err
	}

	for _, spec := range m.fields.Specs() {
		m.configure(spec)
	}
	m.configured = true

	in, err := m.readInput()
	if err != nil {
		return nil, err
	}
	m.input = in
	return m, nil
}

func (m *Manager) bindRecord(ctx context.Context, def Definition) error {
	rec := m.cfg.record
	if rec == nil && def.Model != "" {
		if m.cfg.repository == nil {
			return ErrNoRepository
		}
		loaded, err := m.cfg.repository.Load(ctx, def.Model, m.cfg.recordID)
		if err != nil {
			return fmt.Errorf("form: load record: %w", err)
		}
		rec = loaded
	}
	if rec == nil {
		return nil
	}
	m.record = rec

	for _, col := range rec.Columns() {
		if col.IsPrimary() && m.primaryKey == "" {
			m.primaryKey = col.Name
		}
		m.fields.Add(col.Name, field.FromColumn(col), field.End, "")
	}
	if m.primaryKey == "" {
		m.primaryKey = rec.PrimaryKey()
	}

	switch {
	case len(def.Include) > 0:
		keep := toSet(def.Include)
		m.fields.Retain(func(name string) bool { return keep[name] })
	case len(def.Exclude) > 0:
		drop := toSet(def.Exclude)
		m.fields.Retain(func(name string) bool { return !drop[name] })
	}

	for name, spec := range m.fields.All() {
		if raw := rec.Get(name); raw != nil {
			spec.Override(field.KeyValue, recordValue(raw))
		}
	}

	for _, column := range []string{rec.CreatedColumn(), rec.UpdatedColumn()} {
		if column != "" {
			m.fields.Remove(column)
		}
	}
	return nil
}

// applyOverrides assigns definition properties with override semantics.
// Names that are not fields yet are appended as extra fields.
func (m *Manager) applyOverrides(overrides map[string]map[string]string) {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec, ok := m.fields.Get(name)
		if !ok {
			spec = field.NewSpec(name)
			m.fields.Add(name, spec, field.End, "")
		}
		props := overrides[name]
		keys := make([]string, 0, len(props))
		for key := range props {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			spec.Assign(key, props[key], true)
		}
	}
}

func (m *Manager) applyOrder(order []string) {
	previous := ""
	for _, name := range order {
		if !m.fields.Has(name) {
			continue
		}
		if previous == "" {
			m.fields.Move(name, field.Start, "")
		} else {
			m.fields.Move(name, field.After, previous)
		}
		previous = name
	}
}

func (m *Manager) loadRelations(ctx context.Context) error {
	if m.record == nil {
		return nil
	}
	for _, relation := range m.record.BelongsTo() {
		model, foreignKey := relation.Resolve()
		spec, ok := m.fields.Get(foreignKey)
		if !ok || model == "" {
			continue
		}
		if m.cfg.repository == nil {
			return ErrNoRepository
		}
		rows, err := m.cfg.repository.FindAll(ctx, model)
		if err != nil {
			return fmt.Errorf("form: load relation %s: %w", model, err)
		}

		label := foreignName(spec)
		options := make(field.Options, 0, len(rows))
		for _, row := range rows {
			key := schema.StringValue(row.Get(row.PrimaryKey()))
			text := key
			if label != "" {
				text = schema.StringValue(row.Get(label))
			}
			options = append(options, field.Option{Value: key, Label: text})
		}
		spec.Override(field.KeyOptions, options)
		spec.SetDefault(field.KeyDisplayAs, field.DisplaySelect)
		spec.Override(field.KeyDontReindexOptions, true)
		m.logger.Debug().Str("field", foreignKey).Str("model", model).Int("options", len(options)).Msg("relation options loaded")
	}
	return nil
}

// foreignName returns the related column used as option label. A
// foreign_name comment line counts even though comments are applied later.
func foreignName(spec *field.Spec) string {
	if spec.ForeignName != "" || spec.Column == nil {
		return spec.ForeignName
	}
	for _, line := range fieldconfig.ParseComment(spec.Column.Comment) {
		if line.Key == string(field.KeyForeignName) {
			return strings.TrimSpace(line.Value)
		}
	}
	return ""
}

func (m *Manager) configure(spec *field.Spec) {
	rule := fieldconfig.Configure(spec, fieldconfig.Context{
		Container:  m.container,
		PrimaryKey: m.primaryKey,
		Widgets:    m.cfg.widgets,
		Labeler:    m.cfg.labeler,
	})
	m.logger.Debug().Str("field", spec.Name).Str("widget", rule).Str("display_as", string(spec.DisplayAs)).Msg("field configured")
}

func (m *Manager) readInput() (*request.Input, error) {
	if m.cfg.input != nil {
		return m.cfg.input, nil
	}
	if m.cfg.request == nil {
		return request.New(), nil
	}
	in, err := request.FromRequest(m.cfg.request, m.method)
	if err != nil {
		return nil, fmt.Errorf("form: read input: %w", err)
	}
	return in, nil
}

// Name returns the form name.
func (m *Manager) Name() string { return m.name }

// Container returns the input namespace, "name" or "parent[name]".
func (m *Manager) Container() string { return m.container }

// Method returns the lower-cased form method.
func (m *Manager) Method() string { return m.method }

// Action returns the form action URL.
func (m *Manager) Action() string { return m.action }

// Template returns the template the form renders with before fallback.
func (m *Manager) Template() string { return m.template }

// SetTemplate replaces the template name.
func (m *Manager) SetTemplate(name string) { m.template = strings.TrimSpace(name) }

// SetSubmitText replaces the submit button label.
func (m *Manager) SetSubmitText(text string) { m.submitText = text }

// Record returns the bound record, or nil.
func (m *Manager) Record() schema.Record { return m.record }

// PrimaryKey returns the primary key column name, or "".
func (m *Manager) PrimaryKey() string { return m.primaryKey }

// Rule adds a local validation rule.
func (m *Manager) Rule(fieldName, rule string, params ...string) {
	m.rules = append(m.rules, validation.Rule{Field: fieldName, Name: rule, Params: params})
}

// Rules returns a copy of the local validation rules.
func (m *Manager) Rules() []validation.Rule {
	return slices.Clone(m.rules)
}

// SetValue assigns one value. Setting the primary key reloads the record with
// that id first. The field value and the record column are both updated;
// list values are joined with "," for the record and a blank value on a
// nullable column becomes NULL.
func (m *Manager) SetValue(ctx context.Context, name string, value field.Value) error {
	if m.record != nil && name != "" && name == m.primaryKey && m.cfg.repository != nil {
		rec, err := m.cfg.repository.Load(ctx, m.record.Model(), value.String())
		if err != nil {
			return fmt.Errorf("form: reload record: %w", err)
		}
		m.record = rec
	}

	spec, ok := m.fields.Get(name)
	if !ok {
		return nil
	}
	spec.Override(field.KeyValue, value)

	if m.record == nil || !schema.HasColumn(m.record, name) {
		return nil
	}
	raw := value.String()
	switch {
	case spec.DataType() == "set":
		m.record.Set(name, strings.Join(value.Strings(), ","))
	case raw == "" && spec.Nullable():
		m.record.Set(name, nil)
	default:
		m.record.Set(name, raw)
	}
	return nil
}

// SetValues assigns every field present in values, in field order.
func (m *Manager) SetValues(ctx context.Context, values field.Values) error {
	for _, name := range m.fields.Names() {
		value, ok := values[name]
		if !ok {
			continue
		}
		if err := m.SetValue(ctx, name, value); err != nil {
			return err
		}
	}
	return nil
}

// AddField inserts a field at pos relative to another field. A nil spec adds
// an empty field. Fields added after construction are configured right away.
func (m *Manager) AddField(name string, spec *field.Spec, pos field.Position, relative string) {
	if name == "" {
		return
	}
	if spec == nil {
		spec = field.NewSpec(name)
	}
	spec.Name = name
	m.fields.Add(name, spec, pos, relative)
	if m.configured {
		m.configure(spec)
	}
}

// RemoveField drops a field. Unknown names are ignored.
func (m *Manager) RemoveField(name string) {
	m.fields.Remove(name)
}

// MoveField repositions a field keeping its configuration.
func (m *Manager) MoveField(name string, pos field.Position, relative string) {
	m.fields.Move(name, pos, relative)
}

// DisableField keeps a field but leaves it out of rendering.
func (m *Manager) DisableField(name string) {
	if spec, ok := m.fields.Get(name); ok {
		spec.Override(field.KeyDisabled, true)
	}
}

// Field returns the spec of name.
func (m *Manager) Field(name string) (*field.Spec, bool) {
	return m.fields.Get(name)
}

// Fields returns the specs in order.
func (m *Manager) Fields() []*field.Spec {
	return m.fields.Specs()
}

// FieldNames returns the field names in order.
func (m *Manager) FieldNames() []string {
	return m.fields.Names()
}

// Errors returns the form level messages of the last submission.
func (m *Manager) Errors() []string {
	return slices.Clone(m.formErrors)
}

func containerName(parent, name string) string {
	parent = strings.TrimSpace(parent)
	if parent == "" {
		return name
	}
	return parent + "[" + name + "]"
}

func normaliseMethod(method string) string {
	if strings.EqualFold(strings.TrimSpace(method), request.MethodGet) {
		return request.MethodGet
	}
	return request.MethodPost
}

func recordValue(raw any) field.Value {
	if list, ok := raw.([]string); ok {
		return field.List(list...)
	}
	return field.String(schema.StringValue(raw))
}

func toSet(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, name := range names {
		out[strings.TrimSpace(name)] = true
	}
	return out
}
