package sqlstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formmanager/pkg/field"
	"github.com/goliatone/go-formmanager/pkg/schema"
	"github.com/goliatone/go-formmanager/pkg/validation"
)

var defaultRules = validation.NewRegistry()

// Record is one row of a table.
type Record struct {
	store  *Store
	info   *tableInfo
	values map[string]any
	loaded bool
}

var _ schema.Record = (*Record)(nil)

// Model implements schema.Record.
func (r *Record) Model() string { return r.info.name }

// Columns implements schema.Record.
func (r *Record) Columns() []schema.Column { return cloneColumns(r.info.columns) }

// PrimaryKey implements schema.Record.
func (r *Record) PrimaryKey() string { return r.info.primaryKey }

// Loaded implements schema.Record.
func (r *Record) Loaded() bool { return r.loaded }

// Get implements schema.Record.
func (r *Record) Get(name string) any { return r.values[name] }

// Set implements schema.Record. Unknown columns are ignored.
func (r *Record) Set(name string, value any) {
	if r.hasColumn(name) {
		r.values[name] = value
	}
}

// CreatedColumn implements schema.Record.
func (r *Record) CreatedColumn() string { return r.info.annotation.CreatedColumn }

// UpdatedColumn implements schema.Record.
func (r *Record) UpdatedColumn() string { return r.info.annotation.UpdatedColumn }

// BelongsTo implements schema.Record.
func (r *Record) BelongsTo() []schema.BelongsTo {
	return append([]schema.BelongsTo(nil), r.info.belongsTo...)
}

// Values returns a copy of the current column values.
func (r *Record) Values() map[string]any {
	out := make(map[string]any, len(r.values))
	for key, value := range r.values {
		out[key] = value
	}
	return out
}

// Rules derives the schema rules of the table: NOT NULL columns without a
// default must not be empty, char columns respect their length, enum and set
// values must be members and numeric columns must hold numbers.
func (r *Record) Rules() []validation.Rule {
	var rules []validation.Rule
	for _, col := range r.info.columns {
		if r.isTimestamp(col.Name) {
			continue
		}
		if !col.IsNullable && !col.HasDefault && !col.IsPrimary() {
			rules = append(rules, validation.Rule{Field: col.Name, Name: validation.RuleNotEmpty})
		}
		if col.CharacterMaximumLength > 0 {
			rules = append(rules, validation.Rule{Field: col.Name, Name: validation.RuleMaxLength, Params: []string{strconv.Itoa(col.CharacterMaximumLength)}})
		}
		switch {
		case len(col.Options) > 0 && (col.DataType == "enum" || col.DataType == "set"):
			rules = append(rules, validation.Rule{Field: col.Name, Name: validation.RuleInArray, Params: append([]string(nil), col.Options...)})
		case col.Type == schema.BaseTypeInt:
			rules = append(rules, validation.Rule{Field: col.Name, Name: validation.RuleInteger})
		case col.Type == schema.BaseTypeFloat:
			rules = append(rules, validation.Rule{Field: col.Name, Name: validation.RuleNumeric})
		}
	}
	return rules
}

// Validate implements schema.Record.
func (r *Record) Validate(context.Context) (map[string]string, error) {
	values := make(field.Values, len(r.info.columns))
	for _, col := range r.info.columns {
		raw := schema.StringValue(r.values[col.Name])
		if col.DataType == "set" {
			values[col.Name] = field.SplitList(raw)
			continue
		}
		values[col.Name] = field.String(raw)
	}
	registry := r.store.rules
	if registry == nil {
		registry = defaultRules
	}
	result := validation.NewValidator(registry).Check(values, r.Rules())
	if result.Valid {
		return nil, nil
	}
	return result.Errors(), nil
}

// Save implements schema.Record. New records are inserted and receive their
// generated primary key; loaded ones are updated by primary key. The created
// column is stamped on insert and the updated column on every save.
func (r *Record) Save(ctx context.Context) error {
	now := r.store.now().UTC().Format(TimestampLayout)
	if !r.loaded && r.CreatedColumn() != "" && schema.StringValue(r.values[r.CreatedColumn()]) == "" {
		r.Set(r.CreatedColumn(), now)
	}
	if r.UpdatedColumn() != "" {
		r.Set(r.UpdatedColumn(), now)
	}

	if r.loaded {
		return r.update(ctx)
	}
	return r.insert(ctx)
}

func (r *Record) insert(ctx context.Context) error {
	pk := r.info.primaryKey
	var (
		names []string
		args  []any
	)
	for _, col := range r.info.columns {
		value, ok := r.values[col.Name]
		if !ok {
			continue
		}
		if col.Name == pk && schema.StringValue(value) == "" {
			continue
		}
		names = append(names, quoteIdent(col.Name))
		args = append(args, value)
	}

	query := "INSERT INTO " + quoteIdent(r.info.name) + " DEFAULT VALUES"
	if len(names) > 0 {
		query = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			quoteIdent(r.info.name), strings.Join(names, ", "), placeholders(len(names)))
	}
	res, err := r.store.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("sqlstore: insert %s: %w", r.info.name, err)
	}
	if pk != "" && schema.StringValue(r.values[pk]) == "" {
		if id, err := res.LastInsertId(); err == nil {
			r.values[pk] = id
		}
	}
	r.loaded = true
	r.store.logger.Debug().Str("table", r.info.name).Str("id", schema.StringValue(r.values[pk])).Msg("record inserted")
	return nil
}

func (r *Record) update(ctx context.Context) error {
	pk := r.info.primaryKey
	if pk == "" {
		return fmt.Errorf("sqlstore: update %s: %w", r.info.name, ErrNoPrimaryKey)
	}
	var (
		sets []string
		args []any
	)
	for _, col := range r.info.columns {
		if col.Name == pk {
			continue
		}
		value, ok := r.values[col.Name]
		if !ok {
			continue
		}
		sets = append(sets, quoteIdent(col.Name)+" = ?")
		args = append(args, value)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, r.values[pk])
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", quoteIdent(r.info.name), strings.Join(sets, ", "), quoteIdent(pk))
	if _, err := r.store.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("sqlstore: update %s: %w", r.info.name, err)
	}
	r.store.logger.Debug().Str("table", r.info.name).Str("id", schema.StringValue(r.values[pk])).Msg("record updated")
	return nil
}

func (r *Record) hasColumn(name string) bool {
	for _, col := range r.info.columns {
		if col.Name == name {
			return true
		}
	}
	return false
}

func (r *Record) isTimestamp(name string) bool {
	return name != "" && (name == r.CreatedColumn() || name == r.UpdatedColumn())
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
