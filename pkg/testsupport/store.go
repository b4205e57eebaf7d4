package testsupport

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/goliatone/go-formmanager/pkg/schema"
)

// Table seeds one model of the in-memory Repository.
type Table struct {
	Model         string
	Columns       []schema.Column
	Rows          []map[string]any
	CreatedColumn string
	UpdatedColumn string
	BelongsTo     []schema.BelongsTo
	// Validate replaces the default NOT NULL check.
	Validate func(values map[string]any) map[string]string
	// SaveErr makes every Save fail.
	SaveErr error
}

// Repository is an in-memory schema.Repository for tests.
type Repository struct {
	mu     sync.Mutex
	tables map[string]*Table
	saves  int
}

var _ schema.Repository = (*Repository)(nil)

// NewRepository returns a repository seeded with tables.
func NewRepository(tables ...Table) *Repository {
	repo := &Repository{tables: make(map[string]*Table, len(tables))}
	for i := range tables {
		table := tables[i]
		repo.tables[table.Model] = &table
	}
	return repo
}

// Load implements schema.Repository.
func (r *Repository) Load(_ context.Context, model, id string) (schema.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	table, ok := r.tables[model]
	if !ok {
		return nil, fmt.Errorf("testsupport: unknown model %q", model)
	}
	rec := &Record{repo: r, table: table, values: map[string]any{}}
	if id == "" {
		return rec, nil
	}
	if row, ok := table.find(id); ok {
		for key, value := range row {
			rec.values[key] = value
		}
		rec.loaded = true
	}
	return rec, nil
}

// FindAll implements schema.Repository.
func (r *Repository) FindAll(_ context.Context, model string) ([]schema.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	table, ok := r.tables[model]
	if !ok {
		return nil, fmt.Errorf("testsupport: unknown model %q", model)
	}
	out := make([]schema.Record, 0, len(table.Rows))
	for _, row := range table.Rows {
		rec := &Record{repo: r, table: table, values: map[string]any{}, loaded: true}
		for key, value := range row {
			rec.values[key] = value
		}
		out = append(out, rec)
	}
	return out, nil
}

// Rows returns a copy of the stored rows of model.
func (r *Repository) Rows(model string) []map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()

	table, ok := r.tables[model]
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(table.Rows))
	for _, row := range table.Rows {
		cp := make(map[string]any, len(row))
		for key, value := range row {
			cp[key] = value
		}
		out = append(out, cp)
	}
	return out
}

// Saves returns how many times Save succeeded.
func (r *Repository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

func (t *Table) primaryKey() string {
	for _, col := range t.Columns {
		if col.IsPrimary() {
			return col.Name
		}
	}
	return ""
}

func (t *Table) find(id string) (map[string]any, bool) {
	pk := t.primaryKey()
	for _, row := range t.Rows {
		if schema.StringValue(row[pk]) == id {
			return row, true
		}
	}
	return nil, false
}

func (t *Table) nextID() int {
	pk := t.primaryKey()
	var ids []int
	for _, row := range t.Rows {
		if n, err := strconv.Atoi(schema.StringValue(row[pk])); err == nil {
			ids = append(ids, n)
		}
	}
	if len(ids) == 0 {
		return 1
	}
	sort.Ints(ids)
	return ids[len(ids)-1] + 1
}

// Record is an in-memory schema.Record.
type Record struct {
	repo   *Repository
	table  *Table
	values map[string]any
	loaded bool
}

var _ schema.Record = (*Record)(nil)

// Model implements schema.Record.
func (r *Record) Model() string { return r.table.Model }

// Columns implements schema.Record.
func (r *Record) Columns() []schema.Column {
	return append([]schema.Column(nil), r.table.Columns...)
}

// PrimaryKey implements schema.Record.
func (r *Record) PrimaryKey() string { return r.table.primaryKey() }

// Loaded implements schema.Record.
func (r *Record) Loaded() bool { return r.loaded }

// Get implements schema.Record.
func (r *Record) Get(name string) any { return r.values[name] }

// Set implements schema.Record.
func (r *Record) Set(name string, value any) {
	for _, col := range r.table.Columns {
		if col.Name == name {
			r.values[name] = value
			return
		}
	}
}

// CreatedColumn implements schema.Record.
func (r *Record) CreatedColumn() string { return r.table.CreatedColumn }

// UpdatedColumn implements schema.Record.
func (r *Record) UpdatedColumn() string { return r.table.UpdatedColumn }

// BelongsTo implements schema.Record.
func (r *Record) BelongsTo() []schema.BelongsTo {
	return append([]schema.BelongsTo(nil), r.table.BelongsTo...)
}

// Validate implements schema.Record. Without a Validate hook every NOT NULL
// column other than the primary key must hold a value.
func (r *Record) Validate(context.Context) (map[string]string, error) {
	if r.table.Validate != nil {
		return r.table.Validate(r.values), nil
	}
	errs := map[string]string{}
	for _, col := range r.table.Columns {
		if col.IsNullable || col.IsPrimary() || col.HasDefault {
			continue
		}
		if col.Name == r.table.CreatedColumn || col.Name == r.table.UpdatedColumn {
			continue
		}
		if schema.StringValue(r.values[col.Name]) == "" {
			errs[col.Name] = col.Name + " must not be empty"
		}
	}
	return errs, nil
}

// Save implements schema.Record.
func (r *Record) Save(context.Context) error {
	r.repo.mu.Lock()
	defer r.repo.mu.Unlock()

	if r.table.SaveErr != nil {
		return r.table.SaveErr
	}
	pk := r.table.primaryKey()
	id := schema.StringValue(r.values[pk])
	if id != "" {
		if row, ok := r.table.find(id); ok {
			for key, value := range r.values {
				row[key] = value
			}
			r.loaded = true
			r.repo.saves++
			return nil
		}
	}
	if id == "" && pk != "" {
		r.values[pk] = r.table.nextID()
	}
	row := make(map[string]any, len(r.values))
	for key, value := range r.values {
		row[key] = value
	}
	r.table.Rows = append(r.table.Rows, row)
	r.loaded = true
	r.repo.saves++
	return nil
}
