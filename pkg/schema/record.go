package schema

import "context"

// Record is the field accessor a form binds to. Implementations wrap one row
// of a model and expose its column metadata, values and persistence.
type Record interface {
	// Model returns the model (table) name.
	Model() string
	// Columns returns the column metadata in table order.
	Columns() []Column
	// PrimaryKey returns the primary key column name, or "" when the model has
	// none.
	PrimaryKey() string
	// Loaded reports whether the record was read from the store.
	Loaded() bool
	// Get returns the current value of a column. Unknown names yield nil.
	Get(field string) any
	// Set assigns a column value. Unknown names are ignored.
	Set(field string, value any)
	// CreatedColumn and UpdatedColumn name the timestamp columns the store
	// maintains itself, or return "".
	CreatedColumn() string
	UpdatedColumn() string
	// BelongsTo lists the many-to-one relations of the model.
	BelongsTo() []BelongsTo
	// Validate runs the schema level rules and returns one message per
	// failing field.
	Validate(ctx context.Context) (map[string]string, error)
	// Save persists the record.
	Save(ctx context.Context) error
}

// Repository loads records by model name.
type Repository interface {
	// Load returns the record identified by id. An empty id, or an id that
	// does not exist, yields a new unloaded record.
	Load(ctx context.Context, model, id string) (Record, error)
	// FindAll returns every record of the model.
	FindAll(ctx context.Context, model string) ([]Record, error)
}

// HasColumn reports whether the record declares the named column.
func HasColumn(rec Record, name string) bool {
	if rec == nil {
		return false
	}
	for _, col := range rec.Columns() {
		if col.Name == name {
			return true
		}
	}
	return false
}

// LookupColumn returns the metadata for the named column.
func LookupColumn(rec Record, name string) (Column, bool) {
	if rec == nil {
		return Column{}, false
	}
	for _, col := range rec.Columns() {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}
