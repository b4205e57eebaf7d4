package sqlstore

import "errors"

var (
	// ErrNotFound reports a missing table or row.
	ErrNotFound = errors.New("sqlstore: not found")
	// ErrNoPrimaryKey is returned when a row operation needs a primary key
	// and the table has none.
	ErrNoPrimaryKey = errors.New("sqlstore: table has no primary key")
)
