package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-formmanager/pkg/definition"
	"github.com/goliatone/go-formmanager/pkg/schema"
	"github.com/goliatone/go-formmanager/pkg/validation"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// TimestampLayout formats the created and updated columns.
const TimestampLayout = time.DateTime

// Option customises a Store.
type Option func(*Store)

// WithTables annotates tables with comments, timestamp columns and extra
// relations, keyed by table name.
func WithTables(tables map[string]definition.Table) Option {
	return func(s *Store) {
		for name, table := range tables {
			s.annotations[name] = table
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock replaces the time source used for timestamp columns.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithValidation replaces the rule registry behind Record.Validate.
func WithValidation(registry *validation.Registry) Option {
	return func(s *Store) {
		s.rules = registry
	}
}

// Store reads and writes records of a SQLite database.
type Store struct {
	db          *sql.DB
	owned       bool
	annotations map[string]definition.Table
	logger      zerolog.Logger
	now         func() time.Time
	rules       *validation.Registry

	mu     sync.RWMutex
	tables map[string]*tableInfo
}

var _ schema.Repository = (*Store)(nil)

type tableInfo struct {
	name       string
	columns    []schema.Column
	primaryKey string
	belongsTo  []schema.BelongsTo
	annotation definition.Table
}

// Open opens the database at dsn, e.g. "file:app.db" or ":memory:".
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", dsn, err)
	}
	// One connection keeps ":memory:" databases alive and serialises writes.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore: ping %s: %w", dsn, err)
	}
	s := New(db, opts...)
	s.owned = true
	return s, nil
}

// New wraps an open database.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:          db,
		annotations: make(map[string]definition.Table),
		logger:      zerolog.Nop(),
		now:         time.Now,
		tables:      make(map[string]*tableInfo),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// DB exposes the underlying database.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the database when the store opened it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// Exec runs a statement, typically schema setup, and drops cached metadata.
func (s *Store) Exec(ctx context.Context, query string, args ...any) error {
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("sqlstore: exec: %w", err)
	}
	s.mu.Lock()
	s.tables = make(map[string]*tableInfo)
	s.mu.Unlock()
	return nil
}

// Tables lists the user tables in name order.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("sqlstore: list tables: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Columns returns the column metadata of table in declaration order.
func (s *Store) Columns(ctx context.Context, table string) ([]schema.Column, error) {
	info, err := s.table(ctx, table)
	if err != nil {
		return nil, err
	}
	return cloneColumns(info.columns), nil
}

// BelongsTo returns the relations of table: declared foreign keys merged with
// annotated ones. Annotations win for the same foreign key column.
func (s *Store) BelongsTo(ctx context.Context, table string) ([]schema.BelongsTo, error) {
	info, err := s.table(ctx, table)
	if err != nil {
		return nil, err
	}
	return append([]schema.BelongsTo(nil), info.belongsTo...), nil
}

// Load implements schema.Repository. A blank or unknown id yields a new
// record.
func (s *Store) Load(ctx context.Context, model, id string) (schema.Record, error) {
	info, err := s.table(ctx, model)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" || info.primaryKey == "" {
		return s.newRecord(info, nil, false), nil
	}
	rec, err := s.find(ctx, info, id)
	if errors.Is(err, ErrNotFound) {
		return s.newRecord(info, nil, false), nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Find returns the row identified by id or ErrNotFound.
func (s *Store) Find(ctx context.Context, model, id string) (*Record, error) {
	info, err := s.table(ctx, model)
	if err != nil {
		return nil, err
	}
	if info.primaryKey == "" {
		return nil, fmt.Errorf("sqlstore: find %s: %w", model, ErrNoPrimaryKey)
	}
	return s.find(ctx, info, id)
}

func (s *Store) find(ctx context.Context, info *tableInfo, id string) (*Record, error) {
	query := fmt.Sprintf(`SELECT * FROM %s WHERE %s = ? LIMIT 1`, quoteIdent(info.name), quoteIdent(info.primaryKey))
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: find %s %s: %w", info.name, id, err)
	}
	defer rows.Close()

	found, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: find %s %s: %w", info.name, id, err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("sqlstore: %s %s: %w", info.name, id, ErrNotFound)
	}
	return s.newRecord(info, found[0], true), nil
}

// FindAll implements schema.Repository. Rows are ordered by primary key.
func (s *Store) FindAll(ctx context.Context, model string) ([]schema.Record, error) {
	info, err := s.table(ctx, model)
	if err != nil {
		return nil, err
	}
	query := "SELECT * FROM " + quoteIdent(info.name)
	if info.primaryKey != "" {
		query += " ORDER BY " + quoteIdent(info.primaryKey)
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: find all %s: %w", model, err)
	}
	defer rows.Close()

	found, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: find all %s: %w", model, err)
	}
	out := make([]schema.Record, 0, len(found))
	for _, values := range found {
		out = append(out, s.newRecord(info, values, true))
	}
	return out, nil
}

func (s *Store) newRecord(info *tableInfo, values map[string]any, loaded bool) *Record {
	if values == nil {
		values = map[string]any{}
	}
	return &Record{store: s, info: info, values: values, loaded: loaded}
}

func (s *Store) table(ctx context.Context, name string) (*tableInfo, error) {
	s.mu.RLock()
	info, ok := s.tables[name]
	s.mu.RUnlock()
	if ok {
		return info, nil
	}

	info, err := s.inspect(ctx, name)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.tables[name] = info
	s.mu.Unlock()
	s.logger.Debug().Str("table", name).Int("columns", len(info.columns)).Msg("table inspected")
	return info, nil
}

func (s *Store) inspect(ctx context.Context, name string) (*tableInfo, error) {
	annotation := s.annotations[name]
	info := &tableInfo{name: name, annotation: annotation}

	rows, err := s.db.QueryContext(ctx, "PRAGMA table_info("+quoteIdent(name)+")")
	if err != nil {
		return nil, fmt.Errorf("sqlstore: table info %s: %w", name, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			cid      int
			colName  string
			declared string
			notNull  int
			dflt     sql.NullString
			pk       int
		)
		if err := rows.Scan(&cid, &colName, &declared, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("sqlstore: table info %s: %w", name, err)
		}
		if override := annotation.Types[colName]; override != "" {
			declared = override
		}
		col := column(colName, declared, notNull != 0, dflt.Valid, pk)
		col.Comment = annotation.Comments[colName]
		if pk == 1 {
			info.primaryKey = colName
		}
		info.columns = append(info.columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: table info %s: %w", name, err)
	}
	if len(info.columns) == 0 {
		return nil, fmt.Errorf("sqlstore: table %s: %w", name, ErrNotFound)
	}

	relations, err := s.foreignKeys(ctx, name)
	if err != nil {
		return nil, err
	}
	info.belongsTo = mergeRelations(relations, annotation.BelongsTo)
	return info, nil
}

func (s *Store) foreignKeys(ctx context.Context, table string) ([]schema.BelongsTo, error) {
	rows, err := s.db.QueryContext(ctx, "PRAGMA foreign_key_list("+quoteIdent(table)+")")
	if err != nil {
		return nil, fmt.Errorf("sqlstore: foreign keys %s: %w", table, err)
	}
	defer rows.Close()

	var out []schema.BelongsTo
	for rows.Next() {
		var (
			id, seq            int
			parent, from       string
			to                 sql.NullString
			onUpdate, onDelete string
			match              string
		)
		if err := rows.Scan(&id, &seq, &parent, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, fmt.Errorf("sqlstore: foreign keys %s: %w", table, err)
		}
		if seq > 0 {
			// composite keys are not relations a select can express
			continue
		}
		out = append(out, schema.BelongsTo{
			Alias:      strings.TrimSuffix(from, "_id"),
			Model:      parent,
			ForeignKey: from,
		})
	}
	return out, rows.Err()
}

func mergeRelations(declared, annotated []schema.BelongsTo) []schema.BelongsTo {
	byKey := make(map[string]int, len(declared)+len(annotated))
	var out []schema.BelongsTo
	for _, list := range [][]schema.BelongsTo{declared, annotated} {
		for _, relation := range list {
			_, key := relation.Resolve()
			if i, ok := byKey[key]; ok {
				out[i] = relation
				continue
			}
			byKey[key] = len(out)
			out = append(out, relation)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		_, a := out[i].Resolve()
		_, b := out[j].Resolve()
		return a < b
	})
	return out
}

// scanRows reads every row into a column name keyed map. Byte slices and
// times become strings.
func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []map[string]any
	for rows.Next() {
		ptrs := make([]any, len(names))
		for i := range ptrs {
			ptrs[i] = new(any)
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(names))
		for i, name := range names {
			v := *(ptrs[i].(*any))
			switch typed := v.(type) {
			case []byte:
				v = string(typed)
			case time.Time:
				v = typed.Format(TimestampLayout)
			}
			row[name] = v
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func cloneColumns(in []schema.Column) []schema.Column {
	out := make([]schema.Column, len(in))
	for i, col := range in {
		col.Options = append([]string(nil), col.Options...)
		out[i] = col
	}
	return out
}
