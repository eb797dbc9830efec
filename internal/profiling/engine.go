// Package profiling executes table-profiling queries against a SQL database.
package profiling

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// ColumnValue is one cell of a single-row aggregate result, in select order.
type ColumnValue struct {
	Column string
	Value  int64
}

// Engine wraps the profiling database connection.
type Engine struct {
	db  *sql.DB
	dsn string
}

// Open opens the profiling database. The modernc sqlite driver is pure Go, so
// no cgo toolchain is required.
func Open(dsn string) (*Engine, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &Engine{db: db, dsn: dsn}, nil
}

// NewEngine wraps an existing database handle; used by tests.
func NewEngine(db *sql.DB) *Engine {
	return &Engine{db: db}
}

func (e *Engine) Close() error {
	return e.db.Close()
}

// Name identifies the engine for payload provenance.
func (e *Engine) Name() string {
	return "sqlite"
}

// HasTable reports whether the table exists.
func (e *Engine) HasTable(ctx context.Context, table string) (bool, error) {
	if !validIdentifier(table) {
		return false, nil
	}
	var n int
	err := e.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check table %q: %w", table, err)
	}
	return n > 0, nil
}

// Columns lists the column names of a table in declaration order.
func (e *Engine) Columns(ctx context.Context, table string) ([]string, error) {
	if !validIdentifier(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	rows, err := e.db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdentifier(table)))
	if err != nil {
		return nil, fmt.Errorf("inspect table %q: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     sql.NullString
			notnull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("scan table info: %w", err)
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inspect table %q: %w", table, err)
	}
	return cols, nil
}

// FirstRow runs a single-row aggregate query and returns its cells in select
// order. NULL cells read as zero.
func (e *Engine) FirstRow(ctx context.Context, query string) ([]ColumnValue, error) {
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	colNames, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("result columns: %w", err)
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("read result: %w", err)
		}
		return nil, fmt.Errorf("query returned no rows")
	}

	cells := make([]sql.NullInt64, len(colNames))
	dest := make([]any, len(colNames))
	for i := range cells {
		dest[i] = &cells[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan result: %w", err)
	}

	values := make([]ColumnValue, len(colNames))
	for i, name := range colNames {
		values[i] = ColumnValue{Column: name, Value: cells[i].Int64}
	}
	return values, nil
}
