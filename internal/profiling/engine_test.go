package profiling

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// A pooled second connection would see its own empty in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE employees (
		id INTEGER PRIMARY KEY,
		name TEXT,
		department TEXT
	)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO employees (id, name, department) VALUES
		(1, 'alice', 'eng'),
		(2, 'bob', NULL),
		(3, NULL, NULL),
		(4, 'dave', 'eng')`)
	require.NoError(t, err)

	return NewEngine(db)
}

func TestHasTable(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	exists, err := engine.HasTable(ctx, "employees")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = engine.HasTable(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = engine.HasTable(ctx, "not a table; --")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestColumns(t *testing.T) {
	engine := newTestEngine(t)

	cols, err := engine.Columns(context.Background(), "employees")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "department"}, cols)
}

func TestColumns_InvalidTable(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Columns(context.Background(), `emp"loyees`)
	assert.Error(t, err)
}

func TestFirstRow_NullCounts(t *testing.T) {
	engine := newTestEngine(t)
	query, err := NullCountQuery("employees", []string{"id", "name", "department"})
	require.NoError(t, err)

	row, err := engine.FirstRow(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, row, 3)

	assert.Equal(t, ColumnValue{Column: "id_nulls", Value: 0}, row[0])
	assert.Equal(t, ColumnValue{Column: "name_nulls", Value: 1}, row[1])
	assert.Equal(t, ColumnValue{Column: "department_nulls", Value: 2}, row[2])
}

func TestFirstRow_DistinctCounts(t *testing.T) {
	engine := newTestEngine(t)
	query, err := DistinctCountQuery("employees", []string{"department"})
	require.NoError(t, err)

	row, err := engine.FirstRow(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, row, 1)
	// NULLs are excluded from COUNT(DISTINCT ...).
	assert.Equal(t, int64(1), row[0].Value)
}

func TestFirstRow_BadQuery(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.FirstRow(context.Background(), "SELECT nope FROM nowhere;")
	assert.Error(t, err)
}
