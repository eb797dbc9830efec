package profiling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullCountQuery(t *testing.T) {
	query, err := NullCountQuery("employees", []string{"id", "name"})
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT SUM(CASE WHEN "id" IS NULL THEN 1 ELSE 0 END) AS "id_nulls", `+
			`SUM(CASE WHEN "name" IS NULL THEN 1 ELSE 0 END) AS "name_nulls" FROM "employees";`,
		query)
}

func TestDistinctCountQuery(t *testing.T) {
	query, err := DistinctCountQuery("employees", []string{"department"})
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT COUNT(DISTINCT "department") AS "department_distincts" FROM "employees";`,
		query)
}

func TestAggregateQuery_RejectsUnsafeIdentifiers(t *testing.T) {
	cases := []struct {
		name    string
		table   string
		columns []string
	}{
		{"table with quote", `emp"loyees`, []string{"id"}},
		{"table with semicolon", "employees; DROP TABLE x", []string{"id"}},
		{"column with space", "employees", []string{"bad col"}},
		{"empty columns", "employees", nil},
		{"empty table", "", []string{"id"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NullCountQuery(tc.table, tc.columns)
			assert.Error(t, err)
		})
	}
}

func TestExtractTableName(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"show nulls from employees", "employees"},
		{"check distincts for Departments", "departments"},
		{"SELECT * FROM orders", "orders"},
		{"from employees or for departments", "employees"}, // "from" wins
		{"show me the nulls", ""},
		{"", ""},
		{"from 'quoted'", ""},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractTableName(tc.text))
		})
	}
}

func TestTrimSuffixes(t *testing.T) {
	assert.Equal(t, "name", TrimNullSuffix("name_nulls"))
	assert.Equal(t, "name", TrimDistinctSuffix("name_distincts"))
	assert.Equal(t, "plain", TrimNullSuffix("plain"))
}
