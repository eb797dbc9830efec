package profiling

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	identifierRe   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	fromTableRe    = regexp.MustCompile(`(?i)\bfrom\s+(\w+)`)
	forTableRe     = regexp.MustCompile(`(?i)\bfor\s+(\w+)`)
	nullSuffix     = "_nulls"
	distinctSuffix = "_distincts"
)

// validIdentifier reports whether a name is safe to interpolate into SQL.
// Table and column names come from user text and introspection, so anything
// outside the plain-identifier alphabet is rejected rather than quoted.
func validIdentifier(name string) bool {
	return identifierRe.MatchString(name)
}

func quoteIdentifier(name string) string {
	return `"` + name + `"`
}

// NullCountQuery builds a single-row query counting NULLs per column.
func NullCountQuery(table string, columns []string) (string, error) {
	return aggregateQuery(table, columns, nullSuffix, func(col string) string {
		return fmt.Sprintf("SUM(CASE WHEN %s IS NULL THEN 1 ELSE 0 END)", quoteIdentifier(col))
	})
}

// DistinctCountQuery builds a single-row query counting distinct values per column.
func DistinctCountQuery(table string, columns []string) (string, error) {
	return aggregateQuery(table, columns, distinctSuffix, func(col string) string {
		return fmt.Sprintf("COUNT(DISTINCT %s)", quoteIdentifier(col))
	})
}

func aggregateQuery(table string, columns []string, suffix string, expr func(col string) string) (string, error) {
	if !validIdentifier(table) {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("no columns for table %q", table)
	}
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		if !validIdentifier(col) {
			return "", fmt.Errorf("invalid column name %q", col)
		}
		parts = append(parts, fmt.Sprintf("%s AS %s", expr(col), quoteIdentifier(col+suffix)))
	}
	return fmt.Sprintf("SELECT %s FROM %s;", strings.Join(parts, ", "), quoteIdentifier(table)), nil
}

// TrimNullSuffix strips the alias suffix added by NullCountQuery.
func TrimNullSuffix(column string) string {
	return strings.TrimSuffix(column, nullSuffix)
}

// TrimDistinctSuffix strips the alias suffix added by DistinctCountQuery.
func TrimDistinctSuffix(column string) string {
	return strings.TrimSuffix(column, distinctSuffix)
}

// ExtractTableName guesses a table name from free text, preferring
// "from <name>" over "for <name>". Returns "" when neither matches or the
// match is not a plain identifier.
func ExtractTableName(text string) string {
	for _, re := range []*regexp.Regexp{fromTableRe, forTableRe} {
		if m := re.FindStringSubmatch(text); m != nil && validIdentifier(m[1]) {
			return strings.ToLower(m[1])
		}
	}
	return ""
}
