// Package querybuilder builds the small set of Postgres statements the
// repositories need, with $n placeholders numbered across the whole
// statement.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition appends one WHERE fragment and its bind arguments.
type Condition func(buf *strings.Builder, args *[]any, n *int)

func Eq(column string, value any) Condition {
	return func(buf *strings.Builder, args *[]any, n *int) {
		buf.WriteString(column)
		buf.WriteString(" = ")
		buf.WriteString(placeholder(*n))
		*args = append(*args, value)
		*n++
	}
}

func Gte(column string, value any) Condition {
	return func(buf *strings.Builder, args *[]any, n *int) {
		buf.WriteString(column)
		buf.WriteString(" >= ")
		buf.WriteString(placeholder(*n))
		*args = append(*args, value)
		*n++
	}
}

func Lt(column string, value any) Condition {
	return func(buf *strings.Builder, args *[]any, n *int) {
		buf.WriteString(column)
		buf.WriteString(" < ")
		buf.WriteString(placeholder(*n))
		*args = append(*args, value)
		*n++
	}
}

// In renders an IN list; an empty list renders a contradiction so the
// statement stays valid and matches nothing.
func In(column string, values []any) Condition {
	return func(buf *strings.Builder, args *[]any, n *int) {
		if len(values) == 0 {
			buf.WriteString("1=0")
			return
		}
		buf.WriteString(column)
		buf.WriteString(" IN (")
		for i, value := range values {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(placeholder(*n))
			*args = append(*args, value)
			*n++
		}
		buf.WriteString(")")
	}
}

// Expr splices raw SQL with ? markers renumbered into the statement's
// $n sequence.
func Expr(expr string, exprArgs ...any) Condition {
	return func(buf *strings.Builder, args *[]any, n *int) {
		buf.WriteString(renumber(expr, exprArgs, args, n))
	}
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	var buf strings.Builder
	buf.WriteString("SELECT ")
	buf.WriteString(strings.Join(b.columns, ", "))
	buf.WriteString(" FROM ")
	buf.WriteString(b.table)

	args := make([]any, 0, len(b.where))
	n := 1
	writeWhere(&buf, b.where, &args, &n)
	if len(b.orderBy) > 0 {
		buf.WriteString(" ORDER BY ")
		buf.WriteString(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		buf.WriteString(" LIMIT ")
		buf.WriteString(strconv.Itoa(b.limit))
	}
	return buf.String(), args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	values  []any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.values = append([]any(nil), values...)
	return b
}

// Suffix appends raw SQL after the VALUES clause, typically an ON
// CONFLICT action or a RETURNING clause.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.values) != len(b.columns) {
		return "", nil, fmt.Errorf("insert has %d values for %d columns", len(b.values), len(b.columns))
	}

	var buf strings.Builder
	buf.WriteString("INSERT INTO ")
	buf.WriteString(b.table)
	buf.WriteString(" (")
	buf.WriteString(strings.Join(b.columns, ", "))
	buf.WriteString(") VALUES (")

	args := make([]any, 0, len(b.values))
	n := 1
	for i, value := range b.values {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(placeholder(n))
		args = append(args, value)
		n++
	}
	buf.WriteString(")")

	if b.suffix != "" {
		buf.WriteString(" ")
		buf.WriteString(renumber(b.suffix, nil, &args, &n))
	}
	return buf.String(), args, nil
}

type UpdateBuilder struct {
	table   string
	columns []string
	values  []any
	where   []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.columns = append(b.columns, column)
	b.values = append(b.values, value)
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("update sets are required")
	}

	var buf strings.Builder
	buf.WriteString("UPDATE ")
	buf.WriteString(b.table)
	buf.WriteString(" SET ")

	args := make([]any, 0, len(b.columns)+len(b.where))
	n := 1
	for i, column := range b.columns {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(column)
		buf.WriteString(" = ")
		buf.WriteString(placeholder(n))
		args = append(args, b.values[i])
		n++
	}
	writeWhere(&buf, b.where, &args, &n)
	return buf.String(), args, nil
}

func writeWhere(buf *strings.Builder, conditions []Condition, args *[]any, n *int) {
	if len(conditions) == 0 {
		return
	}
	buf.WriteString(" WHERE ")
	for i, cond := range conditions {
		if i > 0 {
			buf.WriteString(" AND ")
		}
		cond(buf, args, n)
	}
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func renumber(expr string, exprArgs []any, args *[]any, n *int) string {
	if len(exprArgs) == 0 {
		return expr
	}
	var out strings.Builder
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' && next < len(exprArgs) {
			out.WriteString(placeholder(*n))
			*args = append(*args, exprArgs[next])
			*n++
			next++
			continue
		}
		out.WriteByte(expr[i])
	}
	return out.String()
}
