package tenancy

import (
	"fmt"
	"strings"
)

// Query builds SELECT statements for clinic-scoped tables. The clinic
// predicate is installed at construction as the first WHERE clause; the
// builder only ever appends after it, so no combination of filters,
// ordering, or pagination applied downstream can surface another clinic's
// rows.
type Query struct {
	table   string
	cols    string
	where   string
	args    []interface{}
	idx     int
	orderBy string
}

// NewQuery creates a scoped query for the given table and column list.
func NewQuery(scope Scope, table, cols string) *Query {
	return &Query{
		table: table,
		cols:  cols,
		where: "clinic_id = $1",
		args:  []interface{}{scope.ClinicID()},
		idx:   2,
	}
}

// Idx returns the next available positional parameter index.
func (q *Query) Idx() int { return q.idx }

// Where appends a raw clause (without leading AND). The clause must use
// positional parameters starting at Idx.
func (q *Query) Where(clause string, args ...interface{}) *Query {
	q.where += " AND " + clause
	q.args = append(q.args, args...)
	q.idx += len(args)
	return q
}

// WhereEq appends an equality filter on column.
func (q *Query) WhereEq(column string, value interface{}) *Query {
	return q.Where(fmt.Sprintf("%s = $%d", column, q.idx), value)
}

// WhereILike appends a case-insensitive substring filter on column. The
// value is escaped so user-supplied % and _ match literally.
func (q *Query) WhereILike(column, value string) *Query {
	return q.Where(fmt.Sprintf(`%s ILIKE $%d ESCAPE '\'`, column, q.idx), LikePattern(value))
}

// LikePattern wraps a search term for a substring LIKE match, escaping the
// wildcard characters so they match literally. Clauses built outside
// WhereILike must pair it with ESCAPE '\'.
func LikePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// OrderBy sets the ORDER BY clause (column and direction, e.g. "created_at DESC").
func (q *Query) OrderBy(clause string) *Query {
	q.orderBy = clause
	return q
}

// CountSQL returns the COUNT statement for the current filters.
func (q *Query) CountSQL() string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", q.table, q.where)
}

// CountArgs returns the arguments for CountSQL.
func (q *Query) CountArgs() []interface{} {
	return q.args
}

// DataSQL returns the SELECT statement with ordering and pagination applied.
func (q *Query) DataSQL(limit, offset int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s WHERE %s", q.cols, q.table, q.where)
	if q.orderBy != "" {
		fmt.Fprintf(&b, " ORDER BY %s", q.orderBy)
	}
	fmt.Fprintf(&b, " LIMIT $%d OFFSET $%d", q.idx, q.idx+1)
	return b.String()
}

// DataArgs returns the arguments for DataSQL.
func (q *Query) DataArgs(limit, offset int) []interface{} {
	return append(append([]interface{}{}, q.args...), limit, offset)
}
