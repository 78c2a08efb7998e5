package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/yathrananda/admin-console/internal/repository/ports"
)

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

var errUnboundedWrite = errors.New("refusing to write without a filter")

type filterOp int

const (
	opEq filterOp = iota
	opIn
)

type Filter struct {
	Column string
	op     filterOp
	Value  any
}

func Eq(column string, value any) Filter {
	return Filter{Column: column, op: opEq, Value: value}
}

// In matches rows whose column is one of values. values must be a slice; an
// empty slice matches nothing.
func In(column string, values any) Filter {
	return Filter{Column: column, op: opIn, Value: values}
}

type Order struct {
	Column string
	Desc   bool
}

func Asc(column string) Order  { return Order{Column: column} }
func Desc(column string) Order { return Order{Column: column, Desc: true} }

type Query struct {
	Filters []Filter
	Order   []Order
	Limit   int
}

// Patch maps column names to their new values.
type Patch map[string]any

// Table is a typed view over one table. Columns lists what is selected and
// returned; Writable lists what Insert binds from the row struct.
type Table[T any] struct {
	db       sqlx.ExtContext
	name     string
	columns  []string
	writable []string
}

func NewTable[T any](db sqlx.ExtContext, name string, columns, writable []string) *Table[T] {
	return &Table[T]{db: db, name: name, columns: columns, writable: writable}
}

// With returns the same table bound to another executor, typically a *sqlx.Tx.
func (t *Table[T]) With(db sqlx.ExtContext) *Table[T] {
	clone := *t
	clone.db = db
	return &clone
}

func (t *Table[T]) Select(ctx context.Context, q Query) ([]T, error) {
	query, args, err := buildSelect(t.name, t.columns, q)
	if err != nil {
		return nil, wrapErr("select", t.name, err)
	}
	var out []T
	if err := sqlx.SelectContext(ctx, t.db, &out, t.db.Rebind(query), args...); err != nil {
		return nil, wrapErr("select", t.name, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (t *Table[T]) SelectOne(ctx context.Context, filters ...Filter) (*T, error) {
	query, args, err := buildSelect(t.name, t.columns, Query{Filters: filters, Limit: 1})
	if err != nil {
		return nil, wrapErr("select", t.name, err)
	}
	var out T
	if err := sqlx.GetContext(ctx, t.db, &out, t.db.Rebind(query), args...); err != nil {
		return nil, wrapErr("select", t.name, err)
	}
	return &out, nil
}

// Insert writes rows one statement each and returns them as stored, with
// generated columns filled in.
func (t *Table[T]) Insert(ctx context.Context, rows ...T) ([]T, error) {
	query, err := buildInsert(t.name, t.writable, t.columns)
	if err != nil {
		return nil, wrapErr("insert", t.name, err)
	}
	out := make([]T, 0, len(rows))
	for i := range rows {
		stored, err := t.insertOne(ctx, query, &rows[i])
		if err != nil {
			return out, wrapErr("insert", t.name, err)
		}
		out = append(out, stored)
	}
	return out, nil
}

func (t *Table[T]) insertOne(ctx context.Context, query string, row *T) (T, error) {
	var stored T
	rows, err := sqlx.NamedQueryContext(ctx, t.db, query, row)
	if err != nil {
		return stored, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return stored, err
		}
		return stored, sql.ErrNoRows
	}
	if err := rows.StructScan(&stored); err != nil {
		return stored, err
	}
	return stored, rows.Err()
}

func (t *Table[T]) Update(ctx context.Context, patch Patch, filters ...Filter) (int64, error) {
	query, args, err := buildUpdate(t.name, patch, filters)
	if err != nil {
		return 0, wrapErr("update", t.name, err)
	}
	res, err := t.db.ExecContext(ctx, t.db.Rebind(query), args...)
	if err != nil {
		return 0, wrapErr("update", t.name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrapErr("update", t.name, err)
	}
	return n, nil
}

func (t *Table[T]) Delete(ctx context.Context, filters ...Filter) (int64, error) {
	query, args, err := buildDelete(t.name, filters)
	if err != nil {
		return 0, wrapErr("delete", t.name, err)
	}
	res, err := t.db.ExecContext(ctx, t.db.Rebind(query), args...)
	if err != nil {
		return 0, wrapErr("delete", t.name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrapErr("delete", t.name, err)
	}
	return n, nil
}

func buildSelect(table string, columns []string, q Query) (string, []any, error) {
	if err := checkIdents(append([]string{table}, columns...)...); err != nil {
		return "", nil, err
	}
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(table)

	where, args, err := buildWhere(q.Filters)
	if err != nil {
		return "", nil, err
	}
	b.WriteString(where)

	if len(q.Order) > 0 {
		parts := make([]string, 0, len(q.Order))
		for _, o := range q.Order {
			if err := checkIdents(o.Column); err != nil {
				return "", nil, err
			}
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			parts = append(parts, o.Column+" "+dir)
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(parts, ", "))
	}
	if q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	}
	return expandIn(b.String(), args)
}

func buildInsert(table string, writable, returning []string) (string, error) {
	if err := checkIdents(append(append([]string{table}, writable...), returning...)...); err != nil {
		return "", err
	}
	named := make([]string, len(writable))
	for i, col := range writable {
		named[i] = ":" + col
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		table,
		strings.Join(writable, ", "),
		strings.Join(named, ", "),
		strings.Join(returning, ", "),
	), nil
}

func buildUpdate(table string, patch Patch, filters []Filter) (string, []any, error) {
	if len(patch) == 0 {
		return "", nil, errors.New("empty patch")
	}
	if len(filters) == 0 {
		return "", nil, errUnboundedWrite
	}
	cols := make([]string, 0, len(patch))
	for col := range patch {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	if err := checkIdents(append([]string{table}, cols...)...); err != nil {
		return "", nil, err
	}

	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+len(filters))
	for i, col := range cols {
		sets[i] = col + " = ?"
		args = append(args, patch[col])
	}
	where, whereArgs, err := buildWhere(filters)
	if err != nil {
		return "", nil, err
	}
	args = append(args, whereArgs...)
	return expandIn("UPDATE "+table+" SET "+strings.Join(sets, ", ")+where, args)
}

func buildDelete(table string, filters []Filter) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, errUnboundedWrite
	}
	if err := checkIdents(table); err != nil {
		return "", nil, err
	}
	where, args, err := buildWhere(filters)
	if err != nil {
		return "", nil, err
	}
	return expandIn("DELETE FROM "+table+where, args)
}

func buildWhere(filters []Filter) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}
	clauses := make([]string, 0, len(filters))
	args := make([]any, 0, len(filters))
	for _, f := range filters {
		if err := checkIdents(f.Column); err != nil {
			return "", nil, err
		}
		switch f.op {
		case opEq:
			clauses = append(clauses, f.Column+" = ?")
			args = append(args, f.Value)
		case opIn:
			n, err := sliceLen(f.Value)
			if err != nil {
				return "", nil, fmt.Errorf("filter %s: %w", f.Column, err)
			}
			if n == 0 {
				clauses = append(clauses, "FALSE")
				continue
			}
			clauses = append(clauses, f.Column+" IN (?)")
			args = append(args, f.Value)
		default:
			return "", nil, fmt.Errorf("filter %s: unknown operator", f.Column)
		}
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func expandIn(query string, args []any) (string, []any, error) {
	if len(args) == 0 {
		return query, args, nil
	}
	return sqlx.In(query, args...)
}

func checkIdents(idents ...string) error {
	for _, id := range idents {
		if !identPattern.MatchString(id) {
			return fmt.Errorf("invalid identifier %q", id)
		}
	}
	return nil
}

func wrapErr(op, collection string, err error) error {
	if err == nil {
		return nil
	}
	var storeErr *ports.StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	se := &ports.StoreError{Op: op, Collection: collection, Err: err}
	var pgErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.Is(err, sql.ErrNoRows):
		se.Code = ports.CodeNotFound
	case errors.As(err, &pgErr):
		se.Code = pgErr.Code
	case errors.As(err, &pqErr):
		se.Code = string(pqErr.Code)
	}
	return se
}

func sliceLen(v any) (int, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return 0, fmt.Errorf("in filter expects a slice, got %T", v)
	}
	return rv.Len(), nil
}
