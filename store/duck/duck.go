// Package duck executes composed scopes against DuckDB.
package duck

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"indexquery"
	nt "indexquery/entity"
	"indexquery/schema"
)

type Duck struct {
	db     *sql.DB
	logger nt.Logger
	sch    *schema.Schema
}

// New opens an in-memory DuckDB store over the given schema.
func New(lgr nt.Logger, sch *schema.Schema) (dk *Duck, err error) {

	db, err := sql.Open("duckdb", "")
	if err != nil {
		err = errors.Wrapf(err, "failed to open memo duck")
		return
	}

	dk = &Duck{
		db:     db,
		logger: lgr,
		sch:    sch,
	}

	return
}

func (dk *Duck) Close() {
	dk.db.Close()
}

// DB exposes the underlying handle for loading data.
func (dk *Duck) DB() *sql.DB {
	return dk.db
}

// Schema returns the schema the store resolves relations against.
func (dk *Duck) Schema() *schema.Schema {
	return dk.sch
}

// Select executes a scope and scans its rows into records.
func (dk *Duck) Select(ctx context.Context, scope indexquery.Scope) (recs []*nt.Record, err error) {

	query, args := scope.SQL()
	dk.logger.Info(ctx, "executing query", "sql", query, "args", args)

	recs, err = dk.selectRecords(ctx, scope.Table(), query, args)
	return
}

// SelectChildren executes a scope, then eagerly loads the named child
// relation for every resulting parent with a single IN query, grouping
// children under their parents in child-key order.
func (dk *Duck) SelectChildren(ctx context.Context, scope indexquery.Scope, relation string) (parents []*nt.Record, err error) {

	parents, err = dk.Select(ctx, scope)
	if err != nil || len(parents) == 0 {
		return
	}

	rel, err := dk.sch.Relation(scope.Table(), relation)
	if err != nil {
		return
	}
	if !rel.Many {
		err = errors.Errorf("relation %q on table %q is not a collection", relation, scope.Table())
		return
	}

	parentTbl, err := dk.sch.Table(scope.Table())
	if err != nil {
		return
	}
	childTbl, err := dk.sch.Table(rel.Table)
	if err != nil {
		return
	}

	key := parentTbl.KeyColumn()
	ids := make([]any, 0, len(parents))
	for _, parent := range parents {
		ids = append(ids, parent.Get(key).Raw)
	}

	query := fmt.Sprintf("SELECT * FROM %s WHERE %s IN (%s) ORDER BY %s",
		rel.Table, rel.ForeignKey, placeholders(len(ids)), childTbl.KeyColumn())
	dk.logger.Info(ctx, "eager loading children", "sql", query, "relation", relation)

	children, err := dk.selectRecords(ctx, rel.Table, query, ids)
	if err != nil {
		return
	}

	byParent := map[string][]*nt.Record{}
	for _, child := range children {
		fk := child.Get(rel.ForeignKey).String()
		byParent[fk] = append(byParent[fk], child)
	}

	for _, parent := range parents {
		for _, child := range byParent[parent.Get(key).String()] {
			parent.AddChild(relation, child)
		}
	}

	return
}

// unexported

func (dk *Duck) selectRecords(ctx context.Context, table, query string, args []any) (recs []*nt.Record, err error) {

	rows, err := dk.db.QueryContext(ctx, query, args...)
	if err != nil {
		err = errors.Wrapf(err, "failed to query %s", table)
		return
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		err = errors.Wrapf(err, "failed to get cols from query rows")
		return
	}

	for rows.Next() {
		var vals []any
		vals, err = scanRow(rows, len(cols))
		if err != nil {
			err = errors.Wrapf(err, "failed to scan row")
			return
		}

		fields := make(map[string]nt.Value, len(cols))
		for i, val := range vals {
			fields[cols[i]] = nt.Value{Raw: val}
		}

		recs = append(recs, &nt.Record{
			Table:  table,
			Fields: fields,
		})
	}

	err = rows.Err()
	err = errors.Wrapf(err, "error iterating rows")
	return
}

func scanRow(rows *sql.Rows, columnCount int) ([]any, error) {

	vals := make([]any, columnCount)
	ptrs := make([]any, columnCount)
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	err := rows.Scan(ptrs...)
	return vals, err
}

func placeholders(count int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", count), ", ")
}
