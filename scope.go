package indexquery

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	nt "indexquery/entity"
	"indexquery/schema"
)

// Scope is a query description under composition: a base table plus the
// joins, conjunctive conditions, and ordering layered on so far. Scopes
// are values; deriving methods return a copy and never mutate the
// receiver, so a base scope can be reused across calls.
type Scope struct {
	sch   *schema.Schema
	table string
	joins []string
	conds []condition
	order string
}

type condition struct {
	Expr string
	Args []any
}

// From starts a scope over a base table.
func From(sch *schema.Schema, table string) Scope {
	return Scope{
		sch:   sch,
		table: table,
	}
}

// Table returns the base table name.
func (sc Scope) Table() string {
	return sc.table
}

// Where appends a conjunctive condition with placeholder args.
func (sc Scope) Where(expr string, args ...any) Scope {

	conds := make([]condition, len(sc.conds), len(sc.conds)+1)
	copy(conds, sc.conds)

	sc.conds = append(conds, condition{Expr: expr, Args: args})
	return sc
}

// Join appends a join clause, skipping clauses already present so a
// path traversed by two operators joins once.
func (sc Scope) Join(clause string) Scope {

	for _, have := range sc.joins {
		if have == clause {
			return sc
		}
	}

	joins := make([]string, len(sc.joins), len(sc.joins)+1)
	copy(joins, sc.joins)

	sc.joins = append(joins, clause)
	return sc
}

// Order sets the raw ordering expression, replacing any prior one.
func (sc Scope) Order(expr string) Scope {
	sc.order = expr
	return sc
}

// SQL renders the scope to a parameterized SELECT and its args. The
// projection is the base table's columns, DISTINCT when joins could
// multiply rows.
func (sc Scope) SQL() (query string, args []any) {

	var sb strings.Builder

	sb.WriteString("SELECT ")
	if len(sc.joins) > 0 {
		sb.WriteString("DISTINCT ")
	}
	sb.WriteString(sc.table + ".* FROM " + sc.table)

	for _, join := range sc.joins {
		sb.WriteString(" " + join)
	}

	if len(sc.conds) > 0 {
		exprs := make([]string, 0, len(sc.conds))
		for _, cond := range sc.conds {
			exprs = append(exprs, cond.Expr)
			args = append(args, cond.Args...)
		}
		sb.WriteString(" WHERE " + strings.Join(exprs, " AND "))
	}

	if sc.order != "" {
		sb.WriteString(" ORDER BY " + sc.order)
	}

	query = sb.String()
	return
}

// column resolves a field path to a qualified column reference, joining
// through relations for multi-segment paths.
func (sc Scope) column(path nt.Path) (col string, out Scope, err error) {

	out = sc
	if len(path) == 0 {
		err = errors.New("empty field path")
		return
	}

	table := sc.table
	for _, name := range path[:len(path)-1] {

		var rel schema.Relation
		rel, err = sc.sch.Relation(table, name)
		if err != nil {
			return
		}

		var clause string
		clause, err = joinClause(sc.sch, table, rel)
		if err != nil {
			return
		}

		out = out.Join(clause)
		table = rel.Table
	}

	col = table + "." + path[len(path)-1]
	return
}

func joinClause(sch *schema.Schema, owner string, rel schema.Relation) (clause string, err error) {

	if rel.Many {
		var ownerTbl schema.Table
		ownerTbl, err = sch.Table(owner)
		if err != nil {
			return
		}
		clause = fmt.Sprintf("JOIN %s ON %s.%s = %s.%s",
			rel.Table, rel.Table, rel.ForeignKey, owner, ownerTbl.KeyColumn())
		return
	}

	var target schema.Table
	target, err = sch.Table(rel.Table)
	if err != nil {
		return
	}
	clause = fmt.Sprintf("JOIN %s ON %s.%s = %s.%s",
		rel.Table, rel.Table, target.KeyColumn(), owner, rel.ForeignKey)
	return
}
