// Package indexquery composes filtered, ordered relational queries from
// a declarative set of filter-field rules plus a runtime map of filter
// values, the sort of conditional query building index views otherwise
// hand-roll.
package indexquery

import (
	"context"

	nt "indexquery/entity"
)

// Store specifies a backing datastore that can execute scopes.
type Store interface {
	// Select executes a scope and scans its rows into records
	Select(ctx context.Context, scope Scope) (recs []*nt.Record, err error)
	// SelectChildren executes a scope with a child relation eagerly loaded
	SelectChildren(ctx context.Context, scope Scope, relation string) (recs []*nt.Record, err error)
}

// Options carries the per-call inputs recognized by Query; Filters is
// the runtime value map, anything else a caller tacks on is ignored.
type Options struct {
	Filters nt.Values
}

// Query derives a scope: configure declares the filter fields and
// ordering against a fresh Definition, then the declared operators
// whose runtime keys appear in opts.Filters are applied to the base
// scope. The result is a query description for the caller to execute.
func Query(scope Scope, opts Options, configure func(*Definition)) (out Scope, err error) {

	def := &Definition{}
	if configure != nil {
		configure(def)
	}

	out, err = Build(scope, def, opts.Filters)
	return
}

// QueryChildren reuses a parent declaration to list children: it runs
// Query, executes the derived scope with relation eagerly loaded,
// back-links each child to its loaded parent, and returns the children
// flattened in parent order then per-parent child order.
func QueryChildren(ctx context.Context, store Store, relation string, scope Scope, opts Options, configure func(*Definition)) (children []*nt.Record, err error) {

	derived, err := Query(scope, opts, configure)
	if err != nil {
		return
	}

	parents, err := store.SelectChildren(ctx, derived, relation)
	if err != nil {
		return
	}

	for _, parent := range parents {
		for _, child := range parent.Children[relation] {
			child.AttachParent(parent)
			children = append(children, child)
		}
	}

	return
}
