package indexquery

import (
	nt "indexquery/entity"
)

// Definition collects the filter fields and ordering declared for one
// query. Built fresh inside the configuration callback per call, never
// reused across calls.
type Definition struct {
	filters []nt.FieldFilter
	order   string
}

// Filter declares a field filter: a path plus operator bindings, kept
// in declaration order. The bare form with no bindings declares a
// presence check keyed by the path's final segment.
func (def *Definition) Filter(path nt.Path, bindings ...nt.Binding) {

	if len(bindings) == 0 && len(path) > 0 {
		bindings = []nt.Binding{nt.Present.Key(path[len(path)-1])}
	}

	def.filters = append(def.filters, nt.FieldFilter{
		Path:     path,
		Bindings: bindings,
	})
}

// OrderBy records a raw ordering expression appended to the final
// query, replacing any prior one.
func (def *Definition) OrderBy(expr string) {
	def.order = expr
}
