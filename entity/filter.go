package entity

import "strings"

// Path names the field a filter applies to, possibly traversing related
// tables: all but the last segment are relation names, the last is a
// column on the final table.
type Path []string

func (path Path) String() string {
	return strings.Join(path, ".")
}

// Binding pairs an operator with the runtime key looked up in Values.
type Binding struct {
	Op  Operator
	Key string
}

// FieldFilter declares which operators a field path supports.
// Binding order is preserved and applied in order.
type FieldFilter struct {
	Path     Path
	Bindings []Binding
}

// Values maps runtime keys to the filter values supplied for one query.
// Keys not bound by any field filter are ignored; bound keys absent from
// the map skip their operator.
type Values map[string]any
