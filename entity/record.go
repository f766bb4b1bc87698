package entity

// Record is a dynamically shaped row loaded from the store, keyed by
// column name. Children holds eagerly loaded child records per relation
// name; Parent is the back-reference set after a child expansion.
type Record struct {
	Table    string
	Fields   map[string]Value
	Parent   *Record
	Children map[string][]*Record
}

// Get returns the named field's value, zero Value when absent.
func (rec *Record) Get(field string) Value {
	return rec.Fields[field]
}

// AttachParent sets the back-reference so the child can reach its loaded
// parent without another lookup.
func (rec *Record) AttachParent(parent *Record) {
	rec.Parent = parent
}

// AddChild appends an eagerly loaded child under the named relation.
func (rec *Record) AddChild(relation string, child *Record) {
	if rec.Children == nil {
		rec.Children = make(map[string][]*Record)
	}
	rec.Children[relation] = append(rec.Children[relation], child)
}
