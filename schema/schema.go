// Package schema carries the relational metadata field paths resolve
// against: tables, their keys, and named relations between them.
package schema

import (
	"github.com/pkg/errors"

	"indexquery/util"
)

// Relation names a traversal from one table to another. For a
// collection (Many), ForeignKey lives on the related table and points
// back at the owner's key; otherwise ForeignKey lives on the owner and
// points at the related table's key.
type Relation struct {
	Name       string `yaml:"name"`
	Table      string `yaml:"table"`
	ForeignKey string `yaml:"foreign_key"`
	Many       bool   `yaml:"many,omitempty"`
}

type Table struct {
	Key       string     `yaml:"key,omitempty"`
	Relations []Relation `yaml:"relations,omitempty"`
}

// KeyColumn returns the table's key column, defaulting to "id".
func (tbl Table) KeyColumn() string {
	if tbl.Key == "" {
		return "id"
	}
	return tbl.Key
}

type Schema struct {
	Tables map[string]Table `yaml:"tables"`
}

// Load reads a schema from yaml and validates it.
func Load(path string) (sch *Schema, err error) {

	sch = &Schema{}
	err = util.LoadConfig(sch, path)
	if err != nil {
		return
	}

	err = sch.Validate()
	return
}

// Table looks up a table by name.
func (sch *Schema) Table(name string) (tbl Table, err error) {

	tbl, ok := sch.Tables[name]
	if !ok {
		err = errors.Errorf("unknown table %q", name)
	}
	return
}

// Relation looks up a named relation on a table.
func (sch *Schema) Relation(table, name string) (rel Relation, err error) {

	tbl, err := sch.Table(table)
	if err != nil {
		return
	}

	for _, rel = range tbl.Relations {
		if rel.Name == name {
			return
		}
	}

	err = errors.Errorf("unknown relation %q on table %q", name, table)
	return
}

// Validate checks that every relation names a known table and carries a
// foreign key.
func (sch *Schema) Validate() (err error) {

	for name, tbl := range sch.Tables {
		for _, rel := range tbl.Relations {
			if rel.Name == "" {
				err = errors.Errorf("unnamed relation on table %q", name)
				return
			}
			if rel.ForeignKey == "" {
				err = errors.Errorf("relation %q on table %q has no foreign key", rel.Name, name)
				return
			}
			_, ok := sch.Tables[rel.Table]
			if !ok {
				err = errors.Errorf("relation %q on table %q targets unknown table %q", rel.Name, name, rel.Table)
				return
			}
		}
	}

	return
}
