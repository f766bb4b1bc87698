package entity

import (
	"fmt"

	"github.com/pkg/errors"
)

// Operator is one of the closed set of comparison semantics a filter
// field may declare. Values outside the set are legal to declare and
// fail with ErrUnknownOperator when applied.
type Operator int

const (
	EqualTo Operator = iota
	NotEqualTo
	Contains // substring match
	GreaterThan
	GreaterThanOrEqualTo
	LessThan
	LessThanOrEqualTo
	Present // null/blank check
)

// ErrUnknownOperator flags an operator outside the recognized set whose
// runtime key was present in the supplied values.
var ErrUnknownOperator = errors.New("unknown operator")

var operatorNames = map[Operator]string{
	EqualTo:              "equal_to",
	NotEqualTo:           "not_equal_to",
	Contains:             "contains",
	GreaterThan:          "greater_than",
	GreaterThanOrEqualTo: "greater_than_or_equal_to",
	LessThan:             "less_than",
	LessThanOrEqualTo:    "less_than_or_equal_to",
	Present:              "present",
}

func (op Operator) String() string {
	name, ok := operatorNames[op]
	if !ok {
		return fmt.Sprintf("operator(%d)", int(op))
	}
	return name
}

// Key binds the operator to the runtime key that supplies its value.
func (op Operator) Key(key string) Binding {
	return Binding{Op: op, Key: key}
}
