package indexquery

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	nt "indexquery/entity"
)

// Build applies a definition and the supplied values to a base scope:
// each binding whose runtime key is present adds one conjunctive
// condition; absent keys skip. The ordering clause goes on last. The
// scope is composed only, never executed.
func Build(scope Scope, def *Definition, values nt.Values) (out Scope, err error) {

	out = scope
	for _, field := range def.filters {
		for _, binding := range field.Bindings {

			value, ok := values[binding.Key]
			if !ok {
				continue
			}

			out, err = apply(out, field.Path, binding.Op, value)
			if err != nil {
				return
			}
		}
	}

	if def.order != "" {
		out = out.Order(def.order)
	}

	return
}

// apply resolves the path and adds the operator's condition. The switch
// is the exhaustive handler table for the operator set; anything else
// is an unknown operator.
func apply(scope Scope, path nt.Path, op nt.Operator, value any) (out Scope, err error) {

	col, out, err := scope.column(path)
	if err != nil {
		return
	}

	switch op {
	case nt.EqualTo:
		out = out.Where(col+" = ?", value)
	case nt.NotEqualTo:
		out = out.Where(col+" <> ?", value)
	case nt.Contains:
		out = out.Where(col+` LIKE ? ESCAPE '\'`, "%"+escapeLike(fmt.Sprintf("%v", value))+"%")
	case nt.GreaterThan:
		out = out.Where(col+" > ?", value)
	case nt.GreaterThanOrEqualTo:
		out = out.Where(col+" >= ?", value)
	case nt.LessThan:
		out = out.Where(col+" < ?", value)
	case nt.LessThanOrEqualTo:
		out = out.Where(col+" <= ?", value)
	case nt.Present:
		if truthy(value) {
			out = out.Where("(" + col + " IS NOT NULL AND " + col + " <> '')")
		} else {
			out = out.Where("(" + col + " IS NULL OR " + col + " = '')")
		}
	default:
		err = errors.Wrapf(nt.ErrUnknownOperator, "%s on field %s", op, path)
	}

	return
}

func truthy(value any) bool {
	switch val := value.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != "" && val != "false"
	}
	return true
}

func escapeLike(val string) string {
	val = strings.ReplaceAll(val, `\`, `\\`)
	val = strings.ReplaceAll(val, "%", `\%`)
	val = strings.ReplaceAll(val, "_", `\_`)
	return val
}
