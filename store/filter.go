package store

// Op identifies a filter node.
type Op string

// Filter node operators.
const (
	OpAnd      Op = "and"
	OpOr       Op = "or"
	OpEq       Op = "eq"
	OpNe       Op = "ne"
	OpIn       Op = "in"
	OpNin      Op = "nin"
	OpGt       Op = "gt"
	OpGte      Op = "gte"
	OpLt       Op = "lt"
	OpLte      Op = "lte"
	OpContains Op = "contains"
	OpNone     Op = "none"
)

// Filter is a node in a conjunction/disjunction tree over field predicates.
// A nil *Filter matches every document.
type Filter struct {
	Op       Op
	Field    string
	Value    any
	Values   []any
	Children []*Filter
}

// And combines filters conjunctively. Nil children are skipped; an empty
// conjunction is nil (match all); a single child collapses to itself.
func And(children ...*Filter) *Filter {
	return combine(OpAnd, children)
}

// Or combines filters disjunctively with the same collapsing rules as And.
func Or(children ...*Filter) *Filter {
	return combine(OpOr, children)
}

func combine(op Op, children []*Filter) *Filter {
	kept := make([]*Filter, 0, len(children))
	for _, c := range children {
		if c != nil {
			kept = append(kept, c)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return &Filter{Op: op, Children: kept}
	}
}

// Eq matches documents whose field equals v.
func Eq(field string, v any) *Filter { return &Filter{Op: OpEq, Field: field, Value: v} }

// Ne matches documents whose field differs from v.
func Ne(field string, v any) *Filter { return &Filter{Op: OpNe, Field: field, Value: v} }

// Gt matches documents whose field is greater than v.
func Gt(field string, v any) *Filter { return &Filter{Op: OpGt, Field: field, Value: v} }

// Gte matches documents whose field is greater than or equal to v.
func Gte(field string, v any) *Filter { return &Filter{Op: OpGte, Field: field, Value: v} }

// Lt matches documents whose field is less than v.
func Lt(field string, v any) *Filter { return &Filter{Op: OpLt, Field: field, Value: v} }

// Lte matches documents whose field is less than or equal to v.
func Lte(field string, v any) *Filter { return &Filter{Op: OpLte, Field: field, Value: v} }

// Contains matches documents whose string field contains substr,
// case-insensitively.
func Contains(field, substr string) *Filter {
	return &Filter{Op: OpContains, Field: field, Value: substr}
}

// In matches documents whose field equals any of vals. An empty vals matches
// nothing; callers expressing "no constraint" must omit the predicate
// instead.
func In(field string, vals ...any) *Filter {
	if len(vals) == 0 {
		return None()
	}
	return &Filter{Op: OpIn, Field: field, Values: vals}
}

// Nin matches documents whose field equals none of vals. An empty vals is no
// constraint.
func Nin(field string, vals ...any) *Filter {
	if len(vals) == 0 {
		return nil
	}
	return &Filter{Op: OpNin, Field: field, Values: vals}
}

// InStrings is In over a string slice.
func InStrings(field string, vals []string) *Filter {
	return In(field, anySlice(vals)...)
}

// NinStrings is Nin over a string slice.
func NinStrings(field string, vals []string) *Filter {
	return Nin(field, anySlice(vals)...)
}

// None matches no document.
func None() *Filter { return &Filter{Op: OpNone} }

func anySlice(vals []string) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}
