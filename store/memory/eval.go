package memory

import (
	"fmt"
	"strings"
	"time"

	"github.com/pawhub/leash/store"
)

// eval applies a filter tree to a document. A nil filter matches everything.
func eval(f *store.Filter, doc store.Document) (bool, error) {
	if f == nil {
		return true, nil
	}
	switch f.Op {
	case store.OpAnd:
		for _, c := range f.Children {
			ok, err := eval(c, doc)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case store.OpOr:
		for _, c := range f.Children {
			ok, err := eval(c, doc)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case store.OpNone:
		return false, nil
	case store.OpEq:
		return equal(doc[f.Field], f.Value), nil
	case store.OpNe:
		return !equal(doc[f.Field], f.Value), nil
	case store.OpIn:
		for _, v := range f.Values {
			if equal(doc[f.Field], v) {
				return true, nil
			}
		}
		return false, nil
	case store.OpNin:
		for _, v := range f.Values {
			if equal(doc[f.Field], v) {
				return false, nil
			}
		}
		return true, nil
	case store.OpGt:
		return ordered(doc[f.Field], f.Value, func(c int) bool { return c > 0 }), nil
	case store.OpGte:
		return ordered(doc[f.Field], f.Value, func(c int) bool { return c >= 0 }), nil
	case store.OpLt:
		return ordered(doc[f.Field], f.Value, func(c int) bool { return c < 0 }), nil
	case store.OpLte:
		return ordered(doc[f.Field], f.Value, func(c int) bool { return c <= 0 }), nil
	case store.OpContains:
		hay, ok := doc[f.Field].(string)
		if !ok {
			return false, nil
		}
		needle, ok := f.Value.(string)
		if !ok {
			return false, nil
		}
		return strings.Contains(strings.ToLower(hay), strings.ToLower(needle)), nil
	default:
		return false, fmt.Errorf("memory: unsupported filter op %q", f.Op)
	}
}

// ordered applies cmp to compare(a, b); a missing or incomparable value
// never matches a range predicate.
func ordered(a, b any, cmp func(int) bool) bool {
	if a == nil || b == nil {
		return false
	}
	if !comparable2(a, b) {
		return false
	}
	return cmp(compare(a, b))
}

func equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !comparable2(a, b) {
		return false
	}
	return compare(a, b) == 0
}

func comparable2(a, b any) bool {
	_, aNum := asFloat(a)
	_, bNum := asFloat(b)
	if aNum || bNum {
		return aNum && bNum
	}
	_, aTime := a.(time.Time)
	_, bTime := b.(time.Time)
	if aTime || bTime {
		return aTime && bTime
	}
	switch a.(type) {
	case string:
		_, ok := b.(string)
		return ok
	case bool:
		_, ok := b.(bool)
		return ok
	default:
		return false
	}
}

// compare returns -1, 0, or 1. Callers must have established comparability.
func compare(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	if af, ok := asFloat(a); ok {
		bf, _ := asFloat(b)
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	if at, ok := a.(time.Time); ok {
		bt, _ := b.(time.Time)
		switch {
		case at.Before(bt):
			return -1
		case at.After(bt):
			return 1
		default:
			return 0
		}
	}
	if as, ok := a.(string); ok {
		bs, _ := b.(string)
		return strings.Compare(as, bs)
	}
	if ab, ok := a.(bool); ok {
		bb, _ := b.(bool)
		switch {
		case ab == bb:
			return 0
		case bb:
			return -1
		default:
			return 1
		}
	}
	return 0
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	default:
		return 0, false
	}
}
