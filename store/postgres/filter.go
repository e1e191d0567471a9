package postgres

import (
	"fmt"
	"strings"
	"time"

	"github.com/pawhub/leash/store"
)

// accessor returns the SQL expression reading a logical field as text.
// Field names reach this point from the schema registry and scope
// resolvers, but they are interpolated into SQL, so they are still
// validated.
func accessor(field string) (string, error) {
	if field == "id" {
		return "doc_id", nil
	}
	if !validField(field) {
		return "", fmt.Errorf("leash/postgres: invalid field name %q", field)
	}
	return "data->>'" + field + "'", nil
}

func validField(field string) bool {
	if field == "" {
		return false
	}
	for _, r := range field {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}

// render translates a filter tree into a SQL predicate with '?'
// placeholders. A nil filter renders to the empty predicate.
func render(f *store.Filter) (string, []any, error) {
	if f == nil {
		return "", nil, nil
	}
	switch f.Op {
	case store.OpAnd, store.OpOr:
		sep := " AND "
		if f.Op == store.OpOr {
			sep = " OR "
		}
		parts := make([]string, 0, len(f.Children))
		var args []any
		for _, c := range f.Children {
			expr, cargs, err := render(c)
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, expr)
			args = append(args, cargs...)
		}
		return "(" + strings.Join(parts, sep) + ")", args, nil
	case store.OpEq:
		acc, err := accessor(f.Field)
		if err != nil {
			return "", nil, err
		}
		if f.Value == nil {
			return acc + " IS NULL", nil, nil
		}
		return acc + " = ?", []any{renderArg(f.Value)}, nil
	case store.OpNe:
		acc, err := accessor(f.Field)
		if err != nil {
			return "", nil, err
		}
		if f.Value == nil {
			return acc + " IS NOT NULL", nil, nil
		}
		return "(" + acc + " <> ? OR " + acc + " IS NULL)", []any{renderArg(f.Value)}, nil
	case store.OpIn, store.OpNin:
		acc, err := accessor(f.Field)
		if err != nil {
			return "", nil, err
		}
		holes := strings.TrimSuffix(strings.Repeat("?, ", len(f.Values)), ", ")
		args := make([]any, len(f.Values))
		for i, v := range f.Values {
			args[i] = renderArg(v)
		}
		if f.Op == store.OpIn {
			return acc + " IN (" + holes + ")", args, nil
		}
		return "(" + acc + " NOT IN (" + holes + ") OR " + acc + " IS NULL)", args, nil
	case store.OpGt, store.OpGte, store.OpLt, store.OpLte:
		acc, err := accessor(f.Field)
		if err != nil {
			return "", nil, err
		}
		cmp := map[store.Op]string{
			store.OpGt: ">", store.OpGte: ">=",
			store.OpLt: "<", store.OpLte: "<=",
		}[f.Op]
		return acc + " " + cmp + " ?", []any{renderArg(f.Value)}, nil
	case store.OpContains:
		acc, err := accessor(f.Field)
		if err != nil {
			return "", nil, err
		}
		sub, _ := f.Value.(string)
		return acc + " ILIKE ?", []any{"%" + escapeLike(sub) + "%"}, nil
	case store.OpNone:
		return "1 = 0", nil, nil
	default:
		return "", nil, fmt.Errorf("leash/postgres: unsupported filter op %q", f.Op)
	}
}

// renderArg converts a filter value to the textual form the JSONB text
// accessor yields. Times follow encoding/json's RFC 3339 rendering so
// lexical comparison matches chronological order.
func renderArg(v any) any {
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(t)
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// orderExpr renders the sort spec, defaulting to ascending id order.
func orderExpr(s store.Sort) (string, error) {
	field := s.Field
	if field == "" {
		field = "id"
	}
	acc, err := accessor(field)
	if err != nil {
		return "", err
	}
	dir := "ASC"
	if s.Descending {
		dir = "DESC"
	}
	return acc + " " + dir, nil
}
