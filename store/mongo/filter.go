package mongo

import (
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/pawhub/leash/store"
)

// field maps the logical field name to its Mongo counterpart.
func field(name string) string {
	if name == "id" {
		return "_id"
	}
	return name
}

// toBSON renders a filter tree as a Mongo filter document. A nil filter
// matches everything.
func toBSON(f *store.Filter) (bson.M, error) {
	if f == nil {
		return bson.M{}, nil
	}
	switch f.Op {
	case store.OpAnd, store.OpOr:
		parts := make([]bson.M, 0, len(f.Children))
		for _, c := range f.Children {
			p, err := toBSON(c)
			if err != nil {
				return nil, err
			}
			parts = append(parts, p)
		}
		key := "$and"
		if f.Op == store.OpOr {
			key = "$or"
		}
		return bson.M{key: parts}, nil
	case store.OpEq:
		return bson.M{field(f.Field): f.Value}, nil
	case store.OpNe:
		return bson.M{field(f.Field): bson.M{"$ne": f.Value}}, nil
	case store.OpIn:
		return bson.M{field(f.Field): bson.M{"$in": f.Values}}, nil
	case store.OpNin:
		return bson.M{field(f.Field): bson.M{"$nin": f.Values}}, nil
	case store.OpGt:
		return bson.M{field(f.Field): bson.M{"$gt": f.Value}}, nil
	case store.OpGte:
		return bson.M{field(f.Field): bson.M{"$gte": f.Value}}, nil
	case store.OpLt:
		return bson.M{field(f.Field): bson.M{"$lt": f.Value}}, nil
	case store.OpLte:
		return bson.M{field(f.Field): bson.M{"$lte": f.Value}}, nil
	case store.OpContains:
		sub, _ := f.Value.(string)
		return bson.M{field(f.Field): bson.M{
			"$regex":   regexp.QuoteMeta(sub),
			"$options": "i",
		}}, nil
	case store.OpNone:
		// _id always exists, so this matches nothing.
		return bson.M{"_id": bson.M{"$exists": false}}, nil
	default:
		return nil, fmt.Errorf("leash/mongo: unsupported filter op %q", f.Op)
	}
}

// toSort renders the sort spec, defaulting to ascending _id.
func toSort(s store.Sort) bson.D {
	name := "_id"
	if s.Field != "" {
		name = field(s.Field)
	}
	dir := 1
	if s.Descending {
		dir = -1
	}
	return bson.D{{Key: name, Value: dir}}
}

// toModel prepares a document for storage: "id" becomes "_id".
func toModel(doc store.Document) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		out[field(k)] = v
	}
	return out
}

// fromBSON converts a decoded document back to the logical shape: "_id"
// becomes "id", BSON container and date types become their plain Go
// counterparts.
func fromBSON(raw bson.M) store.Document {
	out := make(store.Document, len(raw))
	for k, v := range raw {
		if k == "_id" {
			k = "id"
		}
		out[k] = fromValue(v)
	}
	return out
}

func fromValue(v any) any {
	switch t := v.(type) {
	case bson.M:
		return fromBSON(t)
	case bson.D:
		m := make(bson.M, len(t))
		for _, e := range t {
			m[e.Key] = e.Value
		}
		return fromBSON(m)
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromValue(e)
		}
		return out
	case bson.DateTime:
		return t.Time().UTC()
	default:
		return v
	}
}
