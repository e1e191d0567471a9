package postgres

import (
	"time"

	"github.com/xraph/grove"

	"github.com/pawhub/leash/store"
)

// documentModel is the single-table row shape. Every logical collection
// shares paw_documents; the document body lives in a JSONB column the
// filter renderer addresses by path.
type documentModel struct {
	grove.BaseModel `grove:"table:paw_documents"`
	ID              string         `grove:"id,pk"`
	Collection      string         `grove:"collection,notnull"`
	DocID           string         `grove:"doc_id,notnull"`
	Data            map[string]any `grove:"data,type:jsonb"`
	CreatedAt       time.Time      `grove:"created_at,notnull"`
	UpdatedAt       time.Time      `grove:"updated_at,notnull"`
}

// rowID builds the synthetic primary key.
func rowID(collection, docID string) string {
	return collection + "/" + docID
}

func toModel(collection string, doc store.Document) *documentModel {
	return &documentModel{
		ID:         rowID(collection, doc.ID()),
		Collection: collection,
		DocID:      doc.ID(),
		Data:       doc,
	}
}

func fromModel(m *documentModel) store.Document {
	doc := make(store.Document, len(m.Data)+1)
	for k, v := range m.Data {
		doc[k] = fromValue(v)
	}
	doc["id"] = m.DocID
	return doc
}

// fromValue rewraps decoded JSON containers as their logical types.
func fromValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(store.Document, len(t))
		for k, e := range t {
			out[k] = fromValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromValue(e)
		}
		return out
	default:
		return v
	}
}
