package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/xraph/grove"

	"github.com/pawhub/leash/store"
)

// documentModel is the single-table row shape. SQLite stores the document
// body as JSON text; json_extract addresses it in filters.
type documentModel struct {
	grove.BaseModel `grove:"table:paw_documents"`
	ID              string    `grove:"id,pk"`
	Collection      string    `grove:"collection,notnull"`
	DocID           string    `grove:"doc_id,notnull"`
	Data            string    `grove:"data,notnull"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

// rowID builds the synthetic primary key.
func rowID(collection, docID string) string {
	return collection + "/" + docID
}

func toModel(collection string, doc store.Document) (*documentModel, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("leash/sqlite: encode document %s: %w", doc.ID(), err)
	}
	return &documentModel{
		ID:         rowID(collection, doc.ID()),
		Collection: collection,
		DocID:      doc.ID(),
		Data:       string(data),
	}, nil
}

func fromModel(m *documentModel) (store.Document, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(m.Data), &raw); err != nil {
		return nil, fmt.Errorf("leash/sqlite: decode document %s: %w", m.DocID, err)
	}
	doc := make(store.Document, len(raw)+1)
	for k, v := range raw {
		doc[k] = fromValue(v)
	}
	doc["id"] = m.DocID
	return doc, nil
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
