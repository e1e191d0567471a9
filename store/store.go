// Package store defines the document persistence primitive the pipeline
// composes against: schemaless documents addressed by collection, a
// structured filter tree over field predicates, and sort/page application.
// Backends: Mongo (canonical), Postgres, SQLite, and Memory.
package store

import (
	"context"
	"errors"
)

// ErrNoDocument is returned when a document cannot be found by id.
var ErrNoDocument = errors.New("store: document not found")

// Document is a schemaless record. Values are plain Go scalars, time.Time,
// []any, or nested maps as produced by the backend decoder.
type Document map[string]any

// ID returns the document's "id" value, or "" if absent.
func (d Document) ID() string {
	s, _ := d["id"].(string)
	return s
}

// Str returns the named field as a string, or "" if absent or not a string.
func (d Document) Str(field string) string {
	s, _ := d[field].(string)
	return s
}

// Clone returns a copy deep enough for safe sharing: nested maps and slices
// are copied, scalar values are not.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Document:
		return t.Clone()
	case map[string]any:
		return Document(t).Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	default:
		return v
	}
}

// Sort names the field to order by. A zero Sort means ordering by id.
type Sort struct {
	Field      string
	Descending bool
}

// Page bounds a result set. A zero Limit means no bound.
type Page struct {
	Offset int
	Limit  int
}

// Store is the document store contract. Filter composition happens above
// this interface; backends only translate and execute it. Storage errors
// propagate untranslated so a surrounding boundary can decide on
// retry/abort.
type Store interface {
	// Find returns the page of documents matching the filter.
	Find(ctx context.Context, collection string, f *Filter, s Sort, p Page) ([]Document, error)

	// Count returns the total number of matching documents, ignoring
	// paging.
	Count(ctx context.Context, collection string, f *Filter) (int64, error)

	// Get retrieves a single document by id. Returns ErrNoDocument when
	// absent.
	Get(ctx context.Context, collection, docID string) (Document, error)

	// Insert persists a new document. The document must carry an "id".
	Insert(ctx context.Context, collection string, doc Document) error

	// Update replaces an existing document matched by its "id".
	Update(ctx context.Context, collection string, doc Document) error

	// Delete removes a document by id.
	Delete(ctx context.Context, collection, docID string) error

	// Migrate prepares backend structures (indexes, tables).
	Migrate(ctx context.Context) error

	// Ping checks connectivity.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}
