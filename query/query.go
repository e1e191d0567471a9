// Package query compiles lookups into executable, normalized storage
// queries. The factory validates requested fields and sort against the
// schema registry, clamps paging into configured bounds, and expands
// free-text search over the entity's declared search fields. A compiled
// Query only ever narrows: scoping filters are added conjunctively.
package query

import (
	"context"
	"fmt"

	"github.com/pawhub/leash/lookup"
	"github.com/pawhub/leash/schema"
	"github.com/pawhub/leash/store"
)

// Limits bounds query paging.
type Limits struct {
	// DefaultPageSize is applied when a lookup requests no page size.
	DefaultPageSize int

	// MaxPageSize caps requested page sizes.
	MaxPageSize int
}

// Factory compiles lookups against one store and schema registry.
type Factory struct {
	store  store.Store
	schema *schema.Registry
	limits Limits
}

// NewFactory creates a query factory.
func NewFactory(st store.Store, reg *schema.Registry, limits Limits) *Factory {
	return &Factory{store: st, schema: reg, limits: limits}
}

// Schema returns the registry the factory validates against.
func (f *Factory) Schema() *schema.Registry { return f.schema }

// New compiles a lookup into an executable query. Requested field paths
// are validated and canonicalized, paging is normalized into bounds, and
// free-text search expands over the entity's search fields. Invalid
// fields, sort, or search configuration fail here, before any storage
// round trip.
func (f *Factory) New(l lookup.Lookup) (*Query, error) {
	entity, ok := f.schema.Entity(l.EntityType())
	if !ok {
		return nil, fmt.Errorf("query: unknown entity type %q: %w", l.EntityType(), schema.ErrInvalidPath)
	}

	base := l.Base()
	fields, err := f.schema.CanonicalizeAll(entity.Type, base.Fields())
	if err != nil {
		return nil, err
	}

	sort, err := f.compileSort(entity, base)
	if err != nil {
		return nil, err
	}

	filter := l.Criteria()
	if base.Query != "" {
		search, err := compileSearch(entity, base.Query)
		if err != nil {
			return nil, err
		}
		filter = store.And(filter, search)
	}

	return &Query{
		store:      f.store,
		entityType: entity.Type,
		collection: entity.Collection,
		filter:     filter,
		sort:       sort,
		page:       f.normalizePage(base),
		fields:     fields,
	}, nil
}

func (f *Factory) compileSort(entity *schema.Entity, base *lookup.Base) (store.Sort, error) {
	if base.SortBy == "" {
		return store.Sort{Field: "id", Descending: base.SortDescending}, nil
	}
	fd, ok := entity.Field(base.SortBy)
	if !ok || fd.Kind != schema.KindLeaf {
		return store.Sort{}, &schema.PathError{Entity: entity.Type, Segment: base.SortBy, Path: base.SortBy}
	}
	return store.Sort{Field: fd.Name, Descending: base.SortDescending}, nil
}

func (f *Factory) normalizePage(base *lookup.Base) store.Page {
	size := base.PageSize
	if size <= 0 {
		size = f.limits.DefaultPageSize
	}
	if f.limits.MaxPageSize > 0 && size > f.limits.MaxPageSize {
		size = f.limits.MaxPageSize
	}
	offset := base.Offset
	if offset < 0 {
		offset = 0
	}
	return store.Page{Offset: offset, Limit: size}
}

func compileSearch(entity *schema.Entity, text string) (*store.Filter, error) {
	searchable := entity.SearchFields()
	if len(searchable) == 0 {
		return nil, fmt.Errorf("query: entity %q declares no search fields: %w", entity.Type, schema.ErrInvalidPath)
	}
	parts := make([]*store.Filter, 0, len(searchable))
	for _, name := range searchable {
		parts = append(parts, store.Contains(name, text))
	}
	return store.Or(parts...), nil
}

// Result is the envelope a fetch returns: the projected page of documents
// plus the total match count ignoring paging.
type Result struct {
	Items []store.Document `json:"items"`
	Count int64            `json:"count"`
}

// Query is a compiled, normalized lookup bound to its store.
type Query struct {
	store      store.Store
	entityType string
	collection string
	filter     *store.Filter
	sort       store.Sort
	page       store.Page
	fields     []string
}

// EntityType names the entity the query targets.
func (q *Query) EntityType() string { return q.entityType }

// Fields returns the canonicalized requested field paths.
func (q *Query) Fields() []string { return q.fields }

// Page returns the normalized paging window.
func (q *Query) Page() store.Page { return q.page }

// Collect executes the query and returns the matching page of documents.
func (q *Query) Collect(ctx context.Context) ([]store.Document, error) {
	return q.store.Find(ctx, q.collection, q.filter, q.sort, q.page)
}

// Count returns the total number of matching documents, ignoring paging.
func (q *Query) Count(ctx context.Context) (int64, error) {
	return q.store.Count(ctx, q.collection, q.filter)
}

// CountScoped counts matches with an additional conjunctive filter. Used
// by authorization to decide whether any requested document falls inside a
// caller's owned or affiliated scope.
func (q *Query) CountScoped(ctx context.Context, extra *store.Filter) (int64, error) {
	return q.store.Count(ctx, q.collection, store.And(q.filter, extra))
}
