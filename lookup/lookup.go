// Package lookup defines the client-facing request objects of the pipeline:
// filter criteria, requested field paths, and paging/sort, one subtype per
// entity. Lookups compile to storage filters with omit-if-unset semantics:
// an empty criterion adds no predicate, it never means "match nothing".
package lookup

import (
	"fmt"

	"github.com/pawhub/leash/store"
)

// Entity type names used across the platform.
const (
	TypeUser         = "user"
	TypeShelter      = "shelter"
	TypeAnimal       = "animal"
	TypeApplication  = "application"
	TypeMessage      = "message"
	TypeNotification = "notification"
)

// Lookup is a single entity type's request object.
type Lookup interface {
	// EntityType names the entity this lookup targets.
	EntityType() string

	// Base exposes the shared paging/sort/projection fields.
	Base() *Base

	// Criteria compiles the entity-specific filter criteria. Unset
	// criteria are omitted; nil means no constraint.
	Criteria() *store.Filter

	// OwnerCandidates returns the explicit owner ids this lookup is
	// constrained to, if the entity has an owner notion. Used as the
	// ownership fast path.
	OwnerCandidates() []string

	// Key returns a canonical structural key of all significant fields.
	// Equal lookups produce equal keys regardless of criteria value
	// order; the key is stable across process restarts.
	Key() string
}

// Base carries the fields shared by every lookup.
type Base struct {
	Offset         int
	PageSize       int
	Query          string
	SortBy         string
	SortDescending bool

	fields []string
}

// SetFields replaces the requested field paths, deduplicating while
// preserving first-seen order and dropping empty entries. Validation and
// canonical casing happen when a query is compiled.
func (b *Base) SetFields(paths ...string) {
	b.fields = b.fields[:0]
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		b.fields = append(b.fields, p)
	}
}

// Fields returns the requested field paths. An empty set is legal and means
// "no projection constraint yet".
func (b *Base) Fields() []string { return b.fields }

func (b *Base) writeKey(k *keyWriter) {
	k.Int("offset", b.Offset)
	k.Int("pageSize", b.PageSize)
	k.Str("query", b.Query)
	k.Str("sortBy", b.SortBy)
	k.Bool("sortDesc", b.SortDescending)
}

// Registry maps entity types to lookup constructors so fresh, empty lookups
// can be built for nested authorization contexts. Constructors are
// registered explicitly at startup.
type Registry struct {
	ctors map[string]func() Lookup
}

// NewRegistry creates an empty constructor registry.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]func() Lookup)}
}

// Register adds a constructor for an entity type.
func (r *Registry) Register(entityType string, ctor func() Lookup) *Registry {
	r.ctors[entityType] = ctor
	return r
}

// New builds a fresh empty lookup for an entity type.
func (r *Registry) New(entityType string) (Lookup, error) {
	ctor, ok := r.ctors[entityType]
	if !ok {
		return nil, fmt.Errorf("lookup: no constructor registered for entity type %q", entityType)
	}
	return ctor(), nil
}

// DefaultRegistry returns a registry with all platform lookups registered.
func DefaultRegistry() *Registry {
	return NewRegistry().
		Register(TypeUser, func() Lookup { return NewUserLookup() }).
		Register(TypeShelter, func() Lookup { return NewShelterLookup() }).
		Register(TypeAnimal, func() Lookup { return NewAnimalLookup() }).
		Register(TypeApplication, func() Lookup { return NewApplicationLookup() }).
		Register(TypeMessage, func() Lookup { return NewMessageLookup() }).
		Register(TypeNotification, func() Lookup { return NewNotificationLookup() })
}
