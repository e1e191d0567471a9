// Package schema defines the explicit per-entity-type schema registry used
// for field-path validation, canonical casing, and relation resolution.
//
// Every entity type is described once at startup: its leaf fields, its
// relations (single references via a local foreign-key field, or reverse
// one-to-many lists via a foreign field on the target), and the fields
// participating in free-text search. The registry replaces any runtime
// reflection over entity properties: paths either resolve through declared
// descriptors or fail validation naming the offending segment.
package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPath is the sentinel wrapped by every path validation failure.
var ErrInvalidPath = errors.New("schema: invalid field path")

// PathError describes a field path that failed validation.
type PathError struct {
	Entity  string // entity type the offending segment was resolved against
	Segment string // the segment that did not resolve
	Path    string // the full requested path
}

func (e *PathError) Error() string {
	return fmt.Sprintf("schema: path %q: segment %q does not resolve on entity %q", e.Path, e.Segment, e.Entity)
}

func (e *PathError) Unwrap() error { return ErrInvalidPath }

// Kind classifies a field descriptor.
type Kind int

const (
	// KindLeaf is a plain value field.
	KindLeaf Kind = iota

	// KindRef is a single nested entity reached through a local
	// foreign-key field (e.g. "shelter" via "shelterId").
	KindRef

	// KindRefList is a one-to-many nested entity list matched through a
	// foreign field on the target entity (e.g. a shelter's "animals" via
	// animal.shelterId).
	KindRefList
)

// Field describes one resolvable segment on an entity.
type Field struct {
	// Name is the canonical (declared) casing of the field.
	Name string

	// Kind classifies the field.
	Kind Kind

	// Target is the related entity type for KindRef and KindRefList.
	Target string

	// FK is the local document key holding the target id (KindRef).
	FK string

	// ForeignField is the target document key holding this entity's id
	// (KindRefList).
	ForeignField string
}

// Entity describes one entity type: its storage collection and its
// resolvable fields.
type Entity struct {
	Type       string
	Collection string

	fields map[string]*Field // lower(name) -> descriptor
	order  []string
	search []string
}

// NewEntity creates an entity descriptor. Fields are added with Leaf, Ref,
// and RefList; the calls chain so a whole entity reads as one declaration.
func NewEntity(entityType, collection string) *Entity {
	return &Entity{
		Type:       entityType,
		Collection: collection,
		fields:     make(map[string]*Field),
	}
}

// Leaf declares plain value fields.
func (e *Entity) Leaf(names ...string) *Entity {
	for _, n := range names {
		e.add(&Field{Name: n, Kind: KindLeaf})
	}
	return e
}

// Ref declares a single nested entity relation. The foreign-key naming
// convention is enforced here: fk must be a declared leaf field, typically
// "<name>Id".
func (e *Entity) Ref(name, target, fk string) *Entity {
	e.add(&Field{Name: name, Kind: KindRef, Target: target, FK: fk})
	return e
}

// RefList declares a reverse one-to-many relation matched through
// foreignField on the target entity.
func (e *Entity) RefList(name, target, foreignField string) *Entity {
	e.add(&Field{Name: name, Kind: KindRefList, Target: target, ForeignField: foreignField})
	return e
}

// Searchable marks leaf fields as participating in free-text search.
func (e *Entity) Searchable(names ...string) *Entity {
	e.search = append(e.search, names...)
	return e
}

// SearchFields returns the fields participating in free-text search.
func (e *Entity) SearchFields() []string { return e.search }

// Field resolves a single segment case-insensitively.
func (e *Entity) Field(name string) (*Field, bool) {
	f, ok := e.fields[strings.ToLower(name)]
	return f, ok
}

// LeafNames returns the canonical names of all leaf fields, in declaration
// order.
func (e *Entity) LeafNames() []string {
	names := make([]string, 0, len(e.order))
	for _, n := range e.order {
		if f := e.fields[strings.ToLower(n)]; f != nil && f.Kind == KindLeaf {
			names = append(names, f.Name)
		}
	}
	return names
}

func (e *Entity) add(f *Field) {
	key := strings.ToLower(f.Name)
	if _, dup := e.fields[key]; dup {
		panic(fmt.Sprintf("schema: duplicate field %q on entity %q", f.Name, e.Type))
	}
	e.fields[key] = f
	e.order = append(e.order, f.Name)
}
