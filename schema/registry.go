package schema

import (
	"fmt"
	"strings"
)

// Registry holds the entity descriptors for the whole platform. Built once
// at startup, read-only afterwards.
type Registry struct {
	entities map[string]*Entity
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entities: make(map[string]*Entity)}
}

// Register adds an entity descriptor. Registering the same type twice is a
// programming error.
func (r *Registry) Register(e *Entity) *Registry {
	if _, dup := r.entities[e.Type]; dup {
		panic(fmt.Sprintf("schema: entity %q registered twice", e.Type))
	}
	r.entities[e.Type] = e
	return r
}

// Entity returns the descriptor for an entity type.
func (r *Registry) Entity(entityType string) (*Entity, bool) {
	e, ok := r.entities[entityType]
	return e, ok
}

// Check verifies that every relation target and foreign-key field resolves.
// Call after all entities are registered.
func (r *Registry) Check() error {
	for _, e := range r.entities {
		for _, name := range e.order {
			f, _ := e.Field(name)
			switch f.Kind {
			case KindRef:
				target, ok := r.entities[f.Target]
				if !ok {
					return fmt.Errorf("schema: entity %q relation %q: unknown target %q", e.Type, f.Name, f.Target)
				}
				if fk, ok := e.Field(f.FK); !ok || fk.Kind != KindLeaf {
					return fmt.Errorf("schema: entity %q relation %q: foreign key %q is not a declared leaf", e.Type, f.Name, f.FK)
				}
				if _, ok := target.Field("id"); !ok {
					return fmt.Errorf("schema: entity %q has no id field", target.Type)
				}
			case KindRefList:
				target, ok := r.entities[f.Target]
				if !ok {
					return fmt.Errorf("schema: entity %q relation %q: unknown target %q", e.Type, f.Name, f.Target)
				}
				if ff, ok := target.Field(f.ForeignField); !ok || ff.Kind != KindLeaf {
					return fmt.Errorf("schema: entity %q relation %q: foreign field %q is not a leaf on %q", e.Type, f.Name, f.ForeignField, f.Target)
				}
			}
		}
	}
	return nil
}

// Canonicalize validates a dotted field path against an entity type and
// returns it in canonical casing. Each segment must resolve to a declared
// field; every non-terminal segment must be a relation.
func (r *Registry) Canonicalize(entityType, path string) (string, error) {
	e, ok := r.entities[entityType]
	if !ok {
		return "", fmt.Errorf("schema: unknown entity type %q: %w", entityType, ErrInvalidPath)
	}
	segments := strings.Split(path, ".")
	canonical := make([]string, 0, len(segments))
	current := e
	for i, seg := range segments {
		if seg == "" {
			return "", &PathError{Entity: current.Type, Segment: seg, Path: path}
		}
		f, ok := current.Field(seg)
		if !ok {
			return "", &PathError{Entity: current.Type, Segment: seg, Path: path}
		}
		canonical = append(canonical, f.Name)
		if i == len(segments)-1 {
			break
		}
		if f.Kind == KindLeaf {
			return "", &PathError{Entity: current.Type, Segment: segments[i+1], Path: path}
		}
		current = r.entities[f.Target]
		if current == nil {
			return "", &PathError{Entity: f.Target, Segment: segments[i+1], Path: path}
		}
	}
	return strings.Join(canonical, "."), nil
}

// CanonicalizeAll canonicalizes a field set, deduplicating while preserving
// first-seen order.
func (r *Registry) CanonicalizeAll(entityType string, paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		c, err := r.Canonicalize(entityType, p)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}

// Split partitions a censored or requested field set into native fields and
// per-relation groups of sub-paths, keyed by the relation's canonical name.
type Split struct {
	Native    []string
	Relations map[string][]string
}

// Split partitions paths for one entity type. Paths are canonicalized as a
// side effect; a bare relation segment produces an empty group.
func (r *Registry) Split(entityType string, paths []string) (*Split, error) {
	e, ok := r.entities[entityType]
	if !ok {
		return nil, fmt.Errorf("schema: unknown entity type %q: %w", entityType, ErrInvalidPath)
	}
	s := &Split{Relations: make(map[string][]string)}
	for _, p := range paths {
		head, rest, nested := strings.Cut(p, ".")
		f, ok := e.Field(head)
		if !ok {
			return nil, &PathError{Entity: e.Type, Segment: head, Path: p}
		}
		switch {
		case f.Kind == KindLeaf && nested:
			return nil, &PathError{Entity: e.Type, Segment: strings.SplitN(rest, ".", 2)[0], Path: p}
		case f.Kind == KindLeaf:
			s.Native = append(s.Native, f.Name)
		case nested:
			s.Relations[f.Name] = append(s.Relations[f.Name], rest)
		default:
			if _, ok := s.Relations[f.Name]; !ok {
				s.Relations[f.Name] = nil
			}
		}
	}
	return s, nil
}
