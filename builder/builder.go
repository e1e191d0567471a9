// Package builder projects stored documents into response DTOs along the
// censored field set. Single references load batched by foreign key, one
// storage round trip per relation per level; reverse lists load batched by
// parent id. Fields never requested never appear, and owner-only fields
// are dropped per document unless the caller is that document's owner or
// holds a trusted role.
package builder

import (
	"context"
	"errors"
	"strings"

	"github.com/pawhub/leash"
	"github.com/pawhub/leash/access"
	"github.com/pawhub/leash/schema"
	"github.com/pawhub/leash/store"
)

// ErrDepthExceeded is returned when relation recursion exceeds the
// configured bound.
var ErrDepthExceeded = errors.New("leash: projection depth exceeded")

// Builder projects documents for one store and schema.
type Builder struct {
	store      store.Store
	schema     *schema.Registry
	rules      *access.Rules
	fetchLimit int
	maxDepth   int
}

// New creates a builder. fetchLimit caps related documents loaded per
// relation per level; maxDepth bounds recursion.
func New(st store.Store, reg *schema.Registry, rules *access.Rules, fetchLimit, maxDepth int) *Builder {
	if fetchLimit <= 0 {
		fetchLimit = 500
	}
	if maxDepth <= 0 {
		maxDepth = 8
	}
	return &Builder{store: st, schema: reg, rules: rules, fetchLimit: fetchLimit, maxDepth: maxDepth}
}

// Build projects docs into DTOs carrying exactly the requested canonical
// fields. The output is aligned with the input: out[i] is the projection
// of docs[i].
func (b *Builder) Build(ctx context.Context, ident leash.Identity, entityType string, docs []store.Document, fields []string) ([]store.Document, error) {
	return b.build(ctx, ident, entityType, docs, fields, 0)
}

func (b *Builder) build(ctx context.Context, ident leash.Identity, entityType string, docs []store.Document, fields []string, depth int) ([]store.Document, error) {
	if depth > b.maxDepth {
		return nil, ErrDepthExceeded
	}
	out := make([]store.Document, len(docs))
	for i := range out {
		out[i] = store.Document{}
	}
	if len(docs) == 0 || len(fields) == 0 {
		return out, nil
	}

	entity, ok := b.schema.Entity(entityType)
	if !ok {
		return nil, &schema.PathError{Entity: entityType, Segment: entityType, Path: entityType}
	}
	split, err := b.schema.Split(entityType, fields)
	if err != nil {
		return nil, err
	}
	rule, _ := b.rules.Rule(entityType)

	for i, doc := range docs {
		for _, f := range split.Native {
			if restricted(rule, f) && !rowVisible(rule, ident, doc) {
				continue
			}
			if v, ok := doc[f]; ok {
				out[i][f] = v
			}
		}
	}

	for _, rel := range relationOrder(fields, split) {
		fd, _ := entity.Field(rel)
		sub := split.Relations[rel]
		if len(sub) == 0 {
			target, _ := b.schema.Entity(fd.Target)
			sub = target.LeafNames()
		}
		switch fd.Kind {
		case schema.KindRef:
			err = b.attachRef(ctx, ident, docs, out, fd, sub, depth)
		case schema.KindRefList:
			err = b.attachRefList(ctx, ident, docs, out, fd, sub, depth)
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// attachRef loads the referenced documents for all parents in one query
// and attaches each projection under the relation name. Parents whose
// foreign key is unset or dangling are left without the relation.
func (b *Builder) attachRef(ctx context.Context, ident leash.Identity, docs, out []store.Document, fd *schema.Field, sub []string, depth int) error {
	ids := distinct(docs, fd.FK)
	if len(ids) == 0 {
		return nil
	}
	target, _ := b.schema.Entity(fd.Target)
	related, err := b.store.Find(ctx, target.Collection, store.InStrings("id", ids), store.Sort{}, store.Page{Limit: b.fetchLimit})
	if err != nil {
		return err
	}
	dtos, err := b.build(ctx, ident, fd.Target, related, sub, depth+1)
	if err != nil {
		return err
	}
	byID := make(map[string]store.Document, len(related))
	for i, rd := range related {
		byID[rd.ID()] = dtos[i]
	}
	for i, doc := range docs {
		if dto, ok := byID[doc.Str(fd.FK)]; ok {
			out[i][fd.Name] = dto
		}
	}
	return nil
}

// attachRefList loads every child of every parent in one query, groups by
// the foreign field, and attaches lists. Parents without children get an
// empty list.
func (b *Builder) attachRefList(ctx context.Context, ident leash.Identity, docs, out []store.Document, fd *schema.Field, sub []string, depth int) error {
	parentIDs := distinct(docs, "id")
	if len(parentIDs) == 0 {
		return nil
	}
	target, _ := b.schema.Entity(fd.Target)
	children, err := b.store.Find(ctx, target.Collection, store.InStrings(fd.ForeignField, parentIDs), store.Sort{}, store.Page{Limit: b.fetchLimit})
	if err != nil {
		return err
	}
	dtos, err := b.build(ctx, ident, fd.Target, children, sub, depth+1)
	if err != nil {
		return err
	}
	byParent := make(map[string][]store.Document)
	for i, child := range children {
		pid := child.Str(fd.ForeignField)
		byParent[pid] = append(byParent[pid], dtos[i])
	}
	for i, doc := range docs {
		group := byParent[doc.ID()]
		if group == nil {
			group = []store.Document{}
		}
		out[i][fd.Name] = group
	}
	return nil
}

// rowVisible reports whether this document's owner-only fields are visible
// to the caller.
func rowVisible(rule *access.Rule, ident leash.Identity, doc store.Document) bool {
	if rule.Trusted(ident.Roles) {
		return true
	}
	if rule.OwnerField == "" || ident.UserID == "" {
		return false
	}
	return doc.Str(rule.OwnerField) == ident.UserID
}

func restricted(rule *access.Rule, field string) bool {
	return rule != nil && rule.IsOwnerOnly(field)
}

func distinct(docs []store.Document, field string) []string {
	seen := make(map[string]struct{}, len(docs))
	var out []string
	for _, d := range docs {
		v := d.Str(field)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func relationOrder(fields []string, split *schema.Split) []string {
	var order []string
	seen := make(map[string]struct{}, len(split.Relations))
	for _, f := range fields {
		head, _, _ := strings.Cut(f, ".")
		if _, isRel := split.Relations[head]; !isRel {
			continue
		}
		if _, dup := seen[head]; dup {
			continue
		}
		seen[head] = struct{}{}
		order = append(order, head)
	}
	return order
}
