// Package censor trims a requested field set down to what a caller may
// actually see. Native fields survive only when a grant covers the entity
// and, for owner-only fields, only for the owner audience. Relation paths
// are re-checked against the target entity with a fresh authorization
// context, so a grant on the parent never leaks the child. The result of a
// censor pass is stable: censoring an already-censored set returns it
// unchanged.
package censor

import (
	"context"
	"strings"

	"github.com/pawhub/leash"
	"github.com/pawhub/leash/access"
	"github.com/pawhub/leash/lookup"
	"github.com/pawhub/leash/schema"
)

// Censor filters field sets per caller.
type Censor struct {
	engine  *leash.Engine
	schema  *schema.Registry
	rules   *access.Rules
	lookups *lookup.Registry
}

// New creates a censor bound to an engine and rule set. The schema and
// lookup registries come from the engine.
func New(engine *leash.Engine, rules *access.Rules) *Censor {
	return &Censor{
		engine:  engine,
		schema:  engine.Schema(),
		rules:   rules,
		lookups: engine.Lookups(),
	}
}

// Apply returns the subset of the requested canonical field paths the
// caller may see. An empty result means nothing is visible; deciding that
// this forbids the whole request is the caller's job. An unknown entity
// type or unresolvable path is a validation error.
func (c *Censor) Apply(ctx context.Context, ident leash.Identity, entityType string, fields []string, actx *leash.AuthContext) ([]string, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	split, err := c.schema.Split(entityType, fields)
	if err != nil {
		return nil, err
	}
	rule, ok := c.rules.Rule(entityType)
	if !ok {
		return nil, nil
	}

	d, err := c.decide(ctx, ident, rule, actx)
	if err != nil {
		return nil, err
	}
	if !d.Allowed {
		// A denied parent hides its relations too; a grant on the
		// target alone opens nothing through this entity.
		if p := c.engine.Plugins(); p != nil {
			p.EmitFieldsCensored(ctx, entityType, fields, nil)
		}
		return nil, nil
	}

	var visible []string
	ownerAudience := d.Source == leash.SourceOwned || rule.Trusted(ident.Roles)
	for _, f := range split.Native {
		if rule.IsOwnerOnly(f) && !ownerAudience {
			continue
		}
		visible = append(visible, f)
	}

	for _, rel := range relationOrder(fields, split) {
		sub, err := c.applyRelation(ctx, ident, entityType, rel, split.Relations[rel])
		if err != nil {
			return nil, err
		}
		for _, s := range sub {
			visible = append(visible, rel+"."+s)
		}
	}

	if p := c.engine.Plugins(); p != nil {
		p.EmitFieldsCensored(ctx, entityType, fields, visible)
	}
	return visible, nil
}

// decide runs the grant combination the rule enables.
func (c *Censor) decide(ctx context.Context, ident leash.Identity, rule *access.Rule, actx *leash.AuthContext) (leash.Decision, error) {
	switch {
	case rule.AllowOwned && rule.AllowAffiliated:
		return c.engine.AuthorizeOrOwnedOrAffiliated(ctx, ident, rule.BrowsePermission, actx)
	case rule.AllowOwned:
		return c.engine.AuthorizeOrOwned(ctx, ident, rule.BrowsePermission, actx)
	case rule.AllowAffiliated:
		return c.engine.AuthorizeOrAffiliated(ctx, ident, rule.BrowsePermission, actx)
	default:
		return c.engine.Authorize(ctx, ident, rule.BrowsePermission), nil
	}
}

// applyRelation re-checks a relation's target entity with a fresh, empty
// lookup: the caller must be able to see documents of that type in
// general, not just through the parent.
func (c *Censor) applyRelation(ctx context.Context, ident leash.Identity, entityType, rel string, sub []string) ([]string, error) {
	entity, _ := c.schema.Entity(entityType)
	fd, ok := entity.Field(rel)
	if !ok {
		return nil, &schema.PathError{Entity: entityType, Segment: rel, Path: rel}
	}

	if len(sub) == 0 {
		target, _ := c.schema.Entity(fd.Target)
		sub = target.LeafNames()
	}

	tl, err := c.lookups.New(fd.Target)
	if err != nil {
		return nil, err
	}
	nested := c.engine.BuildContext(ctx, ident, tl)
	return c.Apply(ctx, ident, fd.Target, sub, nested)
}

// relationOrder returns relation names in first-seen request order, so the
// censored set is deterministic.
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
