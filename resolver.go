package leash

import (
	"context"
	"fmt"

	"github.com/pawhub/leash/store"
)

// ScopeFunc resolves one caller's scope over one entity type to a storage
// filter: the set of documents the caller owns, or the set belonging to
// resources the caller is affiliated with. Returning a nil filter means the
// caller has no such scope (e.g. staff of no shelter); that outcome is
// cached too.
type ScopeFunc func(ctx context.Context, ident Identity) (*store.Filter, error)

// RegisterOwnedScope registers the ownership scope resolver for an entity
// type. Entity types without one never allow through the owned path.
func (e *Engine) RegisterOwnedScope(entityType string, fn ScopeFunc) {
	e.ownedScopes[entityType] = fn
}

// RegisterAffiliatedScope registers the affiliation scope resolver for an
// entity type.
func (e *Engine) RegisterAffiliatedScope(entityType string, fn ScopeFunc) {
	e.affiliatedScopes[entityType] = fn
}

// resolveScope returns the cached or freshly resolved scope filter for a
// caller over an entity type. The bool reports whether a resolver exists
// at all; a (nil, true) result is a resolved empty scope.
func (e *Engine) resolveScope(ctx context.Context, kind string, ident Identity, entityType string) (*store.Filter, bool, error) {
	var fn ScopeFunc
	switch kind {
	case "owned":
		fn = e.ownedScopes[entityType]
	case "affiliated":
		fn = e.affiliatedScopes[entityType]
	}
	if fn == nil {
		return nil, false, nil
	}

	key := scopeKey(kind, entityType, ident.UserID)
	if v, ok := e.scopes.Get(key); ok {
		f, _ := v.(*store.Filter)
		return f, true, nil
	}

	f, err := fn(ctx, ident)
	if err != nil {
		return nil, true, fmt.Errorf("leash: resolve %s scope for %q: %w", kind, entityType, err)
	}
	e.scopes.Set(key, f)
	return f, true, nil
}

// InvalidateUser drops the cached scopes and decisions of one user. Call
// after the user's shelter affiliation or roles change.
func (e *Engine) InvalidateUser(ctx context.Context, userID string) {
	e.scopes.InvalidatePrefix("scope|owned|" + userID + "|")
	e.scopes.InvalidatePrefix("scope|affiliated|" + userID + "|")
	if e.decisions != nil {
		e.decisions.InvalidateUser(ctx, userID)
	}
}

func scopeKey(kind, entityType, userID string) string {
	return "scope|" + kind + "|" + userID + "|" + entityType
}

func decisionKeyPrefix(userID string) string {
	return "d|" + userID + "|"
}

func decisionKey(userID, path, permission, lookupKey string) string {
	return decisionKeyPrefix(userID) + path + "|" + permission + "|" + lookupKey
}
