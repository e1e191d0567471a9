package leash

import (
	"context"

	"github.com/pawhub/leash/lookup"
)

// FilterParams wraps the lookup a decision is being made about. The lookup
// fully describes the requested document set, so authorization can reason
// about the set instead of loading it.
type FilterParams struct {
	Requested lookup.Lookup
}

// OwnedResource is the ownership view of a request: the explicit owner ids
// the lookup is pinned to, if any, plus the requested set itself.
type OwnedResource struct {
	OwnerIDs []string
	Params   FilterParams
}

// PinnedTo reports whether the lookup's explicit owner candidates include
// the given user. False when the lookup names no owners at all.
func (o *OwnedResource) PinnedTo(userID string) bool {
	if o == nil || userID == "" {
		return false
	}
	for _, id := range o.OwnerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// AffiliatedResource is the affiliation view of a request: the caller's
// roles, which decide whether affiliation grants apply, plus the requested
// set.
type AffiliatedResource struct {
	Roles  []string
	Params FilterParams
}

// AuthContext carries both authorization views of one request. Build it
// once per request with Engine.BuildContext and hand it to the Authorize
// combinators, the censor, and the builder.
type AuthContext struct {
	UserID     string
	EntityType string
	Owned      *OwnedResource
	Affiliated *AffiliatedResource
}

// LookupKey returns the canonical key of the requested lookup, or "".
func (a *AuthContext) LookupKey() string {
	if a == nil {
		return ""
	}
	if a.Owned != nil && a.Owned.Params.Requested != nil {
		return a.Owned.Params.Requested.Key()
	}
	if a.Affiliated != nil && a.Affiliated.Params.Requested != nil {
		return a.Affiliated.Params.Requested.Key()
	}
	return ""
}

// BuildContext derives both authorization views from a lookup. The views
// share the lookup; they differ only in what evidence they consider.
func (e *Engine) BuildContext(_ context.Context, ident Identity, l lookup.Lookup) *AuthContext {
	params := FilterParams{Requested: l}
	return &AuthContext{
		UserID:     ident.UserID,
		EntityType: l.EntityType(),
		Owned:      &OwnedResource{OwnerIDs: l.OwnerCandidates(), Params: params},
		Affiliated: &AffiliatedResource{Roles: ident.Roles, Params: params},
	}
}
