package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/pawhub/leash"
	"github.com/pawhub/leash/lookup"
	"github.com/pawhub/leash/store"
)

// registerScopes installs the per-entity ownership and affiliation scope
// resolvers. Ownership scopes compare owner fields against the caller;
// affiliation scopes pin documents to the caller's shelter, loaded from
// the caller's user record.
func registerScopes(eng *leash.Engine, st store.Store) {
	eng.RegisterOwnedScope(lookup.TypeUser, func(_ context.Context, ident leash.Identity) (*store.Filter, error) {
		return store.Eq("id", ident.UserID), nil
	})
	eng.RegisterOwnedScope(lookup.TypeApplication, func(_ context.Context, ident leash.Identity) (*store.Filter, error) {
		return store.Eq("userId", ident.UserID), nil
	})
	eng.RegisterOwnedScope(lookup.TypeMessage, func(_ context.Context, ident leash.Identity) (*store.Filter, error) {
		return store.Or(
			store.Eq("senderId", ident.UserID),
			store.Eq("recipientId", ident.UserID),
		), nil
	})
	eng.RegisterOwnedScope(lookup.TypeNotification, func(_ context.Context, ident leash.Identity) (*store.Filter, error) {
		return store.Eq("userId", ident.UserID), nil
	})

	shelterScoped := func(field string) leash.ScopeFunc {
		return func(ctx context.Context, ident leash.Identity) (*store.Filter, error) {
			shelterID, err := shelterOf(ctx, st, ident.UserID)
			if err != nil {
				return nil, err
			}
			if shelterID == "" {
				return nil, nil
			}
			return store.Eq(field, shelterID), nil
		}
	}
	eng.RegisterAffiliatedScope(lookup.TypeUser, shelterScoped("shelterId"))
	eng.RegisterAffiliatedScope(lookup.TypeShelter, shelterScoped("id"))
	eng.RegisterAffiliatedScope(lookup.TypeAnimal, shelterScoped("shelterId"))
	eng.RegisterAffiliatedScope(lookup.TypeApplication, shelterScoped("shelterId"))
}

// shelterOf returns the shelter the user works for, or "" when the user
// record is absent or carries no shelter.
func shelterOf(ctx context.Context, st store.Store, userID string) (string, error) {
	if userID == "" {
		return "", nil
	}
	doc, err := st.Get(ctx, ColUsers, userID)
	if errors.Is(err, store.ErrNoDocument) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("platform: load user %q: %w", userID, err)
	}
	return doc.Str("shelterId"), nil
}
