// Package middleware provides HTTP authorization middleware over the
// engine for Forge routers.
package middleware

import (
	"encoding/json"

	"github.com/xraph/forge"

	"github.com/pawhub/leash"
	"github.com/pawhub/leash/platform"
	"github.com/pawhub/leash/store"
)

// Guard builds authorization middleware. Identity resolution prefers an
// explicit Identity in the request context, then the Forge user id with
// the role read from the user's document, then anonymous.
type Guard struct {
	eng *leash.Engine
	st  store.Store
}

// NewGuard creates a middleware guard over an engine and the store its
// user documents live in.
func NewGuard(eng *leash.Engine, st store.Store) *Guard {
	return &Guard{eng: eng, st: st}
}

// Require enforces authorization: the request proceeds when the caller
// holds ANY of the given permissions.
func (g *Guard) Require(permissions ...string) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			ident := g.resolveIdentity(ctx)
			d := g.eng.Authorize(ctx.Context(), ident, permissions...)
			if err := g.eng.Enforce(d); err != nil {
				return denyResponse(ctx)
			}
			return next(ctx)
		}
	}
}

// RequireAll allows the request only when the caller holds every one of
// the given permissions.
func (g *Guard) RequireAll(permissions ...string) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			ident := g.resolveIdentity(ctx)
			for _, p := range permissions {
				d := g.eng.Authorize(ctx.Context(), ident, p)
				if err := g.eng.Enforce(d); err != nil {
					return denyResponse(ctx)
				}
			}
			return next(ctx)
		}
	}
}

// resolveIdentity extracts the caller identity from the request.
// Priority: explicit Identity in context → Forge user id → anonymous.
func (g *Guard) resolveIdentity(ctx forge.Context) leash.Identity {
	if ident, ok := leash.IdentityFromContext(ctx.Context()); ok {
		return ident
	}
	userID := forge.UserIDFromContext(ctx.Context())
	if userID == "" {
		return leash.Identity{}
	}
	ident := leash.Identity{UserID: userID}
	if g.st != nil {
		if doc, err := g.st.Get(ctx.Context(), platform.ColUsers, userID); err == nil {
			if role := doc.Str("role"); role != "" {
				ident.Roles = []string{role}
			}
		}
	}
	return ident
}

func denyResponse(ctx forge.Context) error {
	ctx.SetHeader("Content-Type", "application/json")
	ctx.Response().WriteHeader(403)
	return json.NewEncoder(ctx.Response()).Encode(map[string]string{"error": "access denied"})
}
