package leash

import (
	"context"

	"github.com/xraph/forge"
)

// CallerIdentity resolves the caller from a context. An explicitly attached
// Identity wins; otherwise the Forge request scope supplies the user id,
// with no roles, so only owned-scope grants apply. The false return is the
// anonymous caller.
func CallerIdentity(ctx context.Context) (Identity, bool) {
	if ident, ok := IdentityFromContext(ctx); ok {
		return ident, true
	}
	if userID := forge.UserIDFromContext(ctx); userID != "" {
		return Identity{UserID: userID}, true
	}
	return Identity{}, false
}
