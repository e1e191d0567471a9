package leash

import "context"

type contextKey int

const ctxKeyIdentity contextKey = iota

// WithIdentity returns a context carrying the caller's identity.
// Use this for standalone mode (without Forge).
func WithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, ident)
}

// IdentityFromContext returns the identity attached with WithIdentity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(ctxKeyIdentity).(Identity)
	return ident, ok
}
