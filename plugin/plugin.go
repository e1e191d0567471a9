// Package plugin defines the plugin system for the pipeline.
// Plugins are notified of lifecycle events (authorization decided, fields
// censored, shutdown) and can react, for logging, metrics, or tracing.
//
// Each lifecycle hook is a separate interface so plugins opt in only
// to the events they care about.
package plugin

import "context"

// Plugin is the base interface all plugins must implement.
type Plugin interface {
	// Name returns a unique human-readable name for the plugin.
	Name() string
}

// BeforeAuthorize is called before an authorization decision is evaluated.
// The req parameter is *leash.Request (passed as any to avoid import cycle).
type BeforeAuthorize interface {
	OnBeforeAuthorize(ctx context.Context, req any) error
}

// AfterAuthorize is called after an authorization decision completes.
// The req parameter is *leash.Request; decision is *leash.Decision.
type AfterAuthorize interface {
	OnAfterAuthorize(ctx context.Context, req, decision any) error
}

// FieldsCensored is called after a requested field set has been filtered
// down to the caller's visible subset.
type FieldsCensored interface {
	OnFieldsCensored(ctx context.Context, entityType string, requested, visible []string) error
}

// Shutdown is called when the engine shuts down.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
