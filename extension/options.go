package extension

import (
	"log/slog"

	"github.com/pawhub/leash/platform"
	"github.com/pawhub/leash/plugin"
	"github.com/pawhub/leash/store"
)

// ExtOption configures the Forge extension.
type ExtOption func(*Extension)

// WithStore sets the persistence backend.
func WithStore(s store.Store) ExtOption {
	return func(e *Extension) {
		e.store = s
	}
}

// WithConfig sets the extension configuration.
func WithConfig(cfg Config) ExtOption {
	return func(e *Extension) {
		e.config = cfg
	}
}

// WithPlatformOptions adds platform-level options.
func WithPlatformOptions(opts ...platform.Option) ExtOption {
	return func(e *Extension) {
		e.platOpts = append(e.platOpts, opts...)
	}
}

// WithPlugin registers a lifecycle hook plugin.
func WithPlugin(x plugin.Plugin) ExtOption {
	return func(e *Extension) {
		e.platOpts = append(e.platOpts, platform.WithPlugin(x))
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ExtOption {
	return func(e *Extension) {
		e.logger = l
	}
}

// WithDisableMigrate disables auto-migration on start.
func WithDisableMigrate() ExtOption {
	return func(e *Extension) {
		e.config.DisableMigrate = true
	}
}
