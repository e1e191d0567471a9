// Package extension provides a Forge extension entry point for the
// PawHub data access platform.
package extension

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/pawhub/leash"
	"github.com/pawhub/leash/platform"
	"github.com/pawhub/leash/store"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "leash"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Authorization-aware query, censoring, and projection pipeline"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts the platform as a Forge extension.
type Extension struct {
	config   Config
	plat     *platform.Platform
	store    store.Store
	logger   *slog.Logger
	platOpts []platform.Option
}

// New creates a Forge extension with the given options.
func New(opts ...ExtOption) *Extension {
	e := &Extension{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the extension name.
func (e *Extension) Name() string { return ExtensionName }

// Description returns the extension description.
func (e *Extension) Description() string { return ExtensionDescription }

// Version returns the extension version.
func (e *Extension) Version() string { return ExtensionVersion }

// Dependencies returns the list of extension names this extension depends on.
func (e *Extension) Dependencies() []string { return []string{} }

// Platform returns the composed pipeline.
func (e *Extension) Platform() *platform.Platform { return e.plat }

// Engine returns the underlying authorization engine.
func (e *Extension) Engine() *leash.Engine {
	if e.plat == nil {
		return nil
	}
	return e.plat.Engine()
}

// Register implements [forge.Extension]. It composes the platform over
// the configured store and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.init(fapp); err != nil {
		return err
	}

	if err := vessel.Provide(fapp.Container(), func() (*platform.Platform, error) {
		return e.plat, nil
	}); err != nil {
		return fmt.Errorf("leash: register platform in container: %w", err)
	}
	if err := vessel.Provide(fapp.Container(), func() (*leash.Engine, error) {
		return e.plat.Engine(), nil
	}); err != nil {
		return fmt.Errorf("leash: register engine in container: %w", err)
	}
	return nil
}

func (e *Extension) init(fapp forge.App) error {
	logger := e.logger
	if logger == nil {
		logger = slog.Default()
	}

	// Resolve the store: option-provided first, then the DI container.
	st := e.store
	if st == nil {
		resolved, err := forge.Inject[store.Store](fapp.Container())
		if err != nil {
			return fmt.Errorf("leash: no store configured and none in container: %w", err)
		}
		st = resolved
	}

	opts := make([]platform.Option, 0, len(e.platOpts)+1)
	opts = append(opts, platform.WithLogger(logger))
	opts = append(opts, e.platOpts...)

	plat, err := platform.New(st, opts...)
	if err != nil {
		return fmt.Errorf("leash: create platform: %w", err)
	}
	e.plat = plat
	e.store = st
	return nil
}

// Start runs store migrations unless disabled and starts the engine.
func (e *Extension) Start(ctx context.Context) error {
	if e.plat == nil {
		return errors.New("leash: extension not initialized")
	}
	if !e.config.DisableMigrate {
		if err := e.store.Migrate(ctx); err != nil {
			return fmt.Errorf("leash: migration failed: %w", err)
		}
	}
	return e.plat.Engine().Start(ctx)
}

// Stop gracefully shuts down the engine.
func (e *Extension) Stop(ctx context.Context) error {
	if e.plat == nil {
		return nil
	}
	return e.plat.Engine().Stop(ctx)
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.plat == nil {
		return errors.New("leash: extension not initialized")
	}
	if e.store == nil {
		return errors.New("leash: no store configured")
	}
	return e.store.Ping(ctx)
}
