package leash

import (
	"log/slog"

	"github.com/pawhub/leash/audit"
	"github.com/pawhub/leash/lookup"
	"github.com/pawhub/leash/plugin"
	"github.com/pawhub/leash/policy"
	"github.com/pawhub/leash/schema"
	"github.com/pawhub/leash/store"
)

// Option is a functional option for the Engine.
type Option func(*Engine)

// WithStore sets the document store.
func WithStore(s store.Store) Option { return func(e *Engine) { e.store = s } }

// WithSchema sets the entity schema registry.
func WithSchema(r *schema.Registry) Option { return func(e *Engine) { e.schema = r } }

// WithPolicies sets the permission table.
func WithPolicies(p *policy.Set) Option { return func(e *Engine) { e.policies = p } }

// WithLookups sets the lookup constructor registry.
func WithLookups(r *lookup.Registry) Option { return func(e *Engine) { e.lookups = r } }

// WithDecisionCache sets the decision cache.
func WithDecisionCache(c DecisionCache) Option { return func(e *Engine) { e.decisions = c } }

// WithAudit sets the audit recorder.
func WithAudit(r audit.Recorder) Option { return func(e *Engine) { e.audit = r } }

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithConfig sets the engine configuration.
func WithConfig(c Config) Option { return func(e *Engine) { e.config = c } }

// WithPlugin registers a plugin with the engine.
func WithPlugin(x plugin.Plugin) Option {
	return func(e *Engine) {
		if e.plugins == nil {
			e.plugins = plugin.NewRegistry(e.logger)
		}
		e.plugins.Register(x)
	}
}
