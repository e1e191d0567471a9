package platform

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pawhub/leash"
	"github.com/pawhub/leash/access"
	"github.com/pawhub/leash/audit"
	"github.com/pawhub/leash/builder"
	"github.com/pawhub/leash/censor"
	"github.com/pawhub/leash/lookup"
	"github.com/pawhub/leash/plugin"
	"github.com/pawhub/leash/policy"
	"github.com/pawhub/leash/query"
	"github.com/pawhub/leash/store"
)

// Platform is the composed pipeline: engine, censor, and builder wired
// over one store with the PawHub schema, rules, policies, and scopes.
type Platform struct {
	engine  *leash.Engine
	censor  *censor.Censor
	builder *builder.Builder
	rules   *access.Rules
	store   store.Store
	config  leash.Config
}

// Option is a functional option for the platform.
type Option func(*settings)

type settings struct {
	config   leash.Config
	logger   *slog.Logger
	policies *policy.Set
	rules    *access.Rules
	audit    audit.Recorder
	plugins  []plugin.Plugin
}

// WithConfig sets the engine configuration.
func WithConfig(c leash.Config) Option { return func(s *settings) { s.config = c } }

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(s *settings) { s.logger = l } }

// WithPolicies replaces the default permission table.
func WithPolicies(p *policy.Set) Option { return func(s *settings) { s.policies = p } }

// WithRules replaces the default visibility rules.
func WithRules(r *access.Rules) Option { return func(s *settings) { s.rules = r } }

// WithAudit sets the decision audit recorder.
func WithAudit(r audit.Recorder) Option { return func(s *settings) { s.audit = r } }

// WithPlugin registers an engine plugin.
func WithPlugin(p plugin.Plugin) Option { return func(s *settings) { s.plugins = append(s.plugins, p) } }

// New composes the full pipeline over a store.
func New(st store.Store, opts ...Option) (*Platform, error) {
	s := &settings{
		config:   leash.DefaultConfig(),
		logger:   slog.Default(),
		policies: DefaultPolicies(),
		rules:    DefaultRules(),
	}
	for _, opt := range opts {
		opt(s)
	}

	engOpts := []leash.Option{
		leash.WithStore(st),
		leash.WithSchema(NewSchema()),
		leash.WithPolicies(s.policies),
		leash.WithConfig(s.config),
		leash.WithLogger(s.logger),
	}
	if s.audit != nil {
		engOpts = append(engOpts, leash.WithAudit(s.audit))
	}
	for _, p := range s.plugins {
		engOpts = append(engOpts, leash.WithPlugin(p))
	}
	eng, err := leash.NewEngine(engOpts...)
	if err != nil {
		return nil, err
	}
	registerScopes(eng, st)

	return &Platform{
		engine:  eng,
		censor:  censor.New(eng, s.rules),
		builder: builder.New(st, eng.Schema(), s.rules, s.config.RelationFetchLimit, s.config.MaxProjectionDepth),
		rules:   s.rules,
		store:   st,
		config:  s.config,
	}, nil
}

// Engine returns the authorization engine.
func (p *Platform) Engine() *leash.Engine { return p.engine }

// Censor returns the field censor.
func (p *Platform) Censor() *censor.Censor { return p.censor }

// Builder returns the projection builder.
func (p *Platform) Builder() *builder.Builder { return p.builder }

// Store returns the underlying document store.
func (p *Platform) Store() store.Store { return p.store }

// Fetch runs the whole pipeline for one lookup: compile and validate,
// censor the requested fields against the caller's grants, collect the
// matching page, and project it along the visible fields. An empty
// censored set is ErrForbidden; existence is never disclosed.
func (p *Platform) Fetch(ctx context.Context, ident leash.Identity, l lookup.Lookup) (*query.Result, error) {
	q, err := p.engine.Queries().New(l)
	if err != nil {
		return nil, err
	}

	fields := q.Fields()
	if len(fields) == 0 {
		// No projection requested: default to the entity's full leaf
		// set and let censoring trim it.
		entity, _ := p.engine.Schema().Entity(l.EntityType())
		fields = entity.LeafNames()
	}

	actx := p.engine.BuildContext(ctx, ident, l)
	visible, err := p.censor.Apply(ctx, ident, l.EntityType(), fields, actx)
	if err != nil {
		return nil, err
	}
	if len(visible) == 0 {
		return nil, fmt.Errorf("%w: no visible fields on %s", leash.ErrForbidden, l.EntityType())
	}

	docs, err := q.Collect(ctx)
	if err != nil {
		return nil, err
	}
	count, err := q.Count(ctx)
	if err != nil {
		return nil, err
	}
	items, err := p.builder.Build(ctx, ident, l.EntityType(), docs, visible)
	if err != nil {
		return nil, err
	}
	return &query.Result{Items: items, Count: count}, nil
}

// FetchOne fetches a single document. A request the caller may make that
// matches nothing is ErrNotFound; a request the caller may not make stays
// ErrForbidden.
func (p *Platform) FetchOne(ctx context.Context, ident leash.Identity, l lookup.Lookup) (store.Document, error) {
	res, err := p.Fetch(ctx, ident, l)
	if err != nil {
		return nil, err
	}
	if len(res.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", leash.ErrNotFound, l.EntityType())
	}
	return res.Items[0], nil
}
