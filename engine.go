package leash

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pawhub/leash/audit"
	"github.com/pawhub/leash/cache"
	"github.com/pawhub/leash/lookup"
	"github.com/pawhub/leash/plugin"
	"github.com/pawhub/leash/policy"
	"github.com/pawhub/leash/query"
	"github.com/pawhub/leash/schema"
	"github.com/pawhub/leash/store"
)

// Engine is the central authorization engine. It combines the permission
// table with ownership and affiliation scopes, caches decisions, and fires
// plugin hooks.
type Engine struct {
	store     store.Store
	schema    *schema.Registry
	queries   *query.Factory
	policies  *policy.Set
	lookups   *lookup.Registry
	scopes    *cache.Memory
	decisions DecisionCache
	plugins   *plugin.Registry
	audit     audit.Recorder
	logger    *slog.Logger
	config    Config
	group     singleflight.Group

	ownedScopes      map[string]ScopeFunc
	affiliatedScopes map[string]ScopeFunc
}

// NewEngine creates a new Leash engine with the given options.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger:           slog.Default(),
		config:           DefaultConfig(),
		ownedScopes:      make(map[string]ScopeFunc),
		affiliatedScopes: make(map[string]ScopeFunc),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		return nil, errors.New("leash: store is required")
	}
	if e.schema == nil {
		return nil, errors.New("leash: schema registry is required")
	}
	if err := e.schema.Check(); err != nil {
		return nil, err
	}
	if e.policies == nil {
		return nil, errors.New("leash: policy set is required")
	}
	if e.lookups == nil {
		e.lookups = lookup.DefaultRegistry()
	}

	e.config = e.config.withDefaults()
	e.queries = query.NewFactory(e.store, e.schema, e.config.Limits())
	e.scopes = cache.NewMemory(cache.WithTTL(e.config.ScopeCacheTTL))
	if e.decisions == nil && e.config.DecisionCacheTTL > 0 {
		e.decisions = NewMemoryDecisionCache(cache.WithTTL(e.config.DecisionCacheTTL))
	}
	return e, nil
}

// Store returns the underlying document store.
func (e *Engine) Store() store.Store { return e.store }

// Schema returns the entity schema registry.
func (e *Engine) Schema() *schema.Registry { return e.schema }

// Queries returns the query factory bound to the engine's store.
func (e *Engine) Queries() *query.Factory { return e.queries }

// Policies returns the permission table.
func (e *Engine) Policies() *policy.Set { return e.policies }

// Lookups returns the lookup constructor registry.
func (e *Engine) Lookups() *lookup.Registry { return e.lookups }

// Plugins returns the plugin registry (may be nil).
func (e *Engine) Plugins() *plugin.Registry { return e.plugins }

// Start performs any startup initialization.
func (e *Engine) Start(_ context.Context) error { return nil }

// Stop performs graceful shutdown.
func (e *Engine) Stop(ctx context.Context) error {
	if e.plugins != nil {
		e.plugins.EmitShutdown(ctx)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Authorization combinators
// ──────────────────────────────────────────────────

// Authorize checks the pure permission path: does any of the caller's
// roles hold any of the permissions outright.
func (e *Engine) Authorize(ctx context.Context, ident Identity, perms ...string) Decision {
	req := &Request{Identity: ident, Permission: strings.Join(perms, ",")}
	start := e.begin(ctx, req)
	return e.finish(ctx, req, e.authorizePermission(ident, perms), start)
}

// AuthorizeOwned checks the ownership path alone: the requested set must
// fall entirely inside the caller's owned scope.
func (e *Engine) AuthorizeOwned(ctx context.Context, ident Identity, actx *AuthContext) (Decision, error) {
	req := &Request{Identity: ident, EntityType: entityTypeOf(actx), LookupKey: actx.LookupKey()}
	start := e.begin(ctx, req)
	d, err := e.authorizeOwned(ctx, ident, actx)
	if err != nil {
		return Decision{}, err
	}
	return e.finish(ctx, req, d, start), nil
}

// AuthorizeAffiliated checks the affiliation path alone: the caller's roles
// must hold one of the permissions toward affiliated resources, and the
// requested set must fall entirely inside the caller's affiliated scope.
func (e *Engine) AuthorizeAffiliated(ctx context.Context, ident Identity, permission string, actx *AuthContext) (Decision, error) {
	req := &Request{Identity: ident, Permission: permission, EntityType: entityTypeOf(actx), LookupKey: actx.LookupKey()}
	start := e.begin(ctx, req)
	d, err := e.authorizeAffiliated(ctx, ident, permission, actx)
	if err != nil {
		return Decision{}, err
	}
	return e.finish(ctx, req, d, start), nil
}

// AuthorizeOrOwned allows through the permission path first, falling back
// to the ownership path.
func (e *Engine) AuthorizeOrOwned(ctx context.Context, ident Identity, permission string, actx *AuthContext) (Decision, error) {
	req := &Request{Identity: ident, Permission: permission, EntityType: entityTypeOf(actx), LookupKey: actx.LookupKey()}
	start := e.begin(ctx, req)
	d := e.authorizePermission(ident, []string{permission})
	if !d.Allowed {
		var err error
		d, err = e.authorizeOwned(ctx, ident, actx)
		if err != nil {
			return Decision{}, err
		}
	}
	return e.finish(ctx, req, d, start), nil
}

// AuthorizeOrAffiliated allows through the permission path first, falling
// back to the affiliation path.
func (e *Engine) AuthorizeOrAffiliated(ctx context.Context, ident Identity, permission string, actx *AuthContext) (Decision, error) {
	req := &Request{Identity: ident, Permission: permission, EntityType: entityTypeOf(actx), LookupKey: actx.LookupKey()}
	start := e.begin(ctx, req)
	d := e.authorizePermission(ident, []string{permission})
	if !d.Allowed {
		var err error
		d, err = e.authorizeAffiliated(ctx, ident, permission, actx)
		if err != nil {
			return Decision{}, err
		}
	}
	return e.finish(ctx, req, d, start), nil
}

// AuthorizeOrOwnedOrAffiliated tries permission, then ownership, then
// affiliation, in that order.
func (e *Engine) AuthorizeOrOwnedOrAffiliated(ctx context.Context, ident Identity, permission string, actx *AuthContext) (Decision, error) {
	req := &Request{Identity: ident, Permission: permission, EntityType: entityTypeOf(actx), LookupKey: actx.LookupKey()}
	start := e.begin(ctx, req)
	d := e.authorizePermission(ident, []string{permission})
	if !d.Allowed {
		var err error
		d, err = e.authorizeOwned(ctx, ident, actx)
		if err != nil {
			return Decision{}, err
		}
	}
	if !d.Allowed {
		var err error
		d, err = e.authorizeAffiliated(ctx, ident, permission, actx)
		if err != nil {
			return Decision{}, err
		}
	}
	return e.finish(ctx, req, d, start), nil
}

// Enforce returns ErrForbidden when a decision denies.
func (e *Engine) Enforce(d Decision) error {
	if !d.Allowed {
		return fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Evaluation paths
// ──────────────────────────────────────────────────

func (e *Engine) authorizePermission(ident Identity, perms []string) Decision {
	for _, p := range perms {
		if e.policies.Allows(p, ident.Roles) {
			return allow(SourcePermission, "role grant covers "+p)
		}
	}
	return deny("no role grants " + strings.Join(perms, ","))
}

func (e *Engine) authorizeOwned(ctx context.Context, ident Identity, actx *AuthContext) (Decision, error) {
	if ident.UserID == "" {
		return deny("anonymous caller owns nothing"), nil
	}
	if actx == nil || actx.Owned == nil || actx.Owned.Params.Requested == nil {
		return deny("no ownership view of the request"), nil
	}
	if actx.Owned.PinnedTo(ident.UserID) {
		return allow(SourceOwned, "owner candidates include the caller"), nil
	}
	l := actx.Owned.Params.Requested
	key := decisionKey(ident.UserID, "owned", "", l.Key())
	return e.decideScoped(ctx, key, func() (Decision, error) {
		return e.scopedDecision(ctx, "owned", ident, actx.EntityType, l, SourceOwned)
	})
}

func (e *Engine) authorizeAffiliated(ctx context.Context, ident Identity, permission string, actx *AuthContext) (Decision, error) {
	if ident.UserID == "" {
		return deny("anonymous caller has no affiliations"), nil
	}
	if actx == nil || actx.Affiliated == nil || actx.Affiliated.Params.Requested == nil {
		return deny("no affiliation view of the request"), nil
	}
	if !e.policies.AllowsAffiliated(permission, actx.Affiliated.Roles) {
		return deny("no affiliated role grants " + permission), nil
	}
	l := actx.Affiliated.Params.Requested
	key := decisionKey(ident.UserID, "affiliated", permission, l.Key())
	return e.decideScoped(ctx, key, func() (Decision, error) {
		return e.scopedDecision(ctx, "affiliated", ident, actx.EntityType, l, SourceAffiliated)
	})
}

// decideScoped consults the decision cache, collapsing concurrent
// evaluations of the same key into one via singleflight.
func (e *Engine) decideScoped(ctx context.Context, key string, eval func() (Decision, error)) (Decision, error) {
	if e.decisions != nil {
		if d, ok := e.decisions.Get(ctx, key); ok {
			return d, nil
		}
	}
	v, err, _ := e.group.Do(key, func() (any, error) {
		d, err := eval()
		if err != nil {
			return Decision{}, err
		}
		if e.decisions != nil {
			e.decisions.Set(ctx, key, d)
		}
		return d, nil
	})
	if err != nil {
		return Decision{}, err
	}
	return v.(Decision), nil
}

// scopedDecision intersects the lookup with the caller's resolved scope and
// allows when the intersection is non-empty. Documents outside the scope
// never surface anyway; the censor and builder trim them per row.
func (e *Engine) scopedDecision(ctx context.Context, kind string, ident Identity, entityType string, l lookup.Lookup, source Source) (Decision, error) {
	scope, ok, err := e.resolveScope(ctx, kind, ident, entityType)
	if err != nil {
		return Decision{}, err
	}
	if !ok || scope == nil {
		return deny("caller has no " + kind + " scope over " + entityType), nil
	}
	q, err := e.queries.New(l)
	if err != nil {
		return Decision{}, err
	}
	scoped, err := q.CountScoped(ctx, scope)
	if err != nil {
		return Decision{}, err
	}
	if scoped == 0 {
		return deny("no matching documents inside the caller's " + kind + " scope"), nil
	}
	return allow(source, "matching documents found inside the caller's "+kind+" scope"), nil
}

// ──────────────────────────────────────────────────
// Lifecycle bookkeeping
// ──────────────────────────────────────────────────

func (e *Engine) begin(ctx context.Context, req *Request) time.Time {
	if e.plugins != nil {
		e.plugins.EmitBeforeAuthorize(ctx, req)
	}
	return time.Now()
}

func (e *Engine) finish(ctx context.Context, req *Request, d Decision, start time.Time) Decision {
	d.EvalTimeNs = time.Since(start).Nanoseconds()
	e.logger.Debug("authorization decided",
		slog.String("user_id", req.Identity.UserID),
		slog.String("permission", req.Permission),
		slog.String("entity_type", req.EntityType),
		slog.Bool("allowed", d.Allowed),
		slog.String("source", string(d.Source)),
	)
	if e.plugins != nil {
		e.plugins.EmitAfterAuthorize(ctx, req, &d)
	}
	if e.audit != nil {
		entry := &audit.Entry{
			UserID:     req.Identity.UserID,
			Permission: req.Permission,
			EntityType: req.EntityType,
			LookupKey:  req.LookupKey,
			Allowed:    d.Allowed,
			Source:     string(d.Source),
			Reason:     d.Reason,
			EvalTimeNs: d.EvalTimeNs,
		}
		if err := e.audit.Record(ctx, entry); err != nil {
			e.logger.Warn("audit record failed",
				slog.String("user_id", req.Identity.UserID),
				slog.String("permission", req.Permission),
				slog.String("error", err.Error()),
			)
		}
	}
	return d
}

func entityTypeOf(actx *AuthContext) string {
	if actx == nil {
		return ""
	}
	return actx.EntityType
}
