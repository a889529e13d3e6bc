// Package guard implements entity-level permission enforcement. A Guard
// consumes lifecycle events fired by the interception layer and decides
// allow/deny using the scope stack, the permission catalog and the external
// permission oracle.
package guard

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/looplj/modelguard/internal/authz"
	"github.com/looplj/modelguard/internal/log"
	"github.com/looplj/modelguard/internal/storage"
)

// Config controls enforcement behavior.
type Config struct {
	// PerObjectControl selects object-level checks (pass the instance to the
	// oracle) over model-level checks (class-wide, no instance).
	PerObjectControl bool `conf:"per_object_control" yaml:"per_object_control" json:"per_object_control"`

	// EnforceBlocking raises AccessDeniedError on failed checks. When false,
	// violations are logged but the operation proceeds (audit-only mode).
	EnforceBlocking bool `conf:"enforce_blocking" yaml:"enforce_blocking" json:"enforce_blocking"`

	// DenialTemplate is the HTML template rendered by the denial middleware.
	// Empty means denials fall through to the host's default error handling.
	DenialTemplate string `conf:"denial_template" yaml:"denial_template" json:"denial_template"`

	// ProtectedEntities are entity types registered for enforcement at
	// startup. Types not listed here are never checked.
	ProtectedEntities []string `conf:"protected_entities" yaml:"protected_entities" json:"protected_entities"`
}

// DefaultConfig returns the default enforcement configuration: object-level
// checks, blocking enforcement, no custom denial page.
func DefaultConfig() Config {
	return Config{PerObjectControl: true, EnforceBlocking: true}
}

// Guard is the enforcement engine. It holds the entity registry and the
// external catalog and oracle; it never mutates data itself.
type Guard struct {
	Config   Config
	Catalog  Catalog
	Oracle   Oracle
	Registry *Registry
}

func New(config Config, catalog Catalog, oracle Oracle) *Guard {
	return &Guard{
		Config:   config,
		Catalog:  catalog,
		Oracle:   oracle,
		Registry: NewRegistry(),
	}
}

// Handle dispatches a lifecycle event to its enforcement handler. The handler
// body runs inside a freshly entered bypass scope so that oracle or storage
// calls made during a check do not recurse into enforcement; a caller's own
// bypass is therefore detected with InAncestorScope.
func (g *Guard) Handle(ctx context.Context, ev Event) error {
	return authz.RunScoped(ctx, authz.ScopeBypass, func(ctx context.Context) error {
		switch ev.Kind {
		case EventPreSave:
			return g.preSave(ctx, ev)
		case EventPreDelete:
			return g.preDelete(ctx, ev)
		case EventPostRead:
			return g.postRead(ctx, ev)
		case EventPreUpdate:
			return g.preUpdate(ctx, ev)
		default:
			return fmt.Errorf("guard: unknown event kind %q", ev.Kind)
		}
	})
}

// preSave handles single-object create-or-update and class-level bulk
// creation (no instance). An instance with an assigned key that exists in
// storage is an update; anything else is a create, checked class-level only
// because the object does not yet exist in storage.
func (g *Guard) preSave(ctx context.Context, ev Event) error {
	if authz.InAncestorScope(ctx, authz.ScopeBypass) {
		return nil
	}

	if !g.Registry.Required(ev.EntityType) {
		return nil
	}

	actor := authz.CurrentActor(ctx)

	perms, err := ResolvePermissions(ctx, g.Catalog, ev.EntityType)
	if err != nil {
		return err
	}

	if ev.Instance != nil {
		if _, assigned := ev.Instance.EntityID(); assigned && ev.Exists {
			var obj storage.Entity
			if g.Config.PerObjectControl {
				obj = ev.Instance
			}

			allowed, err := g.allowed(ctx, actor, perms.Update, obj)
			if err != nil {
				return err
			}

			if !allowed {
				return g.deny(ctx, actor, "update", entityRef(ev.Instance))
			}

			return nil
		}
	}

	allowed, err := g.allowed(ctx, actor, perms.Create, nil)
	if err != nil {
		return err
	}

	if !allowed {
		return g.deny(ctx, actor, "create", fmt.Sprintf("%s object", ev.EntityType))
	}

	return nil
}

func (g *Guard) preDelete(ctx context.Context, ev Event) error {
	if authz.InAncestorScope(ctx, authz.ScopeBypass) {
		return nil
	}

	if !g.Registry.Required(ev.EntityType) {
		return nil
	}

	actor := authz.CurrentActor(ctx)

	perms, err := ResolvePermissions(ctx, g.Catalog, ev.EntityType)
	if err != nil {
		return err
	}

	var obj storage.Entity
	if g.Config.PerObjectControl {
		obj = ev.Instance
	}

	allowed, err := g.allowed(ctx, actor, perms.Delete, obj)
	if err != nil {
		return err
	}

	if !allowed {
		return g.deny(ctx, actor, "delete", entityRef(ev.Instance))
	}

	return nil
}

// postRead handles the materialized result collection of a read. The results
// already exist by the time the event fires; the whole collection is either
// allowed or denied, never filtered down to the permitted subset.
func (g *Guard) postRead(ctx context.Context, ev Event) error {
	if authz.InAncestorScope(ctx, authz.ScopeBypass) {
		return nil
	}

	if !g.Registry.Required(ev.EntityType) {
		return nil
	}

	actor := authz.CurrentActor(ctx)

	perms, err := ResolvePermissions(ctx, g.Catalog, ev.EntityType)
	if err != nil {
		return err
	}

	if !g.Config.PerObjectControl {
		allowed, err := g.allowed(ctx, actor, perms.Read, nil)
		if err != nil {
			return err
		}

		if !allowed {
			return g.deny(ctx, actor, "read", collectionRef(ev.EntityType, ev.Collection))
		}

		return nil
	}

	denied := 0

	for _, obj := range ev.Collection {
		allowed, err := g.allowed(ctx, actor, perms.Read, obj)
		if err != nil {
			return err
		}

		if !allowed {
			denied++
		}
	}

	if denied == 0 {
		return nil
	}

	if denied < len(ev.Collection) {
		log.Warn(ctx, "guard: actor lacks permission for part of the result set",
			log.String("actor", actor.String()),
			log.Int("denied", denied),
			log.Int("total", len(ev.Collection)),
			log.Strings("objects", lo.Map(ev.Collection, func(e storage.Entity, _ int) string {
				return entityRef(e)
			})),
		)
	}

	return g.deny(ctx, actor, "read", collectionRef(ev.EntityType, ev.Collection))
}

// preUpdate handles queryset-wide updates. In object-level mode the queryset
// is enumerated, which forces materialization of the pre-update state, and
// every current member must pass.
func (g *Guard) preUpdate(ctx context.Context, ev Event) error {
	if authz.InAncestorScope(ctx, authz.ScopeBypass) {
		return nil
	}

	if !g.Registry.Required(ev.EntityType) {
		return nil
	}

	actor := authz.CurrentActor(ctx)

	perms, err := ResolvePermissions(ctx, g.Catalog, ev.EntityType)
	if err != nil {
		return err
	}

	if !g.Config.PerObjectControl {
		allowed, err := g.allowed(ctx, actor, perms.Update, nil)
		if err != nil {
			return err
		}

		if !allowed {
			return g.deny(ctx, actor, "update", fmt.Sprintf("%s queryset", ev.EntityType))
		}

		return nil
	}

	members, err := ev.Materialize(ctx)
	if err != nil {
		return err
	}

	for _, obj := range members {
		allowed, err := g.allowed(ctx, actor, perms.Update, obj)
		if err != nil {
			return err
		}

		if !allowed {
			return g.deny(ctx, actor, "update", collectionRef(ev.EntityType, members))
		}
	}

	return nil
}

// allowed consults the oracle. An empty permission id means the catalog has
// no record for the operation; the check fails closed without an oracle call.
func (g *Guard) allowed(ctx context.Context, actor authz.Actor, permissionID string, obj storage.Entity) (bool, error) {
	if permissionID == "" {
		log.Warn(ctx, "guard: no permission record for operation, denying",
			log.String("actor", actor.String()),
		)

		return false, nil
	}

	allowed, err := g.Oracle.ActorHasPermission(ctx, actor, permissionID, obj)
	if err != nil {
		return false, err
	}

	log.Debug(ctx, "guard: permission check",
		log.String("actor", actor.String()),
		log.String("permission", permissionID),
		log.String("object", entityRef(obj)),
		log.String("decision", lo.Ternary(allowed, "allow", "deny")),
	)

	return allowed, nil
}

// deny logs the violation at error severity and, unless audit-only mode is
// active, returns the denial.
func (g *Guard) deny(ctx context.Context, actor authz.Actor, action, target string) error {
	log.Error(ctx, "guard: permission denied",
		log.String("actor", actor.String()),
		log.String("action", action),
		log.String("target", target),
	)

	if !g.Config.EnforceBlocking {
		return nil
	}

	return &AccessDeniedError{
		Reason: fmt.Sprintf("actor %s not allowed to %s %s", actor, action, target),
	}
}

func entityRef(e storage.Entity) string {
	if e == nil {
		return ""
	}

	if s, ok := e.(fmt.Stringer); ok {
		return s.String()
	}

	if id, ok := e.EntityID(); ok {
		return fmt.Sprintf("%s:%s", e.EntityType(), id)
	}

	return e.EntityType()
}

func collectionRef(entityType string, collection []storage.Entity) string {
	return fmt.Sprintf("%d %s object(s)", len(collection), entityType)
}
