// Package guarded wraps a raw storage.Store with permission enforcement.
// The wrapper is functionally transparent: each method invokes the underlying
// primitive exactly once and returns its result unchanged, injecting a
// lifecycle event before (writes) or after (reads) the real operation.
package guarded

import (
	"context"

	"github.com/looplj/modelguard/internal/authz"
	"github.com/looplj/modelguard/internal/guard"
	"github.com/looplj/modelguard/internal/storage"
)

// Store intercepts the persistence primitives of a raw store and fires
// lifecycle events consumed by the Guard. Callers that must not be subject
// to enforcement use the raw store or a bypass scope.
type Store struct {
	raw   storage.Store
	guard *guard.Guard
}

var _ storage.Store = (*Store)(nil)

// Wrap builds the enforcing wrapper around a raw store.
func Wrap(raw storage.Store, g *guard.Guard) *Store {
	return &Store{raw: raw, guard: g}
}

// Raw returns the wrapped store, for callers that own their bypass decisions.
func (s *Store) Raw() storage.Store {
	return s.raw
}

// BulkInsert fires a class-level pre-create event, then performs the real
// bulk insert (event-then-mutate ordering).
func (s *Store) BulkInsert(ctx context.Context, objects []storage.Entity) ([]storage.Entity, error) {
	if len(objects) > 0 && !authz.InScope(ctx, authz.ScopeBypass) {
		if err := s.guard.Handle(ctx, guard.BulkCreateEvent(objects[0].EntityType())); err != nil {
			return nil, err
		}
	}

	return s.raw.BulkInsert(ctx, objects)
}

// Materialize performs the real materialization first, then fires a post-read
// event carrying the populated results. Per-object checks need the concrete
// objects, so filtering cannot happen before retrieval; the handler may still
// deny the whole response after the fact.
func (s *Store) Materialize(ctx context.Context, q storage.Query) ([]storage.Entity, error) {
	results, err := s.raw.Materialize(ctx, q)
	if err != nil {
		return nil, err
	}

	if !authz.InScope(ctx, authz.ScopeBypass) {
		if err := s.guard.Handle(ctx, guard.PostReadEvent(q.EntityType, results)); err != nil {
			return nil, err
		}
	}

	return results, nil
}

// BulkUpdate fires a pre-update event carrying the not-yet-updated queryset,
// then performs the real update and returns the affected row count unchanged.
func (s *Store) BulkUpdate(ctx context.Context, q storage.Query, fields map[string]any) (int, error) {
	if !authz.InScope(ctx, authz.ScopeBypass) {
		ev := guard.PreUpdateEvent(q.EntityType, func(ctx context.Context) ([]storage.Entity, error) {
			return s.raw.Materialize(ctx, q)
		})

		if err := s.guard.Handle(ctx, ev); err != nil {
			return 0, err
		}
	}

	return s.raw.BulkUpdate(ctx, q, fields)
}

// Save probes whether the entity's key already exists so the handler can
// classify the operation as create or update, fires the pre-save event, then
// performs the real upsert.
func (s *Store) Save(ctx context.Context, e storage.Entity) (storage.Entity, error) {
	if !authz.InScope(ctx, authz.ScopeBypass) {
		exists := false

		if id, assigned := e.EntityID(); assigned {
			var err error

			exists, err = s.raw.Exists(ctx, e.EntityType(), id)
			if err != nil {
				return nil, err
			}
		}

		if err := s.guard.Handle(ctx, guard.PreSaveEvent(e, exists)); err != nil {
			return nil, err
		}
	}

	return s.raw.Save(ctx, e)
}

// Delete fires a pre-delete event, then performs the real delete.
func (s *Store) Delete(ctx context.Context, e storage.Entity) error {
	if !authz.InScope(ctx, authz.ScopeBypass) {
		if err := s.guard.Handle(ctx, guard.PreDeleteEvent(e)); err != nil {
			return err
		}
	}

	return s.raw.Delete(ctx, e)
}

// Exists is an engine-internal probe; it is not an enforced read.
func (s *Store) Exists(ctx context.Context, entityType, id string) (bool, error) {
	return s.raw.Exists(ctx, entityType, id)
}

func (s *Store) Close() error {
	return s.raw.Close()
}
