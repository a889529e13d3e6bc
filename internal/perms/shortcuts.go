package perms

import (
	"context"
	"slices"

	"github.com/looplj/modelguard/internal/authz"
	"github.com/looplj/modelguard/internal/storage"
)

// Grant-management shortcuts. They run under the bypass scope so that
// managing grants never trips enforcement, e.g. when a grant lookup happens
// while an enforced operation is in flight. Since the checks are suspended
// inside these helpers, callers should gate access to them.

// AssignPerm grants permissionID to the actor. A nil obj grants class-level,
// otherwise the grant applies to that object only.
func (s *Store) AssignPerm(ctx context.Context, permissionID string, actor authz.Actor, obj storage.Entity) error {
	return authz.SudoScoped(ctx, "grant-management", func(ctx context.Context) error {
		object, err := objectKey(obj)
		if err != nil {
			return err
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		s.grants[grantKey{actor: actor.ID, permission: permissionID, object: object}] = struct{}{}

		return nil
	})
}

// RemovePerm revokes a previously assigned grant. Revoking an absent grant
// is a no-op.
func (s *Store) RemovePerm(ctx context.Context, permissionID string, actor authz.Actor, obj storage.Entity) error {
	return authz.SudoScoped(ctx, "grant-management", func(ctx context.Context) error {
		object, err := objectKey(obj)
		if err != nil {
			return err
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		delete(s.grants, grantKey{actor: actor.ID, permission: permissionID, object: object})

		return nil
	})
}

// GetPerms lists the permission ids the actor holds on obj (nil for the
// class level), sorted for stable output.
func (s *Store) GetPerms(ctx context.Context, actor authz.Actor, obj storage.Entity) ([]string, error) {
	return authz.Sudo(ctx, "grant-management", func(ctx context.Context) ([]string, error) {
		object, err := objectKey(obj)
		if err != nil {
			return nil, err
		}

		s.mu.RLock()
		defer s.mu.RUnlock()

		var perms []string

		for key := range s.grants {
			if key.actor == actor.ID && key.object == object {
				perms = append(perms, key.permission)
			}
		}

		slices.Sort(perms)

		return perms, nil
	})
}

// GetObjectsForActor lists the object keys ("type:id") the actor holds
// permissionID on.
func (s *Store) GetObjectsForActor(ctx context.Context, actor authz.Actor, permissionID string) ([]string, error) {
	return authz.Sudo(ctx, "grant-management", func(ctx context.Context) ([]string, error) {
		s.mu.RLock()
		defer s.mu.RUnlock()

		var objects []string

		for key := range s.grants {
			if key.actor == actor.ID && key.permission == permissionID && key.object != "" {
				objects = append(objects, key.object)
			}
		}

		slices.Sort(objects)

		return objects, nil
	})
}
