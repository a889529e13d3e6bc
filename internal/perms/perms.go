// Package perms bundles an in-memory permission store implementing the
// guard.Oracle interface, plus grant-management shortcuts. Production
// deployments typically plug in their own oracle; this one serves tests,
// the demo server and small installations.
package perms

import (
	"context"
	"fmt"
	"sync"

	"github.com/looplj/modelguard/internal/authz"
	"github.com/looplj/modelguard/internal/guard"
	"github.com/looplj/modelguard/internal/storage"
)

// grantKey identifies one grant. object is empty for class-level grants.
type grantKey struct {
	actor      string
	permission string
	object     string
}

// Store holds class-level and object-level grants.
type Store struct {
	mu     sync.RWMutex
	grants map[grantKey]struct{}
}

var _ guard.Oracle = (*Store)(nil)

func NewStore() *Store {
	return &Store{grants: map[grantKey]struct{}{}}
}

func objectKey(obj storage.Entity) (string, error) {
	if obj == nil {
		return "", nil
	}

	id, assigned := obj.EntityID()
	if !assigned {
		return "", fmt.Errorf("perms: entity %s has no assigned key", obj.EntityType())
	}

	return fmt.Sprintf("%s:%s", obj.EntityType(), id), nil
}

// ActorHasPermission implements guard.Oracle. A class-level check (obj nil)
// consults class grants only; an object-level check consults grants on that
// object only. Superuser actors pass every check.
func (s *Store) ActorHasPermission(ctx context.Context, actor authz.Actor, permissionID string, obj storage.Entity) (bool, error) {
	if actor.Superuser {
		return true, nil
	}

	if permissionID == "" {
		return false, nil
	}

	object, err := objectKey(obj)
	if err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.grants[grantKey{actor: actor.ID, permission: permissionID, object: object}]

	return ok, nil
}
