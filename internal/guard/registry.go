package guard

import (
	"fmt"
	"sync"

	"github.com/looplj/modelguard/internal/storage"
)

// Registry is the explicit set of entity types that require permission
// checks. Types are registered at startup and the marker is immutable
// thereafter; entity types never registered are always allowed.
type Registry struct {
	mu    sync.RWMutex
	types map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{types: map[string]struct{}{}}
}

// Require marks the prototype's entity type as requiring permission checks.
// It returns ErrImproperlyConfigured if the prototype is not a storage.Entity.
func (r *Registry) Require(prototype any) error {
	entity, ok := prototype.(storage.Entity)
	if !ok {
		return fmt.Errorf("%w: permission checks can only be required for storage entities, got %T",
			ErrImproperlyConfigured, prototype)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.types[entity.EntityType()] = struct{}{}

	return nil
}

// MustRequire is Require, panicking on configuration errors. Intended for
// startup wiring where a bad registration must fail fast.
func (r *Registry) MustRequire(prototype any) {
	if err := r.Require(prototype); err != nil {
		panic(err)
	}
}

// Required reports whether the entity type is marked as requiring checks.
func (r *Registry) Required(entityType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.types[entityType]

	return ok
}
