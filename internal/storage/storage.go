// Package storage defines the persistence primitives the enforcement layer
// intercepts. The Store interface is the raw persistence client; callers that
// want enforcement use the guarded wrapper instead.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when an entity cannot be located by its key.
var ErrNotFound = errors.New("storage: entity not found")

// Entity is a persisted domain object.
type Entity interface {
	// EntityType identifies the entity's type, e.g. "person".
	EntityType() string

	// EntityID returns the primary key and whether one has been assigned.
	EntityID() (string, bool)
}

// FieldReader exposes named field access. Stores use it to evaluate query
// conditions without knowing the concrete entity type.
type FieldReader interface {
	Field(name string) (any, bool)
}

// Store is the raw persistence client. Implementations provide their own
// concurrency safety; they perform no permission checks.
type Store interface {
	// BulkInsert inserts the objects and returns them with assigned keys.
	BulkInsert(ctx context.Context, objects []Entity) ([]Entity, error)

	// Materialize executes the query and returns the matching entities.
	Materialize(ctx context.Context, q Query) ([]Entity, error)

	// BulkUpdate applies the field changes to every entity matching the
	// query and returns the number of affected rows.
	BulkUpdate(ctx context.Context, q Query, fields map[string]any) (int, error)

	// Save upserts a single entity: insert when its key is unassigned or
	// unknown, update otherwise. Returns the entity with its assigned key.
	Save(ctx context.Context, e Entity) (Entity, error)

	// Delete removes the entity identified by its type and key.
	Delete(ctx context.Context, e Entity) error

	// Exists reports whether a row with the given key currently exists.
	Exists(ctx context.Context, entityType, id string) (bool, error)

	// Close releases the store's resources.
	Close() error
}
