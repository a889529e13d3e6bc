// Package biz contains the request-facing services of the demo API.
package biz

import (
	"context"
	"fmt"

	"github.com/looplj/modelguard/internal/authz"
	"github.com/looplj/modelguard/internal/storage"
	"github.com/looplj/modelguard/internal/storage/guarded"
)

// EntityService exposes CRUD over the enforced store. All permission
// decisions happen inside the store wrapper; the service only shapes
// the operations.
type EntityService struct {
	// Store is the enforced (guarded) store.
	Store storage.Store
}

func NewEntityService(store *guarded.Store) *EntityService {
	return &EntityService{Store: store}
}

// Create saves a new entity of the given type.
func (s *EntityService) Create(ctx context.Context, entityType string, fields map[string]any) (*storage.Record, error) {
	saved, err := s.Store.Save(ctx, storage.NewRecord(entityType, fields))
	if err != nil {
		return nil, err
	}

	return saved.(*storage.Record), nil
}

// List materializes every entity of the type matching the equality filters.
func (s *EntityService) List(ctx context.Context, entityType string, filters map[string]any) ([]*storage.Record, error) {
	q := storage.All(entityType)
	for field, value := range filters {
		q = q.Where(field, value)
	}

	results, err := s.Store.Materialize(ctx, q)
	if err != nil {
		return nil, err
	}

	records := make([]*storage.Record, 0, len(results))
	for _, e := range results {
		records = append(records, e.(*storage.Record))
	}

	return records, nil
}

// Get materializes a single entity by key.
func (s *EntityService) Get(ctx context.Context, entityType, id string) (*storage.Record, error) {
	record, err := s.load(ctx, entityType, id, false)
	if err != nil {
		return nil, err
	}

	return record, nil
}

// Update merges the field changes into an existing entity and saves it.
// The current state is loaded with enforcement bypassed, matching the read
// permission not being required to perform an update.
func (s *EntityService) Update(ctx context.Context, entityType, id string, fields map[string]any) (*storage.Record, error) {
	record, err := s.load(ctx, entityType, id, true)
	if err != nil {
		return nil, err
	}

	for name, value := range fields {
		record.Set(name, value)
	}

	saved, err := s.Store.Save(ctx, record)
	if err != nil {
		return nil, err
	}

	return saved.(*storage.Record), nil
}

// BulkUpdate applies the field changes to every entity matching the filters
// and returns the affected row count.
func (s *EntityService) BulkUpdate(ctx context.Context, entityType string, filters, fields map[string]any) (int, error) {
	q := storage.All(entityType)
	for field, value := range filters {
		q = q.Where(field, value)
	}

	return s.Store.BulkUpdate(ctx, q, fields)
}

// Delete removes an entity by key. The instance is loaded with enforcement
// bypassed so the pre-delete check receives the concrete object.
func (s *EntityService) Delete(ctx context.Context, entityType, id string) error {
	record, err := s.load(ctx, entityType, id, true)
	if err != nil {
		return err
	}

	return s.Store.Delete(ctx, record)
}

func (s *EntityService) load(ctx context.Context, entityType, id string, bypass bool) (*storage.Record, error) {
	materialize := func(ctx context.Context) ([]storage.Entity, error) {
		return s.Store.Materialize(ctx, storage.ByID(entityType, id))
	}

	var (
		results []storage.Entity
		err     error
	)

	if bypass {
		results, err = authz.Sudo(ctx, "load-instance", materialize)
	} else {
		results, err = materialize(ctx)
	}

	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %s:%s", storage.ErrNotFound, entityType, id)
	}

	return results[0].(*storage.Record), nil
}
