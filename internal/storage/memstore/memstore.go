// Package memstore provides an in-memory storage.Store. It backs tests and
// the demo server's default configuration.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/looplj/modelguard/internal/storage"
)

// Store keeps records in memory, keyed by entity type and id. It persists
// *storage.Record values only.
type Store struct {
	mu sync.RWMutex

	// tables preserves insertion order per entity type so queries are stable.
	tables map[string][]*storage.Record
	index  map[string]map[string]*storage.Record
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		tables: map[string][]*storage.Record{},
		index:  map[string]map[string]*storage.Record{},
	}
}

func asRecord(e storage.Entity) (*storage.Record, error) {
	record, ok := e.(*storage.Record)
	if !ok {
		return nil, fmt.Errorf("memstore: unsupported entity type %T", e)
	}

	return record, nil
}

func (s *Store) insertLocked(record *storage.Record) *storage.Record {
	stored := record.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	s.tables[stored.Type] = append(s.tables[stored.Type], stored)

	if s.index[stored.Type] == nil {
		s.index[stored.Type] = map[string]*storage.Record{}
	}

	s.index[stored.Type][stored.ID] = stored

	return stored
}

func (s *Store) BulkInsert(ctx context.Context, objects []storage.Entity) ([]storage.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inserted := make([]storage.Entity, 0, len(objects))

	for _, obj := range objects {
		record, err := asRecord(obj)
		if err != nil {
			return nil, err
		}

		inserted = append(inserted, s.insertLocked(record).Clone())
	}

	return inserted, nil
}

func (s *Store) Materialize(ctx context.Context, q storage.Query) ([]storage.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []storage.Entity

	for _, record := range s.tables[q.EntityType] {
		if q.Matches(record) {
			results = append(results, record.Clone())
		}
	}

	return results, nil
}

func (s *Store) BulkUpdate(ctx context.Context, q storage.Query, fields map[string]any) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	affected := 0

	for _, record := range s.tables[q.EntityType] {
		if !q.Matches(record) {
			continue
		}

		for name, value := range fields {
			record.Set(name, value)
		}

		affected++
	}

	return affected, nil
}

func (s *Store) Save(ctx context.Context, e storage.Entity) (storage.Entity, error) {
	record, err := asRecord(e)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ID != "" {
		if existing, ok := s.index[record.Type][record.ID]; ok {
			existing.Fields = record.Clone().Fields
			return existing.Clone(), nil
		}
	}

	return s.insertLocked(record).Clone(), nil
}

func (s *Store) Delete(ctx context.Context, e storage.Entity) error {
	id, assigned := e.EntityID()
	if !assigned {
		return storage.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entityType := e.EntityType()

	if _, ok := s.index[entityType][id]; !ok {
		return storage.ErrNotFound
	}

	delete(s.index[entityType], id)

	table := s.tables[entityType]
	for i, record := range table {
		if record.ID == id {
			s.tables[entityType] = append(table[:i:i], table[i+1:]...)
			break
		}
	}

	return nil
}

func (s *Store) Exists(ctx context.Context, entityType, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.index[entityType][id]

	return ok, nil
}

func (s *Store) Close() error {
	return nil
}
