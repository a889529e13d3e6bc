// Package sqlstore provides a sqlite-backed storage.Store. Records are kept
// in a single table keyed by (entity_type, id) with JSON-encoded fields.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/looplj/modelguard/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS entities (
	entity_type TEXT NOT NULL,
	id          TEXT NOT NULL,
	fields      TEXT NOT NULL,
	PRIMARY KEY (entity_type, id)
);
`

// Store persists *storage.Record values in sqlite.
//
// Field values round-trip through JSON, so numeric fields come back as
// float64. Query conditions must account for that.
type Store struct {
	db *sql.DB
}

var _ storage.Store = (*Store)(nil)

// Open opens (and initializes) a sqlite database at the given DSN.
// Use ":memory:" for an ephemeral store.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %q: %w", dsn, err)
	}

	// sqlite allows one writer; serialize access through a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore: init schema: %w", err)
	}

	return &Store{db: db}, nil
}

func asRecord(e storage.Entity) (*storage.Record, error) {
	record, ok := e.(*storage.Record)
	if !ok {
		return nil, fmt.Errorf("sqlstore: unsupported entity type %T", e)
	}

	return record, nil
}

func encodeFields(record *storage.Record) (string, error) {
	fields, err := json.Marshal(record.Fields)
	if err != nil {
		return "", fmt.Errorf("sqlstore: encode fields of %s: %w", record, err)
	}

	return string(fields), nil
}

func decodeRecord(entityType, id, fields string) (*storage.Record, error) {
	record := &storage.Record{Type: entityType, ID: id, Fields: map[string]any{}}

	if err := json.Unmarshal([]byte(fields), &record.Fields); err != nil {
		return nil, fmt.Errorf("sqlstore: decode fields of %s:%s: %w", entityType, id, err)
	}

	return record, nil
}

func (s *Store) insert(ctx context.Context, tx *sql.Tx, record *storage.Record) (*storage.Record, error) {
	stored := record.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	fields, err := encodeFields(stored)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO entities (entity_type, id, fields) VALUES (?, ?, ?)`,
		stored.Type, stored.ID, fields,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: insert %s: %w", stored, err)
	}

	return stored, nil
}

func (s *Store) BulkInsert(ctx context.Context, objects []storage.Entity) ([]storage.Entity, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	inserted := make([]storage.Entity, 0, len(objects))

	for _, obj := range objects {
		record, err := asRecord(obj)
		if err != nil {
			return nil, err
		}

		stored, err := s.insert(ctx, tx, record)
		if err != nil {
			return nil, err
		}

		inserted = append(inserted, stored)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return inserted, nil
}

// Materialize loads every row of the entity type and evaluates the query
// conditions on the decoded records. The single-table layout keeps conditions
// out of SQL on purpose; entity fields are schemaless.
func (s *Store) Materialize(ctx context.Context, q storage.Query) ([]storage.Entity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, fields FROM entities WHERE entity_type = ? ORDER BY rowid`,
		q.EntityType,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: query %s: %w", q.EntityType, err)
	}
	defer rows.Close()

	var results []storage.Entity

	for rows.Next() {
		var id, fields string
		if err := rows.Scan(&id, &fields); err != nil {
			return nil, err
		}

		record, err := decodeRecord(q.EntityType, id, fields)
		if err != nil {
			return nil, err
		}

		if q.Matches(record) {
			results = append(results, record)
		}
	}

	return results, rows.Err()
}

func (s *Store) BulkUpdate(ctx context.Context, q storage.Query, fields map[string]any) (int, error) {
	matches, err := s.Materialize(ctx, q)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	affected := 0

	for _, match := range matches {
		record := match.(*storage.Record)
		for name, value := range fields {
			record.Set(name, value)
		}

		encoded, err := encodeFields(record)
		if err != nil {
			return 0, err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE entities SET fields = ? WHERE entity_type = ? AND id = ?`,
			encoded, record.Type, record.ID,
		)
		if err != nil {
			return 0, fmt.Errorf("sqlstore: update %s: %w", record, err)
		}

		affected++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return affected, nil
}

func (s *Store) Save(ctx context.Context, e storage.Entity) (storage.Entity, error) {
	record, err := asRecord(e)
	if err != nil {
		return nil, err
	}

	stored := record.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	fields, err := encodeFields(stored)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO entities (entity_type, id, fields) VALUES (?, ?, ?)
		 ON CONFLICT (entity_type, id) DO UPDATE SET fields = excluded.fields`,
		stored.Type, stored.ID, fields,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: save %s: %w", stored, err)
	}

	return stored, nil
}

func (s *Store) Delete(ctx context.Context, e storage.Entity) error {
	id, assigned := e.EntityID()
	if !assigned {
		return storage.ErrNotFound
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM entities WHERE entity_type = ? AND id = ?`,
		e.EntityType(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlstore: delete %s:%s: %w", e.EntityType(), id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (s *Store) Exists(ctx context.Context, entityType, id string) (bool, error) {
	var one int

	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM entities WHERE entity_type = ? AND id = ?`,
		entityType, id,
	).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
