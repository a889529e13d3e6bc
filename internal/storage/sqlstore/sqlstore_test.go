package sqlstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/looplj/modelguard/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	saved, err := store.Save(ctx, storage.NewRecord("person", map[string]any{"name": "alice"}))
	require.NoError(t, err)

	id, assigned := saved.EntityID()
	require.True(t, assigned)

	exists, err := store.Exists(ctx, "person", id)
	require.NoError(t, err)
	assert.True(t, exists)

	results, err := store.Materialize(ctx, storage.ByID("person", id))
	require.NoError(t, err)
	require.Len(t, results, 1)

	name, _ := results[0].(*storage.Record).Field("name")
	assert.Equal(t, "alice", name)
}

func TestStoreSaveUpserts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	saved, err := store.Save(ctx, storage.NewRecord("person", map[string]any{"name": "bob"}))
	require.NoError(t, err)

	record := saved.(*storage.Record)
	record.Set("name", "robert")

	_, err = store.Save(ctx, record)
	require.NoError(t, err)

	results, err := store.Materialize(ctx, storage.All("person"))
	require.NoError(t, err)
	require.Len(t, results, 1)

	name, _ := results[0].(*storage.Record).Field("name")
	assert.Equal(t, "robert", name)
}

func TestStoreBulkOperations(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	inserted, err := store.BulkInsert(ctx, []storage.Entity{
		storage.NewRecord("person", map[string]any{"city": "oslo"}),
		storage.NewRecord("person", map[string]any{"city": "oslo"}),
		storage.NewRecord("person", map[string]any{"city": "bergen"}),
	})
	require.NoError(t, err)
	require.Len(t, inserted, 3)

	for _, e := range inserted {
		_, assigned := e.EntityID()
		assert.True(t, assigned)
	}

	affected, err := store.BulkUpdate(ctx, storage.All("person").Where("city", "oslo"), map[string]any{"active": true})
	require.NoError(t, err)
	assert.Equal(t, 2, affected)

	results, err := store.Materialize(ctx, storage.All("person").Where("active", true))
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	saved, err := store.Save(ctx, storage.NewRecord("person", nil))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, saved))
	assert.ErrorIs(t, store.Delete(ctx, saved), storage.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, storage.NewRecord("person", nil)), storage.ErrNotFound)
}

func TestStoreNumericFieldsDecodeAsFloat64(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	saved, err := store.Save(ctx, storage.NewRecord("person", map[string]any{"age": 30}))
	require.NoError(t, err)

	id, _ := saved.EntityID()

	results, err := store.Materialize(ctx, storage.ByID("person", id))
	require.NoError(t, err)
	require.Len(t, results, 1)

	age, _ := results[0].(*storage.Record).Field("age")
	assert.Equal(t, float64(30), age)
}
