package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/looplj/modelguard/internal/storage"
)

func TestStoreSave(t *testing.T) {
	ctx := context.Background()
	store := New()

	t.Run("insert assigns a key", func(t *testing.T) {
		saved, err := store.Save(ctx, storage.NewRecord("person", map[string]any{"name": "alice"}))
		require.NoError(t, err)

		id, assigned := saved.EntityID()
		assert.True(t, assigned)
		assert.NotEmpty(t, id)

		exists, err := store.Exists(ctx, "person", id)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("save with existing key updates in place", func(t *testing.T) {
		saved, err := store.Save(ctx, storage.NewRecord("person", map[string]any{"name": "bob"}))
		require.NoError(t, err)

		record := saved.(*storage.Record)
		record.Set("name", "robert")

		updated, err := store.Save(ctx, record)
		require.NoError(t, err)

		name, _ := updated.(*storage.Record).Field("name")
		assert.Equal(t, "robert", name)

		results, err := store.Materialize(ctx, storage.ByID("person", record.ID))
		require.NoError(t, err)
		require.Len(t, results, 1)

		name, _ = results[0].(*storage.Record).Field("name")
		assert.Equal(t, "robert", name)
	})

	t.Run("save with assigned but unknown key inserts", func(t *testing.T) {
		saved, err := store.Save(ctx, &storage.Record{Type: "person", ID: "chosen", Fields: map[string]any{}})
		require.NoError(t, err)

		id, _ := saved.EntityID()
		assert.Equal(t, "chosen", id)
	})
}

func TestStoreMaterialize(t *testing.T) {
	ctx := context.Background()
	store := New()

	_, err := store.BulkInsert(ctx, []storage.Entity{
		storage.NewRecord("person", map[string]any{"name": "alice", "city": "oslo"}),
		storage.NewRecord("person", map[string]any{"name": "bob", "city": "oslo"}),
		storage.NewRecord("person", map[string]any{"name": "carol", "city": "bergen"}),
	})
	require.NoError(t, err)

	t.Run("all", func(t *testing.T) {
		results, err := store.Materialize(ctx, storage.All("person"))
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("filtered", func(t *testing.T) {
		results, err := store.Materialize(ctx, storage.All("person").Where("city", "oslo"))
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("results are copies", func(t *testing.T) {
		results, err := store.Materialize(ctx, storage.All("person").Where("name", "alice"))
		require.NoError(t, err)
		require.Len(t, results, 1)

		results[0].(*storage.Record).Set("name", "mutated")

		again, err := store.Materialize(ctx, storage.All("person").Where("name", "alice"))
		require.NoError(t, err)
		assert.Len(t, again, 1)
	})
}

func TestStoreBulkUpdate(t *testing.T) {
	ctx := context.Background()
	store := New()

	_, err := store.BulkInsert(ctx, []storage.Entity{
		storage.NewRecord("person", map[string]any{"city": "oslo"}),
		storage.NewRecord("person", map[string]any{"city": "oslo"}),
		storage.NewRecord("person", map[string]any{"city": "bergen"}),
	})
	require.NoError(t, err)

	affected, err := store.BulkUpdate(ctx, storage.All("person").Where("city", "oslo"), map[string]any{"active": true})
	require.NoError(t, err)
	assert.Equal(t, 2, affected)

	results, err := store.Materialize(ctx, storage.All("person").Where("active", true))
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := New()

	saved, err := store.Save(ctx, storage.NewRecord("person", nil))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, saved))

	err = store.Delete(ctx, saved)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = store.Delete(ctx, storage.NewRecord("person", nil))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStoreRejectsForeignEntities(t *testing.T) {
	ctx := context.Background()
	store := New()

	_, err := store.Save(ctx, fakeEntity{})
	assert.Error(t, err)
}

type fakeEntity struct{}

func (fakeEntity) EntityType() string        { return "fake" }
func (fakeEntity) EntityID() (string, bool)  { return "", false }
