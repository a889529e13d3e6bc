package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCatalog map[string][]Permission

func (c staticCatalog) ListPermissions(ctx context.Context, entityType string) ([]Permission, error) {
	return c[entityType], nil
}

type failingCatalog struct{ err error }

func (c failingCatalog) ListPermissions(ctx context.Context, entityType string) ([]Permission, error) {
	return nil, c.err
}

func TestResolvePermissions(t *testing.T) {
	ctx := context.Background()

	t.Run("classifies by prefix", func(t *testing.T) {
		cat := staticCatalog{
			"person": {
				{Name: "add_person", Category: "person"},
				{Name: "view_person", Category: "person"},
				{Name: "change_person", Category: "person"},
				{Name: "delete_person", Category: "person"},
			},
		}

		perms, err := ResolvePermissions(ctx, cat, "person")
		require.NoError(t, err)

		assert.Equal(t, PermissionSet{
			Create: "add_person",
			Read:   "view_person",
			Update: "change_person",
			Delete: "delete_person",
		}, perms)
	})

	t.Run("ignores unknown prefixes", func(t *testing.T) {
		cat := staticCatalog{
			"person": {
				{Name: "view_person", Category: "person"},
				{Name: "publish_person", Category: "person"},
			},
		}

		perms, err := ResolvePermissions(ctx, cat, "person")
		require.NoError(t, err)

		assert.Equal(t, "view_person", perms.Read)
		assert.Empty(t, perms.Create)
		assert.Empty(t, perms.Update)
		assert.Empty(t, perms.Delete)
	})

	t.Run("empty catalog yields an empty set", func(t *testing.T) {
		perms, err := ResolvePermissions(ctx, staticCatalog{}, "person")
		require.NoError(t, err)
		assert.Equal(t, PermissionSet{}, perms)
	})

	t.Run("propagates catalog errors", func(t *testing.T) {
		boom := errors.New("catalog down")

		_, err := ResolvePermissions(ctx, failingCatalog{err: boom}, "person")
		require.ErrorIs(t, err, boom)
	})
}
