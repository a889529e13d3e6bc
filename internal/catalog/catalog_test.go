package catalog

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/looplj/modelguard/internal/guard"
)

func TestDefaults(t *testing.T) {
	want := []guard.Permission{
		{Name: "add_person", Category: "person"},
		{Name: "view_person", Category: "person"},
		{Name: "change_person", Category: "person"},
		{Name: "delete_person", Category: "person"},
	}

	if diff := cmp.Diff(want, Defaults("person")); diff != "" {
		t.Errorf("Defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestStatic(t *testing.T) {
	ctx := context.Background()

	t.Run("seeded defaults resolve to a full set", func(t *testing.T) {
		cat := NewStatic()
		cat.SeedDefaults("person")

		perms, err := guard.ResolvePermissions(ctx, cat, "person")
		require.NoError(t, err)

		assert.Equal(t, guard.PermissionSet{
			Create: "add_person",
			Read:   "view_person",
			Update: "change_person",
			Delete: "delete_person",
		}, perms)
	})

	t.Run("unknown type lists nothing", func(t *testing.T) {
		cat := NewStatic()

		records, err := cat.ListPermissions(ctx, "person")
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("add registers custom records", func(t *testing.T) {
		cat := NewStatic()
		cat.Add("person", "view_person", "publish_person")

		records, err := cat.ListPermissions(ctx, "person")
		require.NoError(t, err)
		assert.Len(t, records, 2)
		assert.Equal(t, "person", records[0].Category)
	})
}
