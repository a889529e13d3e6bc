package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/looplj/modelguard/internal/storage"
)

func TestRegistry(t *testing.T) {
	t.Run("require marks the entity type", func(t *testing.T) {
		r := NewRegistry()

		require.NoError(t, r.Require(&storage.Record{Type: "person"}))

		assert.True(t, r.Required("person"))
		assert.False(t, r.Required("animal"))
	})

	t.Run("require rejects non-entities", func(t *testing.T) {
		r := NewRegistry()

		err := r.Require(42)
		require.ErrorIs(t, err, ErrImproperlyConfigured)

		assert.Panics(t, func() { r.MustRequire("not an entity") })
	})
}
