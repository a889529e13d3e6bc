package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/looplj/modelguard/internal/guard"
)

type countingCatalog struct {
	inner *Static
	calls int
}

func (c *countingCatalog) ListPermissions(ctx context.Context, entityType string) ([]guard.Permission, error) {
	c.calls++
	return c.inner.ListPermissions(ctx, entityType)
}

func TestCached(t *testing.T) {
	ctx := context.Background()

	inner := NewStatic()
	inner.SeedDefaults("person")

	counting := &countingCatalog{inner: inner}
	cached := NewCached(counting, time.Minute)

	first, err := cached.ListPermissions(ctx, "person")
	require.NoError(t, err)
	require.Len(t, first, 4)

	second, err := cached.ListPermissions(ctx, "person")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, 1, counting.calls, "second lookup must hit the cache")

	_, err = cached.ListPermissions(ctx, "animal")
	require.NoError(t, err)
	assert.Equal(t, 2, counting.calls, "different entity types cache separately")
}
