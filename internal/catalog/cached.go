package catalog

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/looplj/modelguard/internal/guard"
)

// Cached wraps a catalog with a TTL cache. The guard resolves the
// permission set on every enforcement check; deployments whose catalog
// lookups are expensive put this wrapper in between.
type Cached struct {
	catalog guard.Catalog
	cache   *gocache.Cache
}

var _ guard.Catalog = (*Cached)(nil)

// NewCached caches ListPermissions results for ttl.
func NewCached(catalog guard.Catalog, ttl time.Duration) *Cached {
	return &Cached{
		catalog: catalog,
		cache:   gocache.New(ttl, 2*ttl),
	}
}

func (c *Cached) ListPermissions(ctx context.Context, entityType string) ([]guard.Permission, error) {
	if cached, ok := c.cache.Get(entityType); ok {
		return cached.([]guard.Permission), nil
	}

	perms, err := c.catalog.ListPermissions(ctx, entityType)
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(entityType, perms)

	return perms, nil
}
