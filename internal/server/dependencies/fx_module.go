package dependencies

import (
	"time"

	"go.uber.org/fx"

	"github.com/looplj/modelguard/internal/catalog"
	"github.com/looplj/modelguard/internal/guard"
	"github.com/looplj/modelguard/internal/log"
	"github.com/looplj/modelguard/internal/perms"
	"github.com/looplj/modelguard/internal/server/db"
	"github.com/looplj/modelguard/internal/storage"
	"github.com/looplj/modelguard/internal/storage/guarded"
)

var Module = fx.Module("dependencies",
	fx.Provide(log.New),
	fx.Provide(db.NewStore),
	fx.Provide(perms.NewStore),
	fx.Provide(NewCatalog),
	fx.Provide(NewOracle),
	fx.Provide(NewGuard),
	fx.Provide(NewGuardedStore),
)

// NewCatalog builds the permission catalog, seeded with the default CRUD
// permissions of every protected entity type and fronted by a small cache.
func NewCatalog(config guard.Config) guard.Catalog {
	static := catalog.NewStatic()
	for _, entityType := range config.ProtectedEntities {
		static.SeedDefaults(entityType)
	}

	return catalog.NewCached(static, time.Minute)
}

func NewOracle(store *perms.Store) guard.Oracle {
	return store
}

func NewGuard(config guard.Config, cat guard.Catalog, oracle guard.Oracle) *guard.Guard {
	g := guard.New(config, cat, oracle)
	for _, entityType := range config.ProtectedEntities {
		g.Registry.MustRequire(&storage.Record{Type: entityType})
	}

	return g
}

func NewGuardedStore(raw storage.Store, g *guard.Guard) *guarded.Store {
	return guarded.Wrap(raw, g)
}
