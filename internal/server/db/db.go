// Package db opens the raw persistence backend from config.
package db

import (
	"fmt"

	"github.com/looplj/modelguard/internal/storage"
	"github.com/looplj/modelguard/internal/storage/memstore"
	"github.com/looplj/modelguard/internal/storage/sqlstore"
)

type Config struct {
	Dialect string `conf:"dialect" yaml:"dialect" json:"dialect"`
	DSN     string `conf:"dsn" yaml:"dsn" json:"dsn"`
}

// NewStore opens the raw store. The result is not enforced; callers wrap it
// with the guarded store before handing it to request paths.
func NewStore(cfg Config) storage.Store {
	switch cfg.Dialect {
	case "", "memory":
		return memstore.New()
	case "sqlite", "sqlite3":
		store, err := sqlstore.Open(cfg.DSN)
		if err != nil {
			panic(err)
		}

		return store
	default:
		panic(fmt.Errorf("invalid dialect: %s", cfg.Dialect))
	}
}
