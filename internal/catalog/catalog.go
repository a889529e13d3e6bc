// Package catalog provides permission catalog implementations for the guard.
package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/looplj/modelguard/internal/guard"
)

// Defaults returns the four canonical permission records of an entity type:
// add_<type>, view_<type>, change_<type> and delete_<type>.
func Defaults(entityType string) []guard.Permission {
	names := []string{
		fmt.Sprintf("add_%s", entityType),
		fmt.Sprintf("view_%s", entityType),
		fmt.Sprintf("change_%s", entityType),
		fmt.Sprintf("delete_%s", entityType),
	}

	perms := make([]guard.Permission, 0, len(names))
	for _, name := range names {
		perms = append(perms, guard.Permission{Name: name, Category: entityType})
	}

	return perms
}

// Static is an in-memory permission catalog.
type Static struct {
	mu      sync.RWMutex
	records map[string][]guard.Permission
}

var _ guard.Catalog = (*Static)(nil)

func NewStatic() *Static {
	return &Static{records: map[string][]guard.Permission{}}
}

// Add registers permission records under the entity type.
func (c *Static) Add(entityType string, names ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, name := range names {
		c.records[entityType] = append(c.records[entityType], guard.Permission{
			Name:     name,
			Category: entityType,
		})
	}
}

// SeedDefaults registers the four canonical records for the entity type.
func (c *Static) SeedDefaults(entityType string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records[entityType] = append(c.records[entityType], Defaults(entityType)...)
}

func (c *Static) ListPermissions(ctx context.Context, entityType string) ([]guard.Permission, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.records[entityType]), nil
}
