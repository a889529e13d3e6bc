package guard

import (
	"context"
	"strings"

	"github.com/looplj/modelguard/internal/authz"
	"github.com/looplj/modelguard/internal/log"
	"github.com/looplj/modelguard/internal/storage"
)

// Permission is one record in the external permission catalog.
type Permission struct {
	// Name is the permission identifier, e.g. "add_person".
	Name string

	// Category is the entity type the permission belongs to.
	Category string
}

// Catalog lists permission records for an entity type. The catalog is
// externally owned; this package only reads it.
type Catalog interface {
	ListPermissions(ctx context.Context, entityType string) ([]Permission, error)
}

// Oracle answers "can this actor perform this action, optionally on this
// object?". obj is nil for class-level checks.
type Oracle interface {
	ActorHasPermission(ctx context.Context, actor authz.Actor, permissionID string, obj storage.Entity) (bool, error)
}

// PermissionSet maps the four canonical operations to permission identifiers.
// An empty identifier means the catalog has no record for that operation;
// handlers treat it as an unconditional denial.
type PermissionSet struct {
	Create string
	Read   string
	Update string
	Delete string
}

// Canonical permission name prefixes recognized by ResolvePermissions.
const (
	prefixCreate = "add_"
	prefixRead   = "view_"
	prefixUpdate = "change_"
	prefixDelete = "delete_"
)

// ResolvePermissions computes the PermissionSet of an entity type from the
// catalog. Records with an unrecognized prefix are logged and ignored. The
// result is recomputed on every call; callers that need caching wrap the
// catalog (see catalog.Cached).
func ResolvePermissions(ctx context.Context, catalog Catalog, entityType string) (PermissionSet, error) {
	records, err := catalog.ListPermissions(ctx, entityType)
	if err != nil {
		return PermissionSet{}, err
	}

	var perms PermissionSet

	for _, record := range records {
		switch {
		case strings.HasPrefix(record.Name, prefixCreate):
			perms.Create = record.Name
		case strings.HasPrefix(record.Name, prefixRead):
			perms.Read = record.Name
		case strings.HasPrefix(record.Name, prefixUpdate):
			perms.Update = record.Name
		case strings.HasPrefix(record.Name, prefixDelete):
			perms.Delete = record.Name
		default:
			log.Warn(ctx, "guard: unknown permission",
				log.String("permission", record.Name),
				log.String("entity_type", entityType),
			)
		}
	}

	return perms, nil
}
