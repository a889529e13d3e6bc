package guard

import (
	"context"

	"github.com/looplj/modelguard/internal/storage"
)

// EventKind identifies a lifecycle event.
type EventKind string

const (
	// EventPreSave fires before a single-object create-or-update, and before
	// a bulk insert (with no instance, class-level only).
	EventPreSave EventKind = "pre_save"

	// EventPreDelete fires before a single-object delete.
	EventPreDelete EventKind = "pre_delete"

	// EventPostRead fires after a queryset has been materialized, carrying
	// the populated result collection.
	EventPostRead EventKind = "post_read"

	// EventPreUpdate fires before a queryset-wide update, carrying the
	// not-yet-updated queryset.
	EventPreUpdate EventKind = "pre_update"
)

// Event is a transient lifecycle notification. It is created by the
// interception layer, consumed synchronously by exactly one handler, and
// discarded after.
type Event struct {
	Kind       EventKind
	EntityType string

	// Instance is the single object involved, if any. Nil for bulk creation
	// and collection events.
	Instance storage.Entity

	// Collection carries the materialized results of a post-read event.
	Collection []storage.Entity

	// Exists reports whether a row with the instance's key currently exists
	// in storage. Only meaningful for pre-save events with an instance.
	Exists bool

	// materialize loads the pre-update state of the queryset. Set by the
	// interception layer for pre-update events; enumerating the queryset
	// forces materialization.
	materialize func(ctx context.Context) ([]storage.Entity, error)
}

// Materialize loads the event's queryset. Only pre-update events carry one.
func (ev Event) Materialize(ctx context.Context) ([]storage.Entity, error) {
	if ev.materialize == nil {
		return nil, nil
	}

	return ev.materialize(ctx)
}

// PreSaveEvent describes an imminent single-object create-or-update.
// exists reports whether a row with the instance's key is already in storage.
func PreSaveEvent(instance storage.Entity, exists bool) Event {
	return Event{
		Kind:       EventPreSave,
		EntityType: instance.EntityType(),
		Instance:   instance,
		Exists:     exists,
	}
}

// BulkCreateEvent describes an imminent bulk insert. Bulk creation cannot
// practically be checked per object before any row exists, so the event
// carries no instance and the check is class-level only.
func BulkCreateEvent(entityType string) Event {
	return Event{Kind: EventPreSave, EntityType: entityType}
}

// PreDeleteEvent describes an imminent single-object delete.
func PreDeleteEvent(instance storage.Entity) Event {
	return Event{
		Kind:       EventPreDelete,
		EntityType: instance.EntityType(),
		Instance:   instance,
	}
}

// PostReadEvent carries the materialized results of a completed read.
func PostReadEvent(entityType string, collection []storage.Entity) Event {
	return Event{
		Kind:       EventPostRead,
		EntityType: entityType,
		Collection: collection,
	}
}

// PreUpdateEvent describes an imminent queryset-wide update. materialize
// loads the not-yet-updated state of the queryset on demand.
func PreUpdateEvent(entityType string, materialize func(ctx context.Context) ([]storage.Entity, error)) Event {
	return Event{
		Kind:        EventPreUpdate,
		EntityType:  entityType,
		materialize: materialize,
	}
}
