package storage

import (
	"fmt"
	"maps"
)

// Record is a generic map-backed entity. The demo API and the bundled stores
// persist Records; host applications are free to implement Entity directly.
type Record struct {
	Type   string
	ID     string
	Fields map[string]any
}

// NewRecord creates an unsaved record of the given type.
func NewRecord(entityType string, fields map[string]any) *Record {
	if fields == nil {
		fields = map[string]any{}
	}

	return &Record{Type: entityType, Fields: fields}
}

func (r *Record) EntityType() string {
	return r.Type
}

func (r *Record) EntityID() (string, bool) {
	return r.ID, r.ID != ""
}

func (r *Record) Field(name string) (any, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// Set assigns a field value and returns the record for chaining.
func (r *Record) Set(name string, value any) *Record {
	if r.Fields == nil {
		r.Fields = map[string]any{}
	}

	r.Fields[name] = value

	return r
}

// Clone returns a deep-enough copy of the record (fields are copied, values
// are shared).
func (r *Record) Clone() *Record {
	clone := &Record{Type: r.Type, ID: r.ID, Fields: map[string]any{}}
	maps.Copy(clone.Fields, r.Fields)

	return clone
}

func (r *Record) String() string {
	if r.ID != "" {
		return fmt.Sprintf("%s:%s", r.Type, r.ID)
	}

	return fmt.Sprintf("%s:(unsaved)", r.Type)
}
