package storage

// Cond is a field-equality condition.
type Cond struct {
	Field string
	Value any
}

// Query selects entities of one type by key or field equality. An empty
// condition list matches every entity of the type.
type Query struct {
	EntityType string
	ID         string
	Conds      []Cond
}

// All selects every entity of the given type.
func All(entityType string) Query {
	return Query{EntityType: entityType}
}

// ByID selects a single entity by its key.
func ByID(entityType, id string) Query {
	return Query{EntityType: entityType, ID: id}
}

// Where appends a field-equality condition.
func (q Query) Where(field string, value any) Query {
	q.Conds = append(q.Conds[:len(q.Conds):len(q.Conds)], Cond{Field: field, Value: value})
	return q
}

// Matches reports whether the entity satisfies every condition. Entities that
// do not expose field access only match unconditioned queries.
func (q Query) Matches(e Entity) bool {
	if e.EntityType() != q.EntityType {
		return false
	}

	if q.ID != "" {
		id, assigned := e.EntityID()
		if !assigned || id != q.ID {
			return false
		}
	}

	if len(q.Conds) == 0 {
		return true
	}

	reader, ok := e.(FieldReader)
	if !ok {
		return false
	}

	for _, cond := range q.Conds {
		v, ok := reader.Field(cond.Field)
		if !ok || v != cond.Value {
			return false
		}
	}

	return true
}
