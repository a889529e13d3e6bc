package objects

type ErrorResponse struct {
	Error Error `json:"error"`
}

type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// EntityResponse is the wire form of a stored entity.
type EntityResponse struct {
	Type   string         `json:"type"`
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// EntityListResponse wraps a materialized collection.
type EntityListResponse struct {
	Entities []EntityResponse `json:"entities"`
	Total    int              `json:"total"`
}

// SaveEntityRequest creates or updates one entity.
type SaveEntityRequest struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// BulkUpdateRequest applies field changes to every entity matching the
// optional equality conditions.
type BulkUpdateRequest struct {
	Where  map[string]any `json:"where"`
	Fields map[string]any `json:"fields"`
}

// BulkUpdateResponse reports the affected row count.
type BulkUpdateResponse struct {
	Affected int `json:"affected"`
}

// GrantRequest assigns or removes a permission grant.
type GrantRequest struct {
	ActorID    string `json:"actorId"`
	Permission string `json:"permission"`
	ObjectID   string `json:"objectId"`
}
