// Package api contains the HTTP handlers of the demo CRUD surface.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/looplj/modelguard/internal/objects"
	"github.com/looplj/modelguard/internal/server/biz"
	"github.com/looplj/modelguard/internal/storage"
)

// EntityHandlers serves CRUD over registered entity types. Enforcement
// happens inside the guarded store; a denied operation surfaces here as an
// error which the denial middleware turns into the 403 response.
type EntityHandlers struct {
	Entities *biz.EntityService
}

func NewEntityHandlers(entities *biz.EntityService) *EntityHandlers {
	return &EntityHandlers{Entities: entities}
}

func (h *EntityHandlers) Register(group *gin.RouterGroup) {
	group.POST("/entities/:type", h.Create)
	group.GET("/entities/:type", h.List)
	group.GET("/entities/:type/:id", h.Get)
	group.PUT("/entities/:type/:id", h.Update)
	group.POST("/entities/:type/bulk-update", h.BulkUpdate)
	group.DELETE("/entities/:type/:id", h.Delete)
}

// fail records the error and aborts without writing, so the error and denial
// middlewares decide the response.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func entityResponse(record *storage.Record) objects.EntityResponse {
	return objects.EntityResponse{
		Type:   record.Type,
		ID:     record.ID,
		Fields: record.Fields,
	}
}

func (h *EntityHandlers) Create(c *gin.Context) {
	var req objects.SaveEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, objects.ErrorResponse{
			Error: objects.Error{Type: http.StatusText(http.StatusBadRequest), Message: err.Error()},
		})

		return
	}

	record, err := h.Entities.Create(c.Request.Context(), c.Param("type"), req.Fields)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, entityResponse(record))
}

func (h *EntityHandlers) List(c *gin.Context) {
	filters := map[string]any{}
	for field, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			filters[field] = values[0]
		}
	}

	records, err := h.Entities.List(c.Request.Context(), c.Param("type"), filters)
	if err != nil {
		fail(c, err)
		return
	}

	resp := objects.EntityListResponse{Entities: []objects.EntityResponse{}, Total: len(records)}
	for _, record := range records {
		resp.Entities = append(resp.Entities, entityResponse(record))
	}

	c.JSON(http.StatusOK, resp)
}

func (h *EntityHandlers) Get(c *gin.Context) {
	record, err := h.Entities.Get(c.Request.Context(), c.Param("type"), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, entityResponse(record))
}

func (h *EntityHandlers) Update(c *gin.Context) {
	var req objects.SaveEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, objects.ErrorResponse{
			Error: objects.Error{Type: http.StatusText(http.StatusBadRequest), Message: err.Error()},
		})

		return
	}

	record, err := h.Entities.Update(c.Request.Context(), c.Param("type"), c.Param("id"), req.Fields)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, entityResponse(record))
}

func (h *EntityHandlers) BulkUpdate(c *gin.Context) {
	var req objects.BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, objects.ErrorResponse{
			Error: objects.Error{Type: http.StatusText(http.StatusBadRequest), Message: err.Error()},
		})

		return
	}

	affected, err := h.Entities.BulkUpdate(c.Request.Context(), c.Param("type"), req.Where, req.Fields)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.BulkUpdateResponse{Affected: affected})
}

func (h *EntityHandlers) Delete(c *gin.Context) {
	err := h.Entities.Delete(c.Request.Context(), c.Param("type"), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
