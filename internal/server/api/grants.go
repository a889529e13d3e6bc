package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/looplj/modelguard/internal/authz"
	"github.com/looplj/modelguard/internal/objects"
	"github.com/looplj/modelguard/internal/perms"
	"github.com/looplj/modelguard/internal/server/middleware"
	"github.com/looplj/modelguard/internal/storage"
)

// GrantHandlers manages permission grants in the bundled permission store.
// Grant management suspends enforcement internally, so only superuser actors
// may reach these endpoints.
type GrantHandlers struct {
	Perms *perms.Store
}

func NewGrantHandlers(store *perms.Store) *GrantHandlers {
	return &GrantHandlers{Perms: store}
}

func (h *GrantHandlers) Register(group *gin.RouterGroup) {
	group.POST("/grants", h.Assign)
	group.DELETE("/grants", h.Remove)
}

var errSuperuserRequired = errors.New("grant management requires a superuser actor")

func (h *GrantHandlers) requireSuperuser(c *gin.Context) bool {
	if !authz.CurrentActor(c.Request.Context()).Superuser {
		middleware.AbortWithError(c, http.StatusForbidden, errSuperuserRequired)
		return false
	}

	return true
}

func (h *GrantHandlers) bindGrant(c *gin.Context) (objects.GrantRequest, storage.Entity, bool) {
	var req objects.GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, err)
		return req, nil, false
	}

	// ObjectID is "type:id" for object-level grants, empty for class-level.
	var obj storage.Entity

	if req.ObjectID != "" {
		entityType, id, ok := strings.Cut(req.ObjectID, ":")
		if !ok {
			middleware.AbortWithError(c, http.StatusBadRequest, errors.New("objectId must be type:id"))
			return req, nil, false
		}

		obj = &storage.Record{Type: entityType, ID: id}
	}

	return req, obj, true
}

func (h *GrantHandlers) Assign(c *gin.Context) {
	if !h.requireSuperuser(c) {
		return
	}

	req, obj, ok := h.bindGrant(c)
	if !ok {
		return
	}

	err := h.Perms.AssignPerm(c.Request.Context(), req.Permission, authz.Actor{ID: req.ActorID}, obj)
	if err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *GrantHandlers) Remove(c *gin.Context) {
	if !h.requireSuperuser(c) {
		return
	}

	req, obj, ok := h.bindGrant(c)
	if !ok {
		return
	}

	err := h.Perms.RemovePerm(c.Request.Context(), req.Permission, authz.Actor{ID: req.ActorID}, obj)
	if err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
