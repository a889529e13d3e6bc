package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/looplj/modelguard/internal/objects"
	"github.com/looplj/modelguard/internal/storage"
)

// AbortWithError aborts the request with a JSON error response and adds the
// error to the gin context for access logging.
func AbortWithError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, objects.ErrorResponse{
		Error: objects.Error{
			Type:    http.StatusText(status),
			Message: err.Error(),
		},
	})
}

// ErrorResponses converts errors recorded on the gin context into default
// JSON responses. It runs after the denial middleware, so access denials
// never reach it.
func ErrorResponses() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		status := http.StatusInternalServerError
		if errors.Is(err, storage.ErrNotFound) {
			status = http.StatusNotFound
		}

		c.JSON(status, objects.ErrorResponse{
			Error: objects.Error{
				Type:    http.StatusText(status),
				Message: err.Error(),
			},
		})
	}
}
