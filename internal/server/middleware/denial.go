package middleware

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/looplj/modelguard/internal/guard"
	"github.com/looplj/modelguard/internal/objects"
)

// DenialPage translates an access denial into an HTTP response. With a
// configured template it renders that template with the denial's message and
// a 403 status; without one the denial falls through to the default error
// handling. Other error types are never touched here.
func DenialPage(templatePath string) gin.HandlerFunc {
	templateName := ""
	if templatePath != "" {
		templateName = filepath.Base(templatePath)
	}

	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		if !guard.IsAccessDenied(err) {
			return
		}

		if templateName == "" {
			c.JSON(http.StatusForbidden, objects.ErrorResponse{
				Error: objects.Error{
					Type:    http.StatusText(http.StatusForbidden),
					Message: err.Error(),
				},
			})

			return
		}

		c.HTML(http.StatusForbidden, templateName, gin.H{"errmsg": err.Error()})
	}
}
