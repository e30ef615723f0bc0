package response

import (
	"github.com/gin-gonic/gin"

	domainerrors "github.com/ParvPasricha/loyalty-system/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error maps a domain error to its HTTP representation and sends it. Clients
// only ever see the stable code and message, never the wrapped error.
func Error(c *gin.Context, err error) {
	appErr := domainerrors.FromDomain(err)
	c.JSON(appErr.Status, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}
