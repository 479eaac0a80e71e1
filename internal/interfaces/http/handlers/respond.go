// internal/interfaces/http/handlers/respond.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
)

// respondError maps a service error onto the wire. Upstream details are
// masked; validation, business rule and not-found messages pass through.
func respondError(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{
		"error": apperr.PublicMessage(err),
	})
}

func respondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{
		"message": message,
		"data":    data,
	})
}
