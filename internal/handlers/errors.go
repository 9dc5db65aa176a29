package handlers

import (
	"net/http"

	"task-tracker/internal/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto the response taxonomy: missing
// entities are 404, business-rule and uniqueness violations are 400 with the
// rule's message, everything else is a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process request"})
	}
}
