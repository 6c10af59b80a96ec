package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard JSON body for failed requests
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrResponse aborts the request with the given status and error message
func ErrResponse(c *gin.Context, code int, err error) {
	c.Error(err)
	c.AbortWithStatusJSON(code, ErrorResponse{Error: err.Error()})
}

// HealthCheckHandler returns a handler for health check endpoints
func HealthCheckHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"alive": true})
	}
}
