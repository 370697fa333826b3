package utils

import (
	"github.com/gin-gonic/gin"
)

// Envelope is the body of every REST response
type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Error   string `json:"error,omitempty"`
}

// JSONResponse sends a structured JSON response
func JSONResponse(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Envelope{Status: status, Message: message, Data: data})
}

// JSONError sends a structured error response and aborts the handler chain
func JSONError(c *gin.Context, status int, err error, message string) {
	env := Envelope{Status: status, Message: message}
	if err != nil {
		env.Error = err.Error()
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, env)
}
