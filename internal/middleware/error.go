package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON shape every error reply uses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler logs every error a handler attached to the context and,
// when the handler wrote no body of its own, renders the last error as a
// JSON response. Panics are left to gin's recovery middleware.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		for _, err := range c.Errors {
			log.Printf("Request error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err.Err)
		}

		if c.Writer.Written() {
			return
		}
		status := c.Writer.Status()
		if status < 400 {
			status = http.StatusInternalServerError
		}
		c.JSON(status, ErrorResponse{Error: c.Errors.Last().Error()})
	}
}
