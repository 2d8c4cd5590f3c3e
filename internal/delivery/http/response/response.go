package response

import (
	"github.com/gin-gonic/gin"
)

// Response is the envelope of every contact endpoint. Health endpoints write
// their own flat bodies.
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     interface{} `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// Success sends a success response
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: requestID(c),
	})
}

// Error sends an error response. detail becomes the "error" field and is
// omitted when nil or an empty string.
func Error(c *gin.Context, code int, message string, detail interface{}) {
	if s, ok := detail.(string); ok && s == "" {
		detail = nil
	}
	c.JSON(code, Response{
		Success:   false,
		Message:   message,
		Error:     detail,
		RequestID: requestID(c),
	})
}

func requestID(c *gin.Context) string {
	id, _ := c.Get("RequestID")
	s, _ := id.(string)
	return s
}
