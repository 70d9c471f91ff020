package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ortholink/ortholink-api/pkg/pagination"
)

// Envelope is the standard API response body.
// Pagination is present only on list endpoints.
type Envelope struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message"`
	RequestID  string           `json:"request_id,omitempty"`
	Data       interface{}      `json:"data,omitempty"`
	Pagination *pagination.Meta `json:"pagination,omitempty"`
	Error      interface{}      `json:"error,omitempty"`
}

func Success(c *gin.Context, status int, data interface{}, message string) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, Envelope{
		Success:   true,
		Message:   message,
		RequestID: c.GetString("request_id"),
		Data:      data,
	})
}

// List writes a successful paginated response.
func List(c *gin.Context, data interface{}, meta pagination.Meta, message string) {
	c.JSON(http.StatusOK, Envelope{
		Success:    true,
		Message:    message,
		RequestID:  c.GetString("request_id"),
		Data:       data,
		Pagination: &meta,
	})
}

func Error(c *gin.Context, status int, message string, details interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, Envelope{
		Success:   false,
		Message:   message,
		RequestID: c.GetString("request_id"),
		Error:     details,
	})
}

// AbortError writes an error response and aborts the middleware chain.
func AbortError(c *gin.Context, status int, message string, details interface{}) {
	c.AbortWithStatusJSON(status, Envelope{
		Success:   false,
		Message:   message,
		RequestID: c.GetString("request_id"),
		Error:     details,
	})
}
