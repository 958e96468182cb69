package httperr

import (
	"github.com/gin-gonic/gin"
)

// Envelope is the response shape every endpoint returns, success or failure.
type Envelope struct {
	Status  int      `json:"-"`
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func OK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, details []string) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Envelope{
		Status:  status,
		Success: false,
		Message: msg,
		Errors:  details,
	}

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
