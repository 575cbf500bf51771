// Package httputil provides shared HTTP response helpers.
package httputil

import "github.com/gin-gonic/gin"

// ErrorBody is the JSON shape of every error response the service emits.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// RespondError writes a standardized JSON error response and aborts the
// request. The request ID set by the middleware chain is echoed so a
// client-reported error can be matched to server logs.
func RespondError(c *gin.Context, status int, code, message string) {
	body := ErrorBody{Code: code, Message: message}

	if rid, exists := c.Get("request_id"); exists {
		if s, ok := rid.(string); ok {
			body.RequestID = s
		}
	}

	c.AbortWithStatusJSON(status, body)
}
