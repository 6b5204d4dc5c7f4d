package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONResponse is the envelope every endpoint answers with. Code 0 means
// success; non-zero codes identify the failure class beyond the HTTP status.
type JSONResponse struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// Success writes a 0-code envelope. Success bodies carry no request id so
// cached payloads stay shareable across requests.
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, JSONResponse{Code: 0, Message: "success", Data: data})
}

// Error writes a failure envelope. The request id is echoed so clients can
// quote it when reporting problems.
func Error(ctx *gin.Context, status int, code int, message string) {
	ctx.JSON(status, JSONResponse{
		Code:      code,
		Message:   message,
		RequestID: ctx.Writer.Header().Get(RequestIDHeader),
	})
}
