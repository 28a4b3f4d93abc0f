package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Codes carried in the JSON envelope. Non-zero codes start with the HTTP status.
const (
	CodeOK              = 0
	CodeFeedUnavailable = 50001
)

// JSONResponse is the envelope of every JSON endpoint (/health, /api/v1/feed).
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Respond writes a JSON envelope with the given status code.
func Respond(ctx *gin.Context, status int, code int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success answers 200 with CodeOK.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusOK, CodeOK, "success", data)
}

// Error answers status with an application code and no data.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, code, message, nil)
}
