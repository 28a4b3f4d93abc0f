package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestResponseEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		write          func(ctx *gin.Context)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Success",
			write:          func(ctx *gin.Context) { Success(ctx, gin.H{"status": "ok"}) },
			expectedStatus: http.StatusOK,
			expectedBody:   `{"code":0,"message":"success","data":{"status":"ok"}}`,
		},
		{
			name: "Feed Unavailable",
			write: func(ctx *gin.Context) {
				Error(ctx, http.StatusInternalServerError, CodeFeedUnavailable, "failed to load feed")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"code":50001,"message":"failed to load feed"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(w)
			tt.write(ctx)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
