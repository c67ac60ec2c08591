package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", NewValidationError("totalMarks must be positive"), http.StatusBadRequest, "totalMarks must be positive"},
		{"not found", NewNotFoundError(ErrPaperNotFound, "Paper not found"), http.StatusNotFound, "Paper not found"},
		{"wrapped app error", fmt.Errorf("assign: %w", NewForbiddenError("nope")), http.StatusForbidden, "nope"},
		{"conflict", NewConflictError(ErrVersionConflict, "stale"), http.StatusConflict, "stale"},
		{"upstream hides cause", NewUpstreamError(errors.New("api key leaked")), http.StatusInternalServerError, "external service failed, please try again later"},
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound, "Resource not found"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Code)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusConflict, StatusOf(fmt.Errorf("x: %w", NewConflictError(nil, "y"))))
	assert.Zero(t, StatusOf(errors.New("plain")))
	assert.ErrorIs(t, NewForbiddenError("no"), ErrPermissionDenied)
}
