package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespond_DefaultMessageAndAbort(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	NotFound(c, "")

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, c.IsAborted())

	var body APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ErrCodeNotFound, body.Code)
	assert.Equal(t, "Resource not found", body.Message)
	assert.Nil(t, body.Details)
}

func TestRespond_ValidationDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ValidationFailed(c, map[string]string{"title": "title is required"})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ErrCodeValidationFailed, body.Code)
	assert.Equal(t, "title is required", body.Details["title"])
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusConflict, StatusFor(ErrCodeConflict))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(ErrCodePartialFailure))
	assert.Equal(t, http.StatusInternalServerError, StatusFor("SOMETHING_ELSE"))
}
