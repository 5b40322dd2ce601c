package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/taskboard-api/internal/constants"
)

func paginationContext(query string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/projects?"+query, nil)
	return c
}

func TestGetPaginationParams_Defaults(t *testing.T) {
	params := GetPaginationParams(paginationContext(""))

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, constants.DefaultPageSize, params.Limit)
	assert.Equal(t, 0, params.Offset)
}

func TestGetPaginationParams_Explicit(t *testing.T) {
	params := GetPaginationParams(paginationContext("page=3&limit=10"))

	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 10, params.Limit)
	assert.Equal(t, 20, params.Offset)
}

func TestGetPaginationParams_OutOfRange(t *testing.T) {
	params := GetPaginationParams(paginationContext("page=-2&limit=5000"))

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, constants.DefaultPageSize, params.Limit)
}

func TestGetPaginationParams_Malformed(t *testing.T) {
	params := GetPaginationParams(paginationContext("page=abc&limit=7"))

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, constants.DefaultPageSize, params.Limit)
}

func TestPaginationParams_Response(t *testing.T) {
	resp := NewPaginationParams(2, 5).Response(42)

	assert.Equal(t, PaginationResponse{Page: 2, Limit: 5, Total: 42}, resp)
}
