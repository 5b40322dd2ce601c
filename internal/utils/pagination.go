package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard-api/internal/constants"
)

// PaginationParams is a resolved page window. Offset is derived from Page and Limit.
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationResponse is the pagination block of list responses.
type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type pageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// GetPaginationParams reads ?page= and ?limit=. Missing, malformed or out of
// range values fall back to the first page and the default page size.
func GetPaginationParams(c *gin.Context) PaginationParams {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		q = pageQuery{}
	}
	return NewPaginationParams(q.Page, q.Limit)
}

func NewPaginationParams(page, limit int) PaginationParams {
	page = max(page, 1)
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}
	return PaginationParams{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

// Response pairs the window with the total row count.
func (p PaginationParams) Response(total int64) PaginationResponse {
	return PaginationResponse{Page: p.Page, Limit: p.Limit, Total: total}
}
