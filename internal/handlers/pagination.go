package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListResponse is the shape of every paginated collection response.
type ListResponse struct {
	Data  interface{} `json:"data"`
	Count int         `json:"count"`
}

// paginationParams reads the skip/limit query parameters, falling back
// to skip=0 and limit=100 when absent or unparseable.
func paginationParams(c *gin.Context) (skip, limit int) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 0 {
		limit = 100
	}
	return skip, limit
}
