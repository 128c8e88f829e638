package helper_util

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetPaginationParams reads limit/offset from the query string. Values that
// fail to parse fall back to the defaults rather than failing the request.
func GetPaginationParams(c *gin.Context) (limit int, offset int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
