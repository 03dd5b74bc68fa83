package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultPageLimit = 100

// pageParams reads offset/limit query parameters. Invalid values fall back to
// the defaults rather than failing the request.
func pageParams(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if limit <= 0 || limit > 1000 {
		limit = defaultPageLimit
	}
	return offset, limit
}
