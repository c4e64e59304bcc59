package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shareit-lending/service-shareit/internal/common/domain"
	"github.com/shareit-lending/service-shareit/internal/common/middleware"
	"github.com/shareit-lending/service-shareit/internal/common/response"
)

// pathID parses a positive integer path parameter, writing a 400 when it is malformed.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		response.BadRequest(c, fmt.Sprintf("invalid %s: %s", name, c.Param(name)))
		return 0, false
	}
	return id, true
}

// sharerID returns the caller id set by SharerIDMiddleware.
func sharerID(c *gin.Context) (int64, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		response.BadRequest(c, "missing "+middleware.HeaderUserID+" header")
		return 0, false
	}
	return id, true
}

// parsePagination reads the optional from and size query parameters. Range checks are left
// to the services so that they surface as pagination errors.
func parsePagination(c *gin.Context) (domain.Pagination, bool) {
	var page domain.Pagination
	for _, p := range []struct {
		name string
		dst  **int
	}{{"from", &page.From}, {"size", &page.Size}} {
		raw, ok := c.GetQuery(p.name)
		if !ok {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, fmt.Sprintf("invalid %s: %s", p.name, raw))
			return domain.Pagination{}, false
		}
		*p.dst = &v
	}
	return page, true
}
