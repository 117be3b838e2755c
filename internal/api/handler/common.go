package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jpbaz28/Banking-API/internal/api/dto"
	"github.com/jpbaz28/Banking-API/internal/api/util"
)

// totalCountHeader carries the number of matches on list responses
const totalCountHeader = "X-Total-Count"

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "Bad Request",
		Message: message,
		Code:    http.StatusBadRequest,
	})
}

// parseListFilter reads query, order, page and per_page. Without page parameters the
// whole list is returned.
func parseListFilter(c *gin.Context, fields util.FieldSet) (util.ListFilter, bool) {
	page, err := intQuery(c, "page")
	if err != nil {
		badRequest(c, "page must be a number")
		return util.ListFilter{}, false
	}
	perPage, err := intQuery(c, "per_page")
	if err != nil {
		badRequest(c, "per_page must be a number")
		return util.ListFilter{}, false
	}

	filter, err := util.ParseListFilter(c.Query("query"), c.Query("order"), page, perPage, fields)
	if err != nil {
		badRequest(c, err.Error())
		return util.ListFilter{}, false
	}
	return filter, true
}

func intQuery(c *gin.Context, key string) (int, error) {
	value := c.Query(key)
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

func paginationInfo(filter util.ListFilter, total int) dto.PaginationInfo {
	page, perPage := filter.Page, filter.PerPage
	if perPage == 0 {
		page, perPage = 1, total
	}
	return dto.PaginationInfo{
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: util.TotalPages(total, filter.PerPage),
	}
}
